package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"restaurante/internal/identity"
	"restaurante/internal/model"
	"restaurante/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

type authService struct {
	userRepo repository.UserRepository
	sessions *identity.Sessions
	identity identity.Provider
	cost     int
	now      func() time.Time
	logger   zerolog.Logger
}

// AuthOption customizes the auth service.
type AuthOption func(*authService)

// WithBcryptCost sets the cost used to hash new passwords.
func WithBcryptCost(cost int) AuthOption {
	return func(s *authService) { s.cost = cost }
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repository.UserRepository,
	sessions *identity.Sessions,
	provider identity.Provider,
	logger zerolog.Logger,
	opts ...AuthOption,
) AuthService {
	s := &authService{
		userRepo: userRepo,
		sessions: sessions,
		identity: provider,
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a customer account and logs it in.
func (s *authService) Register(ctx context.Context, name, email, password string) (*Session, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", model.ErrValidation)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must have at least %d characters", model.ErrValidation, MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleCustomer,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			s.logger.Warn().Str("email", email).Msg("email already registered")
		}
		return nil, err
	}

	return s.open(user), nil
}

// Login checks the credentials and opens a session.
func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		s.logger.Debug().Str("email", email).Msg("login for unknown email")
		return nil, model.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn().Int64("user_id", user.ID).Msg("login with wrong password")
		return nil, model.ErrInvalidCredentials
	}
	return s.open(user), nil
}

func (s *authService) open(user *model.User) *Session {
	token := s.sessions.Create(user.ID)
	s.logger.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("session opened")
	return &Session{Token: token, User: user.Public()}
}

func (s *authService) Logout(ctx context.Context, token string) {
	s.sessions.Revoke(token)
}

func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, nil
	}
	userID, ok := s.sessions.Resolve(token)
	if !ok {
		return nil, nil
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		s.sessions.Revoke(token)
		return nil, nil
	}
	return user, nil
}

func (s *authService) Me(ctx context.Context) (*model.User, error) {
	user, err := identity.Require(ctx, s.identity)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}
