package repository

import (
	"context"
	"strings"

	"restaurante/internal/model"
	"restaurante/internal/storage"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type userRepository struct {
	rows   *table[model.User]
	logger zerolog.Logger
}

// UserOption customizes the user repository.
type UserOption func(*userOptions)

type userOptions struct {
	passwordCost int
}

// WithPasswordCost sets the bcrypt cost used to hash the seeded accounts.
func WithPasswordCost(cost int) UserOption {
	return func(o *userOptions) { o.passwordCost = cost }
}

// NewUserRepository loads the users snapshot. The reference accounts are seeded when the
// namespace was never saved.
func NewUserRepository(ctx context.Context, store storage.Store, logger zerolog.Logger, opts ...UserOption) (UserRepository, error) {
	o := userOptions{passwordCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(&o)
	}

	logger = logger.With().Str("repository", "user").Logger()
	rows, err := openTable(ctx, store, tableSpec[model.User]{
		namespace: storage.NamespaceUsers,
		id:        func(u *model.User) int64 { return u.ID },
		setID:     func(u *model.User, id int64) { u.ID = id },
		seed:      func() ([]model.User, error) { return seedUsers(o.passwordCost) },
	}, logger)
	if err != nil {
		return nil, err
	}
	return &userRepository{rows: rows, logger: logger}, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u, ok := r.rows.get(id)
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.TrimSpace(email)
	u, ok := r.rows.find(func(u *model.User) bool { return strings.EqualFold(u.Email, email) })
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, u model.User) (*model.User, error) {
	u.Email = strings.TrimSpace(u.Email)
	stored, ok := r.rows.insert(ctx, u, func(existing *model.User) bool {
		return strings.EqualFold(existing.Email, u.Email)
	})
	if !ok {
		return nil, model.ErrEmailTaken
	}
	r.logger.Info().Int64("user_id", stored.ID).Str("role", string(stored.Role)).Msg("user created")
	return &stored, nil
}
