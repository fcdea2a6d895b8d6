package identity

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type session struct {
	userID    int64
	expiresAt time.Time
}

// Sessions maps opaque tokens to user ids. Tokens live in memory only.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]session
	ttl      time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

// NewSessions creates an empty session table whose tokens expire after ttl.
func NewSessions(ttl time.Duration, logger zerolog.Logger) *Sessions {
	return &Sessions{
		sessions: make(map[string]session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger.With().Str("component", "sessions").Logger(),
	}
}

// Create issues a new token for userID.
func (s *Sessions) Create(userID int64) string {
	token := uuid.NewString()

	s.mu.Lock()
	s.sessions[token] = session{userID: userID, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()

	s.logger.Debug().Int64("user_id", userID).Msg("session created")
	return token
}

// Resolve returns the user id for token. Expired tokens are dropped.
func (s *Sessions) Resolve(token string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return 0, false
	}
	if !s.now().Before(sess.expiresAt) {
		delete(s.sessions, token)
		return 0, false
	}
	return sess.userID, true
}

// Revoke deletes token.
func (s *Sessions) Revoke(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Sweep removes every expired session and returns how many were removed.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for token, sess := range s.sessions {
		if !now.Before(sess.expiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}
