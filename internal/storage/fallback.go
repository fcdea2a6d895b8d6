package storage

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// fallbackStore reads from the primary store and falls back to a secondary one.
type fallbackStore struct {
	primary   Store
	secondary Store
	logger    zerolog.Logger
}

// NewFallbackStore returns a store that tries primary first and uses secondary when the
// primary fails or has no snapshot. Saves go to both; a save fails only when both fail.
func NewFallbackStore(primary, secondary Store, logger zerolog.Logger) Store {
	return &fallbackStore{
		primary:   primary,
		secondary: secondary,
		logger:    logger.With().Str("component", "fallback-store").Logger(),
	}
}

// Load attempts the primary store, then the secondary.
func (s *fallbackStore) Load(ctx context.Context, namespace string) ([]byte, error) {
	data, err := s.primary.Load(ctx, namespace)
	if err == nil {
		return data, nil
	}

	if errors.Is(err, ErrNotFound) {
		s.logger.Debug().Str("namespace", namespace).Msg("primary has no snapshot, trying secondary")
	} else {
		s.logger.Warn().Err(err).Str("namespace", namespace).Msg("primary load failed, falling back to secondary")
	}

	return s.secondary.Load(ctx, namespace)
}

// Save writes to the primary store and mirrors to the secondary.
func (s *fallbackStore) Save(ctx context.Context, namespace string, data []byte) error {
	primaryErr := s.primary.Save(ctx, namespace, data)
	if primaryErr != nil {
		s.logger.Warn().Err(primaryErr).Str("namespace", namespace).Msg("primary save failed")
	}

	if err := s.secondary.Save(ctx, namespace, data); err != nil {
		s.logger.Warn().Err(err).Str("namespace", namespace).Msg("mirror save failed")
		return primaryErr
	}

	if primaryErr != nil {
		s.logger.Info().Str("namespace", namespace).Msg("snapshot kept on secondary only")
	}
	return nil
}
