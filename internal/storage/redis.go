package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisStore keeps each snapshot as a string value under <prefix><namespace>.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, prefix string, logger zerolog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		logger: logger.With().Str("component", "redis-store").Logger(),
	}
}

// Key returns the redis key used for namespace.
func (s *RedisStore) Key(namespace string) string {
	return s.prefix + namespace
}

// Load fetches the snapshot for namespace.
func (s *RedisStore) Load(ctx context.Context, namespace string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.Key(namespace)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Str("key", s.Key(namespace)).Msg("failed to get snapshot")
		return nil, fmt.Errorf("failed to get snapshot %s from redis: %w", namespace, err)
	}
	return data, nil
}

// Save overwrites the snapshot for namespace without expiry.
func (s *RedisStore) Save(ctx context.Context, namespace string, data []byte) error {
	if err := s.client.Set(ctx, s.Key(namespace), data, 0).Err(); err != nil {
		s.logger.Error().Err(err).Str("key", s.Key(namespace)).Msg("failed to set snapshot")
		return fmt.Errorf("failed to set snapshot %s in redis: %w", namespace, err)
	}
	return nil
}
