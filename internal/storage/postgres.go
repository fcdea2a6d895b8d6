package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// PostgresStore keeps snapshots in the snapshots table, one row per namespace.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresStore creates a PostgreSQL-backed snapshot store.
// The snapshots table must exist; see database.EnsureSchema.
func NewPostgresStore(pool *pgxpool.Pool, logger zerolog.Logger) *PostgresStore {
	return &PostgresStore{
		pool:   pool,
		logger: logger.With().Str("component", "postgres-store").Logger(),
	}
}

// Load retrieves the payload stored for namespace.
func (s *PostgresStore) Load(ctx context.Context, namespace string) ([]byte, error) {
	query := `
		SELECT payload
		FROM snapshots
		WHERE namespace = $1
	`

	var payload []byte
	err := s.pool.QueryRow(ctx, query, namespace).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		s.logger.Error().Err(err).Str("namespace", namespace).Msg("failed to query snapshot")
		return nil, fmt.Errorf("failed to query snapshot %s: %w", namespace, err)
	}
	return payload, nil
}

// Save upserts the payload for namespace.
func (s *PostgresStore) Save(ctx context.Context, namespace string, data []byte) error {
	query := `
		INSERT INTO snapshots (namespace, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (namespace) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`

	if _, err := s.pool.Exec(ctx, query, namespace, data); err != nil {
		s.logger.Error().Err(err).Str("namespace", namespace).Msg("failed to upsert snapshot")
		return fmt.Errorf("failed to save snapshot %s: %w", namespace, err)
	}

	s.logger.Debug().Str("namespace", namespace).Int("bytes", len(data)).Msg("snapshot saved")
	return nil
}
