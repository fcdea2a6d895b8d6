package app

import (
	"context"
	"fmt"

	"restaurante/internal/config"
	"restaurante/internal/database"
	"restaurante/internal/storage"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// OpenStore opens the configured snapshot backend, mirrored to MirrorDir when set.
// The returned func releases backend connections.
func OpenStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (storage.Store, func(), error) {
	store, cleanup, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Storage.MirrorDir != "" && cfg.Storage.Backend != config.BackendMemory {
		mirror, err := storage.NewFileStore(cfg.Storage.MirrorDir, logger)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to open storage mirror: %w", err)
		}
		store = storage.NewFallbackStore(store, mirror, logger)
		logger.Info().Str("dir", cfg.Storage.MirrorDir).Msg("mirroring snapshots to local directory")
	}

	logger.Info().Str("backend", cfg.Storage.Backend).Msg("snapshot store ready")
	return store, cleanup, nil
}

func openBackend(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (storage.Store, func(), error) {
	noop := func() {}

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		logger.Warn().Msg("using in-memory storage, data is lost on restart")
		return storage.NewMemoryStore(), noop, nil

	case config.BackendFile:
		store, err := storage.NewFileStore(cfg.Storage.Dir, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open file storage: %w", err)
		}
		return store, noop, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return storage.NewRedisStore(client, cfg.Redis.KeyPrefix, logger), func() { _ = client.Close() }, nil

	case config.BackendPostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := database.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return storage.NewPostgresStore(pool, logger), pool.Close, nil

	case config.BackendS3:
		store, err := storage.NewS3Store(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		return store, noop, nil
	}

	return nil, nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
}
