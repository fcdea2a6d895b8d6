// Command migrate creates the snapshots table used by the postgres storage backend and
// lists the namespaces already stored.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"restaurante/internal/config"
	"restaurante/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		return err
	}
	logger.Info().Str("database", cfg.Database.Database).Msg("snapshots table ready")

	rows, err := pool.Query(ctx, `SELECT namespace, octet_length(payload::text), updated_at FROM snapshots ORDER BY namespace`)
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			namespace string
			size      int
			updatedAt time.Time
		)
		if err := rows.Scan(&namespace, &size, &updatedAt); err != nil {
			return fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		fmt.Printf("  - %-12s %8d bytes  %s\n", namespace, size, updatedAt.Format(time.RFC3339))
	}
	return rows.Err()
}
