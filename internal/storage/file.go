package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// FileStore keeps one JSON file per namespace in a directory.
type FileStore struct {
	dir    string
	logger zerolog.Logger
}

// NewFileStore creates the directory if needed and returns a store rooted at it.
func NewFileStore(dir string, logger zerolog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}

	logger = logger.With().Str("component", "file-store").Logger()
	logger.Info().Str("dir", dir).Msg("file store initialised")

	return &FileStore{dir: dir, logger: logger}, nil
}

func (s *FileStore) path(namespace string) string {
	return filepath.Join(s.dir, namespace+".json")
}

// Load reads the snapshot file for namespace.
func (s *FileStore) Load(ctx context.Context, namespace string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(namespace))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Str("namespace", namespace).Msg("failed to read snapshot file")
		return nil, fmt.Errorf("failed to read snapshot %s: %w", namespace, err)
	}
	return data, nil
}

// Save writes the snapshot to a temporary file and renames it into place,
// so a crash leaves either the previous or the new snapshot on disk.
func (s *FileStore) Save(ctx context.Context, namespace string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, namespace+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", namespace, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot %s: %w", namespace, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close snapshot %s: %w", namespace, err)
	}
	if err := os.Rename(tmpName, s.path(namespace)); err != nil {
		os.Remove(tmpName)
		s.logger.Error().Err(err).Str("namespace", namespace).Msg("failed to replace snapshot file")
		return fmt.Errorf("failed to replace snapshot %s: %w", namespace, err)
	}

	s.logger.Debug().Str("namespace", namespace).Int("bytes", len(data)).Msg("snapshot written")
	return nil
}
