package promo

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a loader reading promo files from the local file system.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "promo-loader").Logger(),
	}
}

func (l *fileLoader) Load(ctx context.Context, path string) (Set, error) {
	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open promo file")
		return nil, fmt.Errorf("failed to open promo file %s: %w", path, err)
	}
	defer file.Close()

	set, skipped, err := Parse(ctx, file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to parse promo file")
		return nil, fmt.Errorf("failed to parse promo file %s: %w", path, err)
	}

	event := l.logger.Info()
	if skipped > 0 {
		event = l.logger.Warn().Int("skipped_lines", skipped)
	}
	event.Str("file", path).Int("promos_loaded", len(set)).Msg("promo file loaded")

	return set, nil
}
