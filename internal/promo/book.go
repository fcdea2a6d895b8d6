package promo

import (
	"context"
	"fmt"

	"restaurante/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Book is the read-only set of promos available at checkout.
type Book struct {
	promos Set
	logger zerolog.Logger
}

// NewBook loads every path concurrently. When a code appears in more than one file the
// entry from the later path wins. Any load failure fails the whole book.
func NewBook(ctx context.Context, paths []string, loader Loader, logger zerolog.Logger) (*Book, error) {
	logger = logger.With().Str("component", "promo-book").Logger()

	sets := make([]Set, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			set, err := loader.Load(gctx, path)
			if err != nil {
				return fmt.Errorf("failed to load promo file %s: %w", path, err)
			}
			sets[i] = set
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("failed to build promo book")
		return nil, err
	}

	merged := make(Set)
	for _, set := range sets {
		for code, p := range set {
			merged[code] = p
		}
	}

	logger.Info().
		Int("file_count", len(paths)).
		Int("promo_count", len(merged)).
		Msg("promo book loaded")

	return &Book{promos: merged, logger: logger}, nil
}

// NewBookFromSet builds a book from promos already in memory.
func NewBookFromSet(set Set, logger zerolog.Logger) *Book {
	promos := make(Set, len(set))
	for code, p := range set {
		code = NormalizeCode(code)
		p.Code = code
		promos[code] = p
	}
	return &Book{promos: promos, logger: logger.With().Str("component", "promo-book").Logger()}
}

// Lookup finds code, ignoring case and surrounding whitespace.
func (b *Book) Lookup(code string) (Promo, error) {
	code = NormalizeCode(code)
	if !ValidCodeLength(code) {
		return Promo{}, fmt.Errorf("%w: code must have between %d and %d characters",
			model.ErrInvalidPromoCode, MinCodeLength, MaxCodeLength)
	}

	p, ok := b.promos[code]
	if !ok {
		b.logger.Debug().Str("promo_code", code).Msg("promo code not found")
		return Promo{}, model.ErrInvalidPromoCode
	}
	return p, nil
}

// Len is the number of promos in the book.
func (b *Book) Len() int {
	return len(b.promos)
}
