package repository

import (
	"context"

	"restaurante/internal/model"
	"restaurante/internal/storage"

	"github.com/rs/zerolog"
)

type reviewRepository struct {
	rows *table[model.Review]
}

// NewReviewRepository loads the reviews snapshot, seeding the reference reviews when the
// namespace was never saved.
func NewReviewRepository(ctx context.Context, store storage.Store, logger zerolog.Logger) (ReviewRepository, error) {
	rows, err := openTable(ctx, store, tableSpec[model.Review]{
		namespace: storage.NamespaceReviews,
		id:        func(r *model.Review) int64 { return r.ID },
		setID:     func(r *model.Review, id int64) { r.ID = id },
		seed:      func() ([]model.Review, error) { return readSeed[model.Review]("reviews.json") },
	}, logger.With().Str("repository", "review").Logger())
	if err != nil {
		return nil, err
	}
	return &reviewRepository{rows: rows}, nil
}

func (r *reviewRepository) List(ctx context.Context) ([]model.Review, error) {
	return r.rows.list(), nil
}

func (r *reviewRepository) Create(ctx context.Context, rev model.Review) (*model.Review, error) {
	rev.ID = 0
	stored, _ := r.rows.insert(ctx, rev, nil)
	return &stored, nil
}
