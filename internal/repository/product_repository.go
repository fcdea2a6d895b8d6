package repository

import (
	"context"

	"restaurante/internal/model"
	"restaurante/internal/storage"

	"github.com/rs/zerolog"
)

// productRepository implements ProductRepository over the products snapshot.
type productRepository struct {
	rows   *table[model.Product]
	logger zerolog.Logger
}

// NewProductRepository loads the products snapshot, seeding the reference menu when the
// namespace was never saved.
func NewProductRepository(ctx context.Context, store storage.Store, logger zerolog.Logger) (ProductRepository, error) {
	logger = logger.With().Str("repository", "product").Logger()
	rows, err := openTable(ctx, store, tableSpec[model.Product]{
		namespace: storage.NamespaceProducts,
		id:        func(p *model.Product) int64 { return p.ID },
		setID:     func(p *model.Product, id int64) { p.ID = id },
		seed:      func() ([]model.Product, error) { return readSeed[model.Product]("products.json") },
	}, logger)
	if err != nil {
		return nil, err
	}
	return &productRepository{rows: rows, logger: logger}, nil
}

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	return r.rows.list(), nil
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	p, ok := r.rows.get(id)
	if !ok {
		r.logger.Debug().Int64("product_id", id).Msg("product not found")
		return nil, nil
	}
	return &p, nil
}

func (r *productRepository) Upsert(ctx context.Context, p model.Product) (*model.Product, error) {
	stored := r.rows.put(ctx, p)
	r.logger.Debug().Int64("product_id", stored.ID).Msg("product stored")
	return &stored, nil
}

func (r *productRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return r.rows.remove(ctx, id), nil
}
