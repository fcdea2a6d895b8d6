package repository

import (
	"context"

	"restaurante/internal/model"
	"restaurante/internal/storage"

	"github.com/rs/zerolog"
)

type restaurantRepository struct {
	rows   *table[model.Restaurant]
	logger zerolog.Logger
}

// NewRestaurantRepository loads the restaurants snapshot, seeding the reference restaurants
// when the namespace was never saved.
func NewRestaurantRepository(ctx context.Context, store storage.Store, logger zerolog.Logger) (RestaurantRepository, error) {
	logger = logger.With().Str("repository", "restaurant").Logger()
	rows, err := openTable(ctx, store, tableSpec[model.Restaurant]{
		namespace: storage.NamespaceRestaurants,
		id:        func(r *model.Restaurant) int64 { return r.ID },
		setID:     func(r *model.Restaurant, id int64) { r.ID = id },
		seed:      func() ([]model.Restaurant, error) { return readSeed[model.Restaurant]("restaurants.json") },
	}, logger)
	if err != nil {
		return nil, err
	}
	return &restaurantRepository{rows: rows, logger: logger}, nil
}

func (r *restaurantRepository) List(ctx context.Context) ([]model.Restaurant, error) {
	return r.rows.list(), nil
}

func (r *restaurantRepository) GetByID(ctx context.Context, id int64) (*model.Restaurant, error) {
	rest, ok := r.rows.get(id)
	if !ok {
		r.logger.Debug().Int64("restaurant_id", id).Msg("restaurant not found")
		return nil, nil
	}
	return &rest, nil
}

func (r *restaurantRepository) Upsert(ctx context.Context, rest model.Restaurant) (*model.Restaurant, error) {
	stored := r.rows.put(ctx, rest)
	return &stored, nil
}

func (r *restaurantRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return r.rows.remove(ctx, id), nil
}
