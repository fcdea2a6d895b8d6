package repository

import (
	"context"

	"restaurante/internal/model"
	"restaurante/internal/storage"

	"github.com/rs/zerolog"
)

type favoritesRepository struct {
	rows *table[model.Favorites]
}

// NewFavoritesRepository loads the favorites snapshot.
func NewFavoritesRepository(ctx context.Context, store storage.Store, logger zerolog.Logger) (FavoritesRepository, error) {
	rows, err := openTable(ctx, store, tableSpec[model.Favorites]{
		namespace: storage.NamespaceFavorites,
		id:        func(f *model.Favorites) int64 { return f.UserID },
		setID:     func(f *model.Favorites, id int64) { f.UserID = id },
		clone:     cloneFavorites,
	}, logger.With().Str("repository", "favorites").Logger())
	if err != nil {
		return nil, err
	}
	return &favoritesRepository{rows: rows}, nil
}

func cloneFavorites(f model.Favorites) model.Favorites {
	f.Products = append([]int64{}, f.Products...)
	f.Restaurants = append([]int64{}, f.Restaurants...)
	return f
}

func (r *favoritesRepository) Get(ctx context.Context, userID int64) (*model.Favorites, error) {
	f, ok := r.rows.get(userID)
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (r *favoritesRepository) Update(ctx context.Context, userID int64, fn func(*model.Favorites) error) (*model.Favorites, error) {
	f, err := r.rows.update(ctx, userID, func(row *model.Favorites) error {
		*row = cloneFavorites(*row)
		return fn(row)
	})
	if err != nil {
		return nil, err
	}
	return &f, nil
}
