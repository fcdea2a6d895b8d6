package service

import (
	"context"
	"fmt"
	"slices"

	"restaurante/internal/identity"
	"restaurante/internal/model"
	"restaurante/internal/repository"

	"github.com/rs/zerolog"
)

type favoritesService struct {
	favoritesRepo  repository.FavoritesRepository
	productRepo    repository.ProductRepository
	restaurantRepo repository.RestaurantRepository
	identity       identity.Provider
	logger         zerolog.Logger
}

// NewFavoritesService creates a new favorites service.
func NewFavoritesService(
	favoritesRepo repository.FavoritesRepository,
	productRepo repository.ProductRepository,
	restaurantRepo repository.RestaurantRepository,
	provider identity.Provider,
	logger zerolog.Logger,
) FavoritesService {
	return &favoritesService{
		favoritesRepo:  favoritesRepo,
		productRepo:    productRepo,
		restaurantRepo: restaurantRepo,
		identity:       provider,
		logger:         logger.With().Str("service", "favorites").Logger(),
	}
}

func (s *favoritesService) List(ctx context.Context) (*model.Favorites, error) {
	user, err := identity.Require(ctx, s.identity)
	if err != nil {
		return nil, err
	}
	f, err := s.favoritesRepo.Get(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get favorites: %w", err)
	}
	if f == nil {
		f = &model.Favorites{UserID: user.ID}
	}
	if f.Products == nil {
		f.Products = []int64{}
	}
	if f.Restaurants == nil {
		f.Restaurants = []int64{}
	}
	return f, nil
}

func (s *favoritesService) Toggle(ctx context.Context, kind string, id int64) (bool, error) {
	user, err := identity.Require(ctx, s.identity)
	if err != nil {
		return false, err
	}
	if err := s.checkTarget(ctx, kind, id); err != nil {
		return false, err
	}

	var now bool
	_, err = s.favoritesRepo.Update(ctx, user.ID, func(f *model.Favorites) error {
		ids := idsOf(f, kind)
		if i := slices.Index(*ids, id); i >= 0 {
			*ids = slices.Delete(*ids, i, i+1)
			now = false
			return nil
		}
		*ids = append(*ids, id)
		now = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to update favorites: %w", err)
	}

	s.logger.Debug().
		Int64("user_id", user.ID).
		Str("kind", kind).
		Int64("id", id).
		Bool("favorite", now).
		Msg("favorite toggled")
	return now, nil
}

func (s *favoritesService) IsFavorite(ctx context.Context, kind string, id int64) (bool, error) {
	if kind != model.FavoriteProduct && kind != model.FavoriteRestaurant {
		return false, model.ErrInvalidFavoriteKind
	}
	f, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(*idsOf(f, kind), id), nil
}

func idsOf(f *model.Favorites, kind string) *[]int64 {
	if kind == model.FavoriteRestaurant {
		return &f.Restaurants
	}
	return &f.Products
}

func (s *favoritesService) checkTarget(ctx context.Context, kind string, id int64) error {
	switch kind {
	case model.FavoriteProduct:
		p, err := s.productRepo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get product: %w", err)
		}
		if p == nil {
			return model.ErrProductNotFound
		}
	case model.FavoriteRestaurant:
		r, err := s.restaurantRepo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get restaurant: %w", err)
		}
		if r == nil {
			return model.ErrRestaurantNotFound
		}
	default:
		return model.ErrInvalidFavoriteKind
	}
	return nil
}
