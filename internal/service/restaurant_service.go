package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"restaurante/internal/identity"
	"restaurante/internal/model"
	"restaurante/internal/repository"

	"github.com/rs/zerolog"
)

type restaurantService struct {
	restaurantRepo repository.RestaurantRepository
	productRepo    repository.ProductRepository
	identity       identity.Provider
	now            func() time.Time
	logger         zerolog.Logger
}

// NewRestaurantService creates a new restaurant service.
func NewRestaurantService(
	restaurantRepo repository.RestaurantRepository,
	productRepo repository.ProductRepository,
	provider identity.Provider,
	logger zerolog.Logger,
) RestaurantService {
	return &restaurantService{
		restaurantRepo: restaurantRepo,
		productRepo:    productRepo,
		identity:       provider,
		now:            time.Now,
		logger:         logger.With().Str("service", "restaurant").Logger(),
	}
}

func (s *restaurantService) isStaff(ctx context.Context) bool {
	user, ok := s.identity.Current(ctx)
	return ok && user.IsStaff()
}

// List returns the restaurants ordered by id. Inactive ones are only listed for staff.
func (s *restaurantService) List(ctx context.Context) ([]model.Restaurant, error) {
	restaurants, err := s.restaurantRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list restaurants")
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	if s.isStaff(ctx) {
		return restaurants, nil
	}

	active := []model.Restaurant{}
	for _, r := range restaurants {
		if r.Active {
			active = append(active, r)
		}
	}
	return active, nil
}

func (s *restaurantService) GetByID(ctx context.Context, id int64) (*model.Restaurant, error) {
	r, err := s.restaurantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}
	if r == nil || (!r.Active && !s.isStaff(ctx)) {
		return nil, nil
	}
	return r, nil
}

func (s *restaurantService) Create(ctx context.Context, r model.Restaurant) (*model.Restaurant, error) {
	user, err := identity.RequireStaff(ctx, s.identity)
	if err != nil {
		return nil, err
	}
	if err := validateRestaurant(&r); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	r.ID = 0
	r.CreatedAt = now
	r.UpdatedAt = now

	created, err := s.restaurantRepo.Upsert(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("failed to create restaurant: %w", err)
	}

	s.logger.Info().
		Int64("restaurant_id", created.ID).
		Int64("user_id", user.ID).
		Msg("restaurant created")
	return created, nil
}

// Update replaces a restaurant, keeping its creation time.
func (s *restaurantService) Update(ctx context.Context, id int64, r model.Restaurant) (*model.Restaurant, error) {
	user, err := identity.RequireStaff(ctx, s.identity)
	if err != nil {
		return nil, err
	}

	existing, err := s.restaurantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}
	if existing == nil {
		return nil, model.ErrRestaurantNotFound
	}
	if err := validateRestaurant(&r); err != nil {
		return nil, err
	}

	r.ID = id
	r.CreatedAt = existing.CreatedAt
	r.UpdatedAt = s.now().UTC()

	updated, err := s.restaurantRepo.Upsert(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("failed to update restaurant: %w", err)
	}

	s.logger.Info().
		Int64("restaurant_id", id).
		Int64("user_id", user.ID).
		Msg("restaurant updated")
	return updated, nil
}

func (s *restaurantService) Delete(ctx context.Context, id int64) error {
	user, err := identity.RequireStaff(ctx, s.identity)
	if err != nil {
		return err
	}

	products, err := s.productRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}
	for _, p := range products {
		if p.RestaurantID == id {
			s.logger.Warn().
				Int64("restaurant_id", id).
				Int64("product_id", p.ID).
				Msg("restaurant still referenced by products")
			return model.ErrRestaurantInUse
		}
	}

	deleted, err := s.restaurantRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete restaurant: %w", err)
	}
	if !deleted {
		return model.ErrRestaurantNotFound
	}

	s.logger.Info().
		Int64("restaurant_id", id).
		Int64("user_id", user.ID).
		Msg("restaurant deleted")
	return nil
}

func (s *restaurantService) Cuisines(ctx context.Context) ([]model.Cuisine, error) {
	return repository.Cuisines()
}

func validateRestaurant(r *model.Restaurant) error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", model.ErrValidation)
	}
	if r.DeliveryFee.IsNegative() {
		return fmt.Errorf("%w: delivery fee must not be negative", model.ErrValidation)
	}
	if r.Rating < 0 || r.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 0 and 5", model.ErrValidation)
	}
	r.DeliveryFee = r.DeliveryFee.Round(2)
	return nil
}
