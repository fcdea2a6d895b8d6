package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"restaurante/internal/identity"
	"restaurante/internal/model"
	"restaurante/internal/repository"
	"restaurante/internal/textfold"

	"github.com/rs/zerolog"
)

// MaxPageSize caps a product listing.
const MaxPageSize = 100

// productService implements ProductService.
type productService struct {
	productRepo    repository.ProductRepository
	restaurantRepo repository.RestaurantRepository
	identity       identity.Provider
	logger         zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	productRepo repository.ProductRepository,
	restaurantRepo repository.RestaurantRepository,
	provider identity.Provider,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		productRepo:    productRepo,
		restaurantRepo: restaurantRepo,
		identity:       provider,
		logger:         logger.With().Str("service", "product").Logger(),
	}
}

func (s *productService) isStaff(ctx context.Context) bool {
	user, ok := s.identity.Current(ctx)
	return ok && user.IsStaff()
}

// Search lists products matching q.
func (s *productService) Search(ctx context.Context, q model.ProductQuery) ([]model.Product, error) {
	if q.MinPrice != nil && q.MaxPrice != nil && q.MinPrice.GreaterThan(*q.MaxPrice) {
		return nil, fmt.Errorf("%w: minimum price is above maximum price", model.ErrValidation)
	}
	if q.Sort == "" {
		q.Sort = model.SortByName
	}
	compare, ok := productOrders[q.Sort]
	if !ok {
		return nil, fmt.Errorf("%w: unknown sort %q", model.ErrValidation, q.Sort)
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.Limit <= 0 || q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	includeInactive := q.IncludeInactive && s.isStaff(ctx)

	products, err := s.productRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	search := strings.TrimSpace(q.Search)
	matched := []model.Product{}
	for _, p := range products {
		if !p.Active && !includeInactive {
			continue
		}
		if search != "" && !textfold.Contains(p.Name, search) && !textfold.Contains(p.Description, search) {
			continue
		}
		if len(q.Categories) > 0 && !slices.ContainsFunc(q.Categories, func(c string) bool { return textfold.Equal(c, p.Category) }) {
			continue
		}
		if q.RestaurantID != 0 && p.RestaurantID != q.RestaurantID {
			continue
		}
		if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
			continue
		}
		if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
			continue
		}
		matched = append(matched, p)
	}

	slices.SortStableFunc(matched, compare)

	total := len(matched)
	start := min(q.Offset, total)
	end := min(start+q.Limit, total)

	s.logger.Debug().
		Str("search", search).
		Str("sort", q.Sort).
		Int("matched", total).
		Int("offset", q.Offset).
		Int("limit", q.Limit).
		Msg("products searched")

	return matched[start:end], nil
}

var productOrders = map[string]func(a, b model.Product) int{
	model.SortByName: func(a, b model.Product) int {
		return cmp.Or(textfold.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	},
	model.SortByPriceAsc: func(a, b model.Product) int {
		return cmp.Or(a.Price.Cmp(b.Price), textfold.Compare(a.Name, b.Name))
	},
	model.SortByPriceDesc: func(a, b model.Product) int {
		return cmp.Or(b.Price.Cmp(a.Price), textfold.Compare(a.Name, b.Name))
	},
}

// GetByID retrieves a single product by ID. Inactive products are hidden from customers.
func (s *productService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if p == nil || (!p.Active && !s.isStaff(ctx)) {
		return nil, nil
	}
	return p, nil
}

// Create adds a product to the catalogue.
func (s *productService) Create(ctx context.Context, p model.Product) (*model.Product, error) {
	user, err := identity.RequireStaff(ctx, s.identity)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, &p); err != nil {
		return nil, err
	}

	p.ID = 0
	created, err := s.productRepo.Upsert(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().
		Int64("product_id", created.ID).
		Int64("user_id", user.ID).
		Msg("product created")
	return created, nil
}

// Update replaces an existing product.
func (s *productService) Update(ctx context.Context, id int64, p model.Product) (*model.Product, error) {
	user, err := identity.RequireStaff(ctx, s.identity)
	if err != nil {
		return nil, err
	}

	existing, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if existing == nil {
		return nil, model.ErrProductNotFound
	}
	if err := s.validate(ctx, &p); err != nil {
		return nil, err
	}

	p.ID = id
	updated, err := s.productRepo.Upsert(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.Info().
		Int64("product_id", id).
		Int64("user_id", user.ID).
		Msg("product updated")
	return updated, nil
}

// Delete removes a product from the catalogue.
func (s *productService) Delete(ctx context.Context, id int64) error {
	user, err := identity.RequireStaff(ctx, s.identity)
	if err != nil {
		return err
	}

	deleted, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !deleted {
		return model.ErrProductNotFound
	}

	s.logger.Info().
		Int64("product_id", id).
		Int64("user_id", user.ID).
		Msg("product deleted")
	return nil
}

func (s *productService) validate(ctx context.Context, p *model.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", model.ErrValidation)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", model.ErrValidation)
	}
	p.Price = p.Price.Round(2)

	restaurant, err := s.restaurantRepo.GetByID(ctx, p.RestaurantID)
	if err != nil {
		return fmt.Errorf("failed to get restaurant: %w", err)
	}
	if restaurant == nil {
		return model.ErrRestaurantNotFound
	}
	return nil
}
