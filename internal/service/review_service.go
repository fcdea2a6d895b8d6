package service

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"restaurante/internal/identity"
	"restaurante/internal/model"
	"restaurante/internal/repository"

	"github.com/rs/zerolog"
)

// MinCommentLength is the shortest review comment accepted, counted in characters after trimming.
const MinCommentLength = 10

type reviewService struct {
	reviewRepo     repository.ReviewRepository
	productRepo    repository.ProductRepository
	restaurantRepo repository.RestaurantRepository
	identity       identity.Provider
	now            func() time.Time
	logger         zerolog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	restaurantRepo repository.RestaurantRepository,
	provider identity.Provider,
	logger zerolog.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo:     reviewRepo,
		productRepo:    productRepo,
		restaurantRepo: restaurantRepo,
		identity:       provider,
		now:            time.Now,
		logger:         logger.With().Str("service", "review").Logger(),
	}
}

func (s *reviewService) Add(ctx context.Context, target model.ReviewTarget, rating int, comment string) (*model.Review, error) {
	user, err := identity.Require(ctx, s.identity)
	if err != nil {
		return nil, err
	}
	if rating < 1 || rating > 5 {
		return nil, model.ErrInvalidRating
	}
	comment = strings.TrimSpace(comment)
	if utf8.RuneCountInString(comment) < MinCommentLength {
		return nil, model.ErrCommentTooShort
	}
	if err := s.checkTarget(ctx, target); err != nil {
		return nil, err
	}

	created, err := s.reviewRepo.Create(ctx, model.Review{
		Rating:       rating,
		Comment:      comment,
		UserID:       user.ID,
		UserName:     user.Name,
		ProductID:    target.ProductID,
		RestaurantID: target.RestaurantID,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	s.logger.Info().
		Int64("review_id", created.ID).
		Int64("user_id", user.ID).
		Int("rating", rating).
		Msg("review added")
	return created, nil
}

func (s *reviewService) checkTarget(ctx context.Context, target model.ReviewTarget) error {
	if (target.ProductID == 0) == (target.RestaurantID == 0) {
		return fmt.Errorf("%w: review must target a product or a restaurant", model.ErrValidation)
	}
	if target.ProductID != 0 {
		p, err := s.productRepo.GetByID(ctx, target.ProductID)
		if err != nil {
			return fmt.Errorf("failed to get product: %w", err)
		}
		if p == nil {
			return model.ErrProductNotFound
		}
		return nil
	}
	r, err := s.restaurantRepo.GetByID(ctx, target.RestaurantID)
	if err != nil {
		return fmt.Errorf("failed to get restaurant: %w", err)
	}
	if r == nil {
		return model.ErrRestaurantNotFound
	}
	return nil
}

func (s *reviewService) List(ctx context.Context, target model.ReviewTarget) ([]model.Review, error) {
	all, err := s.reviewRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	reviews := []model.Review{}
	for _, r := range all {
		if target.Matches(r) {
			reviews = append(reviews, r)
		}
	}
	slices.SortFunc(reviews, func(a, b model.Review) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.ID, a.ID))
	})
	return reviews, nil
}

// Summary averages the ratings of target, rounded to one decimal place.
func (s *reviewService) Summary(ctx context.Context, target model.ReviewTarget) (model.ReviewSummary, error) {
	reviews, err := s.List(ctx, target)
	if err != nil {
		return model.ReviewSummary{}, err
	}
	if len(reviews) == 0 {
		return model.ReviewSummary{}, nil
	}

	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	return model.ReviewSummary{
		Average: math.Round(avg*10) / 10,
		Count:   len(reviews),
	}, nil
}
