package service

import (
	"context"
	"slices"

	"restaurante/internal/identity"
	"restaurante/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// OrderStore holds the orders and applies their transitions.
type OrderStore interface {
	ByID(id uuid.UUID) (model.Order, error)
	ByUser(userID int64) []model.Order
	ByCategory(c model.Category) []model.Order
	List() []model.Order
	Advance(ctx context.Context, id uuid.UUID) (model.Order, error)
	Cancel(ctx context.Context, id uuid.UUID) (model.Order, error)
}

// orderService implements OrderService.
type orderService struct {
	orders   OrderStore
	qr       *QRGenerator
	identity identity.Provider
	logger   zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orders OrderStore, qr *QRGenerator, provider identity.Provider, logger zerolog.Logger) OrderService {
	return &orderService{
		orders:   orders,
		qr:       qr,
		identity: provider,
		logger:   logger.With().Str("service", "order").Logger(),
	}
}

// List returns the caller's orders, or every order for staff.
func (s *orderService) List(ctx context.Context, category string) ([]model.Order, error) {
	user, err := identity.Require(ctx, s.identity)
	if err != nil {
		return nil, err
	}

	var filter model.Category
	if category != "" {
		c, ok := model.ParseCategory(category)
		if !ok {
			return nil, model.ErrInvalidCategory
		}
		filter = c
	}

	var orders []model.Order
	switch {
	case user.IsStaff() && filter != "":
		orders = s.orders.ByCategory(filter)
	case user.IsStaff():
		orders = s.orders.List()
	default:
		orders = s.orders.ByUser(user.ID)
	}

	visible := []model.Order{}
	for _, o := range slices.Backward(orders) {
		if filter == "" || o.Category == filter {
			visible = append(visible, o)
		}
	}
	return visible, nil
}

// Summary covers every order the caller placed, cancelled ones included. Staff get their
// own figures too.
func (s *orderService) Summary(ctx context.Context) (model.OrderSummary, error) {
	user, err := identity.Require(ctx, s.identity)
	if err != nil {
		return model.OrderSummary{}, err
	}

	summary := model.OrderSummary{TotalSpent: decimal.Zero}
	for _, o := range s.orders.ByUser(user.ID) {
		summary.OrderCount++
		summary.TotalSpent = summary.TotalSpent.Add(o.Total)
	}
	return summary, nil
}

// GetByID returns an order its owner or staff may see. Other users get model.ErrOrderNotFound.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	user, err := identity.Require(ctx, s.identity)
	if err != nil {
		return nil, err
	}

	o, err := s.orders.ByID(id)
	if err != nil {
		return nil, err
	}
	if !user.IsStaff() && o.UserID != user.ID {
		s.logger.Warn().
			Str("order_id", id.String()).
			Int64("user_id", user.ID).
			Msg("order requested by another user")
		return nil, model.ErrOrderNotFound
	}
	return &o, nil
}

func (s *orderService) Advance(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return s.transition(ctx, id, "advance", s.orders.Advance)
}

func (s *orderService) Cancel(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return s.transition(ctx, id, "cancel", s.orders.Cancel)
}

func (s *orderService) transition(
	ctx context.Context,
	id uuid.UUID,
	action string,
	apply func(context.Context, uuid.UUID) (model.Order, error),
) (*model.Order, error) {
	user, err := identity.RequireStaff(ctx, s.identity)
	if err != nil {
		return nil, err
	}

	o, err := apply(ctx, id)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("order_id", id.String()).
			Str("action", action).
			Msg("order transition rejected")
		return nil, err
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("action", action).
		Str("status", string(o.Status)).
		Int64("user_id", user.ID).
		Msg("order status changed")
	return &o, nil
}

func (s *orderService) QRCode(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.qr.PNG(id)
}
