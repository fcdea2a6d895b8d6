package service

import (
	"context"
	"fmt"

	"restaurante/internal/cart"
	"restaurante/internal/identity"
	"restaurante/internal/model"
	"restaurante/internal/order"
	"restaurante/internal/repository"

	"github.com/rs/zerolog"
)

// OrderCreator materializes cart lines into an order.
type OrderCreator interface {
	CreateOrder(
		ctx context.Context,
		lines []model.CartLine,
		address *model.Address,
		paymentKey string,
		category model.Category,
		opts ...order.Option,
	) (*model.Order, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	orders      OrderCreator
	identity    identity.Provider
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	orders OrderCreator,
	provider identity.Provider,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orders:      orders,
		identity:    provider,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

func (s *cartService) Get(ctx context.Context) (model.CartView, error) {
	user, err := identity.Require(ctx, s.identity)
	if err != nil {
		return model.CartView{}, err
	}
	c, err := s.cartRepo.Get(ctx, user.ID)
	if err != nil {
		return model.CartView{}, fmt.Errorf("failed to get cart: %w", err)
	}
	return c.View(), nil
}

// AddItem puts a snapshot of the catalog product in the cart.
func (s *cartService) AddItem(ctx context.Context, productID int64, quantity int, note *string) (model.CartView, error) {
	user, err := identity.Require(ctx, s.identity)
	if err != nil {
		return model.CartView{}, err
	}
	if quantity <= 0 {
		return model.CartView{}, model.ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return model.CartView{}, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return model.CartView{}, model.ErrProductNotFound
	}
	if !product.Active {
		return model.CartView{}, model.ErrProductUnavailable
	}

	c, err := s.cartRepo.Update(ctx, user.ID, func(c *cart.Cart) error {
		return c.Add(*product, quantity, note)
	})
	if err != nil {
		return model.CartView{}, err
	}

	s.logger.Debug().
		Int64("user_id", user.ID).
		Int64("product_id", productID).
		Int("quantity", quantity).
		Msg("item added to cart")
	return c.View(), nil
}

func (s *cartService) SetQuantity(ctx context.Context, productID int64, quantity int) (model.CartView, error) {
	return s.update(ctx, func(c *cart.Cart) { c.SetQuantity(productID, quantity) })
}

func (s *cartService) RemoveItem(ctx context.Context, productID int64) (model.CartView, error) {
	return s.update(ctx, func(c *cart.Cart) { c.Remove(productID) })
}

func (s *cartService) Clear(ctx context.Context) error {
	_, err := s.update(ctx, func(c *cart.Cart) { c.Clear() })
	return err
}

func (s *cartService) update(ctx context.Context, fn func(*cart.Cart)) (model.CartView, error) {
	user, err := identity.Require(ctx, s.identity)
	if err != nil {
		return model.CartView{}, err
	}
	c, err := s.cartRepo.Update(ctx, user.ID, func(c *cart.Cart) error {
		fn(c)
		return nil
	})
	if err != nil {
		return model.CartView{}, fmt.Errorf("failed to update cart: %w", err)
	}
	return c.View(), nil
}

// Checkout creates an order from the cart. The ordered lines leave the cart only once the
// order exists.
func (s *cartService) Checkout(ctx context.Context, req CheckoutRequest) (*model.Order, error) {
	user, err := identity.Require(ctx, s.identity)
	if err != nil {
		return nil, err
	}

	c, err := s.cartRepo.Get(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	ordered := c.Lines()
	o, err := s.orders.CreateOrder(ctx, ordered, req.Address, req.PaymentMethod, req.Category,
		order.WithPromoCode(req.PromoCode))
	if err != nil {
		s.logger.Warn().Err(err).Int64("user_id", user.ID).Msg("checkout rejected")
		return nil, err
	}

	// Only the ordered quantities leave the cart; items added meanwhile stay.
	if _, err := s.cartRepo.Update(ctx, user.ID, func(c *cart.Cart) error {
		c.Subtract(ordered)
		return nil
	}); err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to clear cart after checkout")
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Str("order_id", o.ID.String()).
		Str("total", o.Total.StringFixed(2)).
		Msg("checkout completed")
	return o, nil
}
