package order

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"restaurante/internal/identity"
	"restaurante/internal/model"
	"restaurante/internal/promo"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RestaurantPolicy decides which restaurant an order belongs to.
type RestaurantPolicy string

const (
	// PolicyLineItems takes the restaurant from the products in the cart.
	PolicyLineItems RestaurantPolicy = "line_items"
	// PolicySingleTenant assigns every order to one configured restaurant.
	PolicySingleTenant RestaurantPolicy = "single_tenant"
)

// ProductLookup resolves catalog products. A miss returns (nil, nil).
type ProductLookup interface {
	GetByID(ctx context.Context, id int64) (*model.Product, error)
}

// RestaurantLookup resolves restaurants. A miss returns (nil, nil).
type RestaurantLookup interface {
	GetByID(ctx context.Context, id int64) (*model.Restaurant, error)
}

// PromoLookup finds promo codes.
type PromoLookup interface {
	Lookup(code string) (promo.Promo, error)
}

// Appender stores newly created orders.
type Appender interface {
	Append(ctx context.Context, o model.Order) error
}

// MaterializerConfig selects the restaurant policy.
type MaterializerConfig struct {
	Policy              RestaurantPolicy
	DefaultRestaurantID int64
}

// Materializer turns cart lines into orders.
type Materializer struct {
	cfg         MaterializerConfig
	identity    identity.Provider
	products    ProductLookup
	restaurants RestaurantLookup
	promos      PromoLookup
	orders      Appender
	validate    *validator.Validate
	now         func() time.Time
	newCode     func() string
	logger      zerolog.Logger
}

// MaterializerOption customizes a Materializer.
type MaterializerOption func(*Materializer)

// WithPromos enables promo codes at checkout.
func WithPromos(p PromoLookup) MaterializerOption {
	return func(m *Materializer) { m.promos = p }
}

// WithMaterializerClock overrides the creation timestamp source.
func WithMaterializerClock(now func() time.Time) MaterializerOption {
	return func(m *Materializer) { m.now = now }
}

// WithCodeGenerator overrides the display code generator.
func WithCodeGenerator(gen func() string) MaterializerOption {
	return func(m *Materializer) { m.newCode = gen }
}

// NewMaterializer creates a Materializer.
func NewMaterializer(
	cfg MaterializerConfig,
	provider identity.Provider,
	products ProductLookup,
	restaurants RestaurantLookup,
	orders Appender,
	logger zerolog.Logger,
	opts ...MaterializerOption,
) *Materializer {
	if cfg.Policy == "" {
		cfg.Policy = PolicyLineItems
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	m := &Materializer{
		cfg:         cfg,
		identity:    provider,
		products:    products,
		restaurants: restaurants,
		orders:      orders,
		validate:    validate,
		now:         time.Now,
		newCode:     randomCode,
		logger:      logger.With().Str("component", "order-materializer").Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type createOptions struct {
	promoCode string
}

// Option adjusts a single CreateOrder call.
type Option func(*createOptions)

// WithPromoCode applies a promo code to the order. An empty code is ignored.
func WithPromoCode(code string) Option {
	return func(o *createOptions) { o.promoCode = strings.TrimSpace(code) }
}

// CreateOrder builds an order for the current user from lines and appends it. Product
// prices are taken from the catalog at call time. The caller is expected to clear the
// cart once the order is returned.
func (m *Materializer) CreateOrder(
	ctx context.Context,
	lines []model.CartLine,
	address *model.Address,
	paymentKey string,
	category model.Category,
	opts ...Option,
) (*model.Order, error) {
	var options createOptions
	for _, opt := range opts {
		opt(&options)
	}

	user, err := identity.Require(ctx, m.identity)
	if err != nil {
		return nil, err
	}

	if len(lines) == 0 {
		return nil, model.ErrEmptyCart
	}

	cat, ok := model.ParseCategory(string(category))
	if !ok {
		return nil, model.ErrInvalidCategory
	}

	var deliveryAddress *model.Address
	if cat == model.CategoryDelivery {
		if err := m.validateAddress(address); err != nil {
			return nil, err
		}
		a := *address
		deliveryAddress = &a
	}

	orderLines, restaurantID, err := m.resolveLines(ctx, lines)
	if err != nil {
		return nil, err
	}

	restaurant, err := m.resolveRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	o := model.Order{
		ID:             uuid.New(),
		Code:           m.newCode(),
		Lines:          orderLines,
		Discount:       decimal.Zero,
		DeliveryFee:    decimal.Zero,
		CreatedAt:      m.now().UTC(),
		Status:         model.StatusCreated,
		Category:       cat,
		UserID:         user.ID,
		RestaurantID:   restaurant.ID,
		RestaurantName: restaurant.Name,
		PaymentMethod:  ResolvePaymentMethod(paymentKey),
		Address:        deliveryAddress,
	}
	if cat == model.CategoryDelivery {
		o.DeliveryFee = restaurant.DeliveryFee
	}

	if options.promoCode != "" {
		p, err := m.lookupPromo(options.promoCode)
		if err != nil {
			return nil, err
		}
		o.PromoCode = p.Code
		o.Discount = p.Discount(o.Subtotal())
	}

	o.Total = o.Recompute()

	if err := m.orders.Append(ctx, o); err != nil {
		return nil, err
	}

	m.logger.Debug().
		Str("order_id", o.ID.String()).
		Int64("restaurant_id", o.RestaurantID).
		Str("category", string(o.Category)).
		Str("payment", o.PaymentMethod.Key).
		Msg("order materialized")

	return &o, nil
}

func (m *Materializer) validateAddress(address *model.Address) error {
	if address == nil {
		return model.ErrAddressRequired
	}

	err := m.validate.Struct(address)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", model.ErrAddressRequired, err)
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return fmt.Errorf("%w: missing %s", model.ErrAddressRequired, strings.Join(missing, ", "))
}

func (m *Materializer) resolveLines(ctx context.Context, lines []model.CartLine) ([]model.OrderLine, int64, error) {
	orderLines := make([]model.OrderLine, 0, len(lines))
	var restaurantID int64

	for i, l := range lines {
		if l.Quantity < 1 {
			return nil, 0, model.ErrInvalidQuantity
		}

		p, err := m.products.GetByID(ctx, l.Product.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to resolve product %d: %w", l.Product.ID, err)
		}
		if p == nil {
			return nil, 0, fmt.Errorf("%w: %d", model.ErrProductNotFound, l.Product.ID)
		}
		if !p.Active {
			return nil, 0, fmt.Errorf("%w: %s", model.ErrProductUnavailable, p.Name)
		}

		if i == 0 {
			restaurantID = p.RestaurantID
		} else if p.RestaurantID != restaurantID && m.cfg.Policy == PolicyLineItems {
			return nil, 0, model.ErrMixedRestaurants
		}

		orderLines = append(orderLines, model.OrderLine{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    l.Quantity,
			UnitPrice:   p.Price,
			LineTotal:   p.Price.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2),
			Note:        l.Note,
		})
	}

	if m.cfg.Policy == PolicySingleTenant {
		restaurantID = m.cfg.DefaultRestaurantID
	}
	return orderLines, restaurantID, nil
}

func (m *Materializer) resolveRestaurant(ctx context.Context, id int64) (*model.Restaurant, error) {
	r, err := m.restaurants.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve restaurant %d: %w", id, err)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: %d", model.ErrRestaurantNotFound, id)
	}
	if !r.AcceptsOrders() {
		return nil, fmt.Errorf("%w: %s", model.ErrRestaurantClosed, r.Name)
	}
	return r, nil
}

func (m *Materializer) lookupPromo(code string) (promo.Promo, error) {
	if m.promos == nil {
		return promo.Promo{}, model.ErrInvalidPromoCode
	}
	return m.promos.Lookup(code)
}
