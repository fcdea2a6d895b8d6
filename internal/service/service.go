package service

import (
	"context"

	"restaurante/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations for product management.
type ProductService interface {
	// Search lists products matching q. Inactive products are only listed for staff.
	Search(ctx context.Context, q model.ProductQuery) ([]model.Product, error)

	// GetByID retrieves a single product by ID. A miss returns (nil, nil).
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Create, Update and Delete require a manager or admin.
	Create(ctx context.Context, p model.Product) (*model.Product, error)
	Update(ctx context.Context, id int64, p model.Product) (*model.Product, error)
	Delete(ctx context.Context, id int64) error
}

// RestaurantService defines operations for restaurant management.
type RestaurantService interface {
	List(ctx context.Context) ([]model.Restaurant, error)
	GetByID(ctx context.Context, id int64) (*model.Restaurant, error)
	Create(ctx context.Context, r model.Restaurant) (*model.Restaurant, error)
	Update(ctx context.Context, id int64, r model.Restaurant) (*model.Restaurant, error)

	// Delete fails with model.ErrRestaurantInUse while products still reference the restaurant.
	Delete(ctx context.Context, id int64) error

	Cuisines(ctx context.Context) ([]model.Cuisine, error)
}

// CheckoutRequest carries what the customer chose at checkout.
type CheckoutRequest struct {
	Category      model.Category
	Address       *model.Address
	PaymentMethod string
	PromoCode     string
}

// CartService manages the current user's cart.
type CartService interface {
	Get(ctx context.Context) (model.CartView, error)
	AddItem(ctx context.Context, productID int64, quantity int, note *string) (model.CartView, error)

	// SetQuantity removes the line when quantity is not positive.
	SetQuantity(ctx context.Context, productID int64, quantity int) (model.CartView, error)
	RemoveItem(ctx context.Context, productID int64) (model.CartView, error)
	Clear(ctx context.Context) error

	// Checkout turns the cart into an order and empties it.
	Checkout(ctx context.Context, req CheckoutRequest) (*model.Order, error)
}

// OrderService exposes orders to their owners and to staff.
type OrderService interface {
	// List returns the visible orders, newest first. An empty category matches all.
	List(ctx context.Context, category string) ([]model.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	Advance(ctx context.Context, id uuid.UUID) (*model.Order, error)
	Cancel(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// Summary counts the caller's own orders and sums their totals.
	Summary(ctx context.Context) (model.OrderSummary, error)

	// QRCode renders a PNG QR code pointing at the order's tracking page.
	QRCode(ctx context.Context, id uuid.UUID) ([]byte, error)
}

// Session is an authenticated login.
type Session struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// AuthService registers accounts and manages sessions.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, token string)

	// Authenticate resolves a session token. An unknown or expired token returns (nil, nil).
	Authenticate(ctx context.Context, token string) (*model.User, error)

	// Me returns the current user.
	Me(ctx context.Context) (*model.User, error)
}

// FavoritesService manages the current user's favourites.
type FavoritesService interface {
	List(ctx context.Context) (*model.Favorites, error)

	// Toggle flips the favourite state and returns the new state.
	Toggle(ctx context.Context, kind string, id int64) (bool, error)
	IsFavorite(ctx context.Context, kind string, id int64) (bool, error)
}

// ReviewService manages product and restaurant reviews.
type ReviewService interface {
	Add(ctx context.Context, target model.ReviewTarget, rating int, comment string) (*model.Review, error)

	// List returns the reviews of target, newest first.
	List(ctx context.Context, target model.ReviewTarget) ([]model.Review, error)
	Summary(ctx context.Context, target model.ReviewTarget) (model.ReviewSummary, error)
}
