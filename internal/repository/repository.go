package repository

import (
	"context"

	"restaurante/internal/cart"
	"restaurante/internal/model"
)

// ProductRepository defines the interface for product data access operations.
// Lookups that miss return (nil, nil).
type ProductRepository interface {
	// List returns every product ordered by id, inactive ones included.
	List(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Upsert stores p, assigning a new ID when p.ID is zero.
	Upsert(ctx context.Context, p model.Product) (*model.Product, error)

	// Delete removes a product and reports whether it existed.
	Delete(ctx context.Context, id int64) (bool, error)
}

// RestaurantRepository defines the interface for restaurant data access operations.
type RestaurantRepository interface {
	List(ctx context.Context) ([]model.Restaurant, error)
	GetByID(ctx context.Context, id int64) (*model.Restaurant, error)
	Upsert(ctx context.Context, r model.Restaurant) (*model.Restaurant, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// UserRepository defines the interface for account data access operations.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)

	// GetByEmail matches the address case-insensitively.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// Create stores a new account. A registered email yields model.ErrEmailTaken.
	Create(ctx context.Context, u model.User) (*model.User, error)
}

// ReviewRepository stores product and restaurant reviews.
type ReviewRepository interface {
	List(ctx context.Context) ([]model.Review, error)
	Create(ctx context.Context, r model.Review) (*model.Review, error)
}

// FavoritesRepository stores each user's favourites.
type FavoritesRepository interface {
	// Get returns the favourites of a user, or (nil, nil) when none were ever saved.
	Get(ctx context.Context, userID int64) (*model.Favorites, error)

	// Update applies fn to the user's favourites and stores the result.
	Update(ctx context.Context, userID int64, fn func(*model.Favorites) error) (*model.Favorites, error)
}

// CartRepository stores each user's cart.
type CartRepository interface {
	// Get returns the user's cart; a user without one gets an empty cart.
	Get(ctx context.Context, userID int64) (*cart.Cart, error)

	// Update applies fn to the user's cart and stores the result. Nothing changes when fn fails.
	Update(ctx context.Context, userID int64, fn func(*cart.Cart) error) (*cart.Cart, error)
}
