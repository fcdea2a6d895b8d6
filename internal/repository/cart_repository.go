package repository

import (
	"context"

	"restaurante/internal/cart"
	"restaurante/internal/model"
	"restaurante/internal/storage"

	"github.com/rs/zerolog"
)

type cartRepository struct {
	rows *table[model.UserCart]
}

// NewCartRepository loads the per-user carts saved under the cart namespace.
func NewCartRepository(ctx context.Context, store storage.Store, logger zerolog.Logger) (CartRepository, error) {
	rows, err := openTable(ctx, store, tableSpec[model.UserCart]{
		namespace: storage.NamespaceCart,
		id:        func(c *model.UserCart) int64 { return c.UserID },
		setID:     func(c *model.UserCart, id int64) { c.UserID = id },
		clone: func(c model.UserCart) model.UserCart {
			c.Lines = append([]model.CartLine{}, c.Lines...)
			return c
		},
	}, logger.With().Str("repository", "cart").Logger())
	if err != nil {
		return nil, err
	}
	return &cartRepository{rows: rows}, nil
}

func (r *cartRepository) Get(ctx context.Context, userID int64) (*cart.Cart, error) {
	row, _ := r.rows.get(userID)
	return cart.New(row.Lines...), nil
}

func (r *cartRepository) Update(ctx context.Context, userID int64, fn func(*cart.Cart) error) (*cart.Cart, error) {
	row, err := r.rows.update(ctx, userID, func(row *model.UserCart) error {
		c := cart.New(row.Lines...)
		if err := fn(c); err != nil {
			return err
		}
		row.Lines = c.Lines()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cart.New(row.Lines...), nil
}
