package model

import "github.com/shopspring/decimal"

// CartLine is one product selection in a cart.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Note     string  `json:"note,omitempty"`
}

// Subtotal returns price times quantity for the line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// UserCart is the persisted form of one user's cart.
type UserCart struct {
	UserID int64      `json:"userId"`
	Lines  []CartLine `json:"lines"`
}

// CartView is the API representation of a cart.
type CartView struct {
	Lines     []CartLine      `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}
