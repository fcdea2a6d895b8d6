// Package promo loads discount codes from gzipped files and looks them up at checkout.
package promo

import (
	"context"

	"github.com/shopspring/decimal"
)

// Code length bounds, after trimming.
const (
	MinCodeLength = 4
	MaxCodeLength = 16
)

// Promo is a percentage discount attached to a code.
type Promo struct {
	Code    string          `json:"code"`
	Percent decimal.Decimal `json:"percent"`
}

// Discount returns the amount taken off subtotal, rounded to cents and never above subtotal.
func (p Promo) Discount(subtotal decimal.Decimal) decimal.Decimal {
	d := subtotal.Mul(p.Percent).Div(decimal.NewFromInt(100)).Round(2)
	if d.GreaterThan(subtotal) {
		return subtotal
	}
	return d
}

// Set maps normalized codes to promos.
type Set map[string]Promo

// Loader reads one gzipped promo file.
type Loader interface {
	Load(ctx context.Context, path string) (Set, error)
}
