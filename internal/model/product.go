package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a dish or drink in the catalogue.
type Product struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Photo        string          `json:"photo,omitempty"`
	Category     string          `json:"category"`
	RestaurantID int64           `json:"restaurantId"`
	Active       bool            `json:"active"`
}

// Cuisine is the kind of food a restaurant serves.
type Cuisine struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Restaurant is an establishment that owns products and charges a delivery fee.
type Restaurant struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	DeliveryFee  decimal.Decimal `json:"deliveryFee"`
	Active       bool            `json:"active"`
	Open         bool            `json:"open"`
	Cuisine      Cuisine         `json:"cuisine"`
	Address      Address         `json:"address"`
	Rating       float64         `json:"rating"`
	DeliveryTime string          `json:"deliveryTime,omitempty"`
	Description  string          `json:"description,omitempty"`
	Phone        string          `json:"phone,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// AcceptsOrders reports whether the restaurant can receive new orders.
func (r *Restaurant) AcceptsOrders() bool {
	return r.Active && r.Open
}

// Product sort keys.
const (
	SortByName      = "nome"
	SortByPriceAsc  = "preco-asc"
	SortByPriceDesc = "preco-desc"
)

// ProductQuery filters and orders a product listing.
type ProductQuery struct {
	Search          string
	Categories      []string
	RestaurantID    int64
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	Sort            string
	Limit           int
	Offset          int
	IncludeInactive bool
}
