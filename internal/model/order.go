package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the progress state of an order.
type Status string

const (
	StatusCreated        Status = "CRIADO"
	StatusConfirmed      Status = "CONFIRMADO"
	StatusPreparing      Status = "EM_PREPARO"
	StatusOutForDelivery Status = "SAIU_PARA_ENTREGA"
	StatusDelivered      Status = "ENTREGUE"
	StatusCancelled      Status = "CANCELADO"
)

// Next returns the single successor of s in the delivery sequence.
// Terminal states have no successor.
func (s Status) Next() (Status, bool) {
	switch s {
	case StatusCreated:
		return StatusConfirmed, true
	case StatusConfirmed:
		return StatusPreparing, true
	case StatusPreparing:
		return StatusOutForDelivery, true
	case StatusOutForDelivery:
		return StatusDelivered, true
	default:
		return "", false
	}
}

// IsTerminal reports whether no further transition is allowed from s.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Category is how the order reaches the customer.
type Category string

const (
	CategoryDelivery Category = "DELIVERY"
	CategoryPickup   Category = "PICKUP"
	CategoryCounter  Category = "COUNTER"
)

// ParseCategory accepts the canonical names and the legacy RETIRADA/BALCAO aliases.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DELIVERY":
		return CategoryDelivery, true
	case "PICKUP", "RETIRADA":
		return CategoryPickup, true
	case "COUNTER", "BALCAO":
		return CategoryCounter, true
	default:
		return "", false
	}
}

// Address is a structured postal address.
type Address struct {
	PostalCode   string `json:"postalCode" validate:"required"`
	Street       string `json:"street" validate:"required"`
	Number       string `json:"number" validate:"required"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
}

// PaymentMethod is one of the accepted ways to pay.
type PaymentMethod struct {
	ID          int    `json:"id"`
	Key         string `json:"key"`
	Description string `json:"description"`
}

// PaymentMethods is the closed set of accepted payment methods. The first entry is the default.
var PaymentMethods = []PaymentMethod{
	{ID: 1, Key: "credit_card", Description: "Cartão de Crédito"},
	{ID: 2, Key: "debit_card", Description: "Cartão de Débito"},
	{ID: 3, Key: "pix", Description: "PIX"},
	{ID: 4, Key: "cash", Description: "Dinheiro"},
	{ID: 5, Key: "meal_voucher", Description: "Vale Refeição"},
	{ID: 6, Key: "food_voucher", Description: "Vale Alimentação"},
}

// OrderLine is a cart line frozen at checkout.
type OrderLine struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
	Note        string          `json:"note,omitempty"`
}

// Order is a checkout record with a mutable status.
type Order struct {
	ID             uuid.UUID       `json:"id"`
	Code           string          `json:"code"`
	Lines          []OrderLine     `json:"lines"`
	Discount       decimal.Decimal `json:"discount"`
	PromoCode      string          `json:"promoCode,omitempty"`
	DeliveryFee    decimal.Decimal `json:"deliveryFee"`
	Total          decimal.Decimal `json:"total"`
	CreatedAt      time.Time       `json:"createdAt"`
	ConfirmedAt    *time.Time      `json:"confirmedAt,omitempty"`
	DeliveredAt    *time.Time      `json:"deliveredAt,omitempty"`
	CancelledAt    *time.Time      `json:"cancelledAt,omitempty"`
	Status         Status          `json:"status"`
	Category       Category        `json:"category"`
	UserID         int64           `json:"userId"`
	RestaurantID   int64           `json:"restaurantId"`
	RestaurantName string          `json:"restaurantName"`
	PaymentMethod  PaymentMethod   `json:"paymentMethod"`
	Address        *Address        `json:"address,omitempty"`
}

// Subtotal sums the line totals.
func (o *Order) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range o.Lines {
		sum = sum.Add(l.LineTotal)
	}
	return sum
}

// Recompute derives the total from the lines, fee and discount.
func (o *Order) Recompute() decimal.Decimal {
	return o.Subtotal().Add(o.DeliveryFee).Sub(o.Discount).Round(2)
}

// Clone returns a deep copy so callers cannot mutate managed state.
func (o *Order) Clone() Order {
	c := *o
	c.Lines = append([]OrderLine(nil), o.Lines...)
	c.ConfirmedAt = cloneTime(o.ConfirmedAt)
	c.DeliveredAt = cloneTime(o.DeliveredAt)
	c.CancelledAt = cloneTime(o.CancelledAt)
	if o.Address != nil {
		a := *o.Address
		c.Address = &a
	}
	return c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// OrderSummary totals the orders one customer has placed.
type OrderSummary struct {
	OrderCount int             `json:"orderCount"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
}

// OrderEvent is published whenever an order is created or changes status.
type OrderEvent struct {
	Type           string          `json:"type"`
	OrderID        uuid.UUID       `json:"orderId"`
	Code           string          `json:"code"`
	UserID         int64           `json:"userId"`
	RestaurantID   int64           `json:"restaurantId"`
	Status         Status          `json:"status"`
	PreviousStatus Status          `json:"previousStatus,omitempty"`
	Total          decimal.Decimal `json:"total"`
	OccurredAt     time.Time       `json:"occurredAt"`
}

// Order event types.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)
