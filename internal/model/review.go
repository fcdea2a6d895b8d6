package model

import "time"

// Review is a rating left by a user for a product or a restaurant.
type Review struct {
	ID           int64     `json:"id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	UserID       int64     `json:"userId"`
	UserName     string    `json:"userName"`
	ProductID    int64     `json:"productId,omitempty"`
	RestaurantID int64     `json:"restaurantId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ReviewTarget identifies what is being reviewed. Exactly one field is set.
type ReviewTarget struct {
	ProductID    int64
	RestaurantID int64
}

// Matches reports whether r belongs to the target.
func (t ReviewTarget) Matches(r Review) bool {
	if t.ProductID != 0 {
		return r.ProductID == t.ProductID
	}
	return t.RestaurantID != 0 && r.RestaurantID == t.RestaurantID
}

// ReviewSummary aggregates the ratings of a target.
type ReviewSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
