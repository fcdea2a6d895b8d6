package model

import "time"

// Role is the kind of account.
type Role string

const (
	RoleCustomer Role = "cliente"
	RoleManager  Role = "gerente"
	RoleAdmin    Role = "admin"
)

// User is a registered account.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// IsStaff reports whether the user manages the catalogue and orders.
func (u *User) IsStaff() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}

// Public strips credentials before the user leaves the service.
func (u *User) Public() User {
	p := *u
	p.PasswordHash = ""
	return p
}

// Favorites holds a user's favourite products and restaurants.
type Favorites struct {
	UserID      int64   `json:"userId"`
	Products    []int64 `json:"products"`
	Restaurants []int64 `json:"restaurants"`
}

// Favorite kinds.
const (
	FavoriteProduct    = "product"
	FavoriteRestaurant = "restaurant"
)
