package model

import "errors"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeValidation          = "VALIDATION_FAILED"
	ErrCodeInvalidQuantity     = "INVALID_QUANTITY"
	ErrCodeEmptyCart           = "EMPTY_CART"
	ErrCodeAddressRequired     = "ADDRESS_REQUIRED"
	ErrCodeInvalidCategory     = "INVALID_CATEGORY"
	ErrCodeInvalidPromoCode    = "INVALID_PROMO_CODE"
	ErrCodeMixedRestaurants    = "MIXED_RESTAURANTS"
	ErrCodeRestaurantClosed    = "RESTAURANT_CLOSED"
	ErrCodeProductNotFound     = "PRODUCT_NOT_FOUND"
	ErrCodeProductUnavailable  = "PRODUCT_UNAVAILABLE"
	ErrCodeRestaurantNotFound  = "RESTAURANT_NOT_FOUND"
	ErrCodeRestaurantInUse     = "RESTAURANT_IN_USE"
	ErrCodeOrderNotFound       = "ORDER_NOT_FOUND"
	ErrCodeInvalidTransition   = "INVALID_TRANSITION"
	ErrCodeInvalidRating       = "INVALID_RATING"
	ErrCodeCommentTooShort     = "COMMENT_TOO_SHORT"
	ErrCodeEmailTaken          = "EMAIL_TAKEN"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeUnauthenticated     = "UNAUTHENTICATED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeInternalError       = "INTERNAL_ERROR"
	ErrCodeInvalidFavoriteKind = "INVALID_FAVORITE_KIND"
)

// DomainError is a business rule violation carrying a stable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrValidation          = NewDomainError(ErrCodeValidation, "Request validation failed")
	ErrInvalidQuantity     = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrEmptyCart           = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrAddressRequired     = NewDomainError(ErrCodeAddressRequired, "A complete delivery address is required")
	ErrInvalidCategory     = NewDomainError(ErrCodeInvalidCategory, "Order category must be DELIVERY, PICKUP or COUNTER")
	ErrInvalidPromoCode    = NewDomainError(ErrCodeInvalidPromoCode, "Promo code is not valid")
	ErrMixedRestaurants    = NewDomainError(ErrCodeMixedRestaurants, "All items of an order must come from the same restaurant")
	ErrRestaurantClosed    = NewDomainError(ErrCodeRestaurantClosed, "Restaurant is not accepting orders")
	ErrProductNotFound     = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrProductUnavailable  = NewDomainError(ErrCodeProductUnavailable, "Product is not available")
	ErrRestaurantNotFound  = NewDomainError(ErrCodeRestaurantNotFound, "Restaurant not found")
	ErrRestaurantInUse     = NewDomainError(ErrCodeRestaurantInUse, "Restaurant still has products")
	ErrOrderNotFound       = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrInvalidTransition   = NewDomainError(ErrCodeInvalidTransition, "Order status cannot change")
	ErrInvalidRating       = NewDomainError(ErrCodeInvalidRating, "Rating must be between 1 and 5")
	ErrCommentTooShort     = NewDomainError(ErrCodeCommentTooShort, "Comment must have at least 10 characters")
	ErrEmailTaken          = NewDomainError(ErrCodeEmailTaken, "Email is already registered")
	ErrInvalidCredentials  = NewDomainError(ErrCodeInvalidCredentials, "Invalid email or password")
	ErrUnauthenticated     = NewDomainError(ErrCodeUnauthenticated, "User is not authenticated")
	ErrForbidden           = NewDomainError(ErrCodeForbidden, "User is not allowed to perform this operation")
	ErrInvalidFavoriteKind = NewDomainError(ErrCodeInvalidFavoriteKind, "Favorite kind must be product or restaurant")
)

// ErrOrderDelivered and ErrOrderCancelled refine ErrInvalidTransition.
var (
	ErrOrderDelivered = &transitionError{msg: "Order was already delivered"}
	ErrOrderCancelled = &transitionError{msg: "Order was already cancelled"}
)

type transitionError struct {
	msg string
}

func (e *transitionError) Error() string { return e.msg }

// Unwrap lets errors.Is match ErrInvalidTransition and errors.As find the DomainError.
func (e *transitionError) Unwrap() error { return ErrInvalidTransition }

// CodeOf returns the domain code carried by err, or ErrCodeInternalError.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrCodeInternalError
}
