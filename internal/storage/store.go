// Package storage persists named JSON snapshots of managed collections.
package storage

import (
	"context"
	"errors"
)

// Namespaces of the managed collections.
const (
	NamespaceCart        = "cart"
	NamespaceOrders      = "orders"
	NamespaceFavorites   = "favorites"
	NamespaceRestaurants = "restaurants"
	NamespaceProducts    = "products"
	NamespaceUsers       = "users"
	NamespaceReviews     = "reviews"
)

var (
	// ErrNotFound is returned by Load when nothing was ever saved under a namespace.
	ErrNotFound = errors.New("snapshot not found")

	// ErrUnsupportedSchema is returned when a snapshot was written by a newer schema.
	ErrUnsupportedSchema = errors.New("unsupported snapshot schema version")
)

// Store saves and loads opaque snapshots keyed by namespace.
// Each Save replaces the whole snapshot; the last writer wins.
type Store interface {
	// Load returns the last saved snapshot or ErrNotFound.
	Load(ctx context.Context, namespace string) ([]byte, error)

	// Save replaces the snapshot stored under namespace.
	Save(ctx context.Context, namespace string, data []byte) error
}
