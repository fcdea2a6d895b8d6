package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// SchemaVersion is written into every snapshot envelope.
const SchemaVersion = 1

// Snapshot is the envelope persisted for a collection.
type Snapshot[T any] struct {
	SchemaVersion int       `json:"schemaVersion"`
	SavedAt       time.Time `json:"savedAt"`
	Items         []T       `json:"items"`
}

// Collection reads and writes a typed collection under one namespace.
type Collection[T any] struct {
	store     Store
	namespace string
	logger    zerolog.Logger
	now       func() time.Time
}

// NewCollection binds a namespace of store to the item type T.
func NewCollection[T any](store Store, namespace string, logger zerolog.Logger) *Collection[T] {
	return &Collection[T]{
		store:     store,
		namespace: namespace,
		logger:    logger.With().Str("component", "collection").Str("namespace", namespace).Logger(),
		now:       time.Now,
	}
}

// Namespace returns the namespace the collection is stored under.
func (c *Collection[T]) Namespace() string {
	return c.namespace
}

// Load returns the stored items. A namespace that was never saved yields (nil, false, nil).
// Snapshots written as a bare JSON array are accepted as schema version 0.
func (c *Collection[T]) Load(ctx context.Context) ([]T, bool, error) {
	data, err := c.store.Load(ctx, c.namespace)
	if errors.Is(err, ErrNotFound) {
		c.logger.Debug().Msg("no snapshot stored yet")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load %s snapshot: %w", c.namespace, err)
	}

	items, version, err := Decode[T](data)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode %s snapshot: %w", c.namespace, err)
	}

	c.logger.Debug().
		Int("schema_version", version).
		Int("count", len(items)).
		Msg("snapshot loaded")

	return items, true, nil
}

// Save replaces the stored snapshot with items.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	data, err := Encode(items, c.now())
	if err != nil {
		return fmt.Errorf("failed to encode %s snapshot: %w", c.namespace, err)
	}
	if err := c.store.Save(ctx, c.namespace, data); err != nil {
		return fmt.Errorf("failed to save %s snapshot: %w", c.namespace, err)
	}
	return nil
}

// Encode wraps items in a versioned envelope.
func Encode[T any](items []T, savedAt time.Time) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(Snapshot[T]{
		SchemaVersion: SchemaVersion,
		SavedAt:       savedAt.UTC(),
		Items:         items,
	})
}

// Decode unwraps an envelope, returning the items and the schema version found.
func Decode[T any](data []byte) ([]T, int, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, 0, nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, 0, err
		}
		return items, 0, nil
	}

	var snap Snapshot[T]
	if err := json.Unmarshal(trimmed, &snap); err != nil {
		return nil, 0, err
	}
	if snap.SchemaVersion > SchemaVersion {
		return nil, snap.SchemaVersion, fmt.Errorf("%w: %d", ErrUnsupportedSchema, snap.SchemaVersion)
	}
	return snap.Items, snap.SchemaVersion, nil
}
