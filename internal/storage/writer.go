package storage

import (
	"context"
	"sync"
)

// Writer saves successive snapshots of one collection. Callers number snapshots with a
// generation taken under their own lock; a snapshot older than the newest one attempted is
// dropped, so concurrent writers never replace newer state with older state, even after a
// failed save.
type Writer[T any] struct {
	coll      *Collection[T]
	mu        sync.Mutex
	attempted uint64
}

// NewWriter returns a writer for coll.
func NewWriter[T any](coll *Collection[T]) *Writer[T] {
	return &Writer[T]{coll: coll}
}

// Write saves items as generation gen. Writing the newest generation again retries it. The
// save is detached from ctx cancellation so an aborted request does not lose a mutation it
// already applied.
func (w *Writer[T]) Write(ctx context.Context, gen uint64, items []T) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if gen < w.attempted {
		return nil
	}
	w.attempted = gen
	return w.coll.Save(context.WithoutCancel(ctx), items)
}

// Namespace returns the namespace of the underlying collection.
func (w *Writer[T]) Namespace() string {
	return w.coll.Namespace()
}
