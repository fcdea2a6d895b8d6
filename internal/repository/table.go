package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"restaurante/internal/storage"

	"github.com/rs/zerolog"
)

// tableSpec describes how a row type is keyed, copied and seeded.
type tableSpec[T any] struct {
	namespace string
	id        func(*T) int64
	setID     func(*T, int64)
	clone     func(T) T
	seed      func() ([]T, error)
}

// table is an in-memory collection of rows keyed by id. It is authoritative; every mutation
// writes the whole collection to its snapshot namespace, and save errors are only logged.
type table[T any] struct {
	spec   tableSpec[T]
	mu     sync.RWMutex
	rows   map[int64]T
	lastID int64
	gen    uint64
	writer *storage.Writer[T]
	logger zerolog.Logger
}

// openTable loads the rows saved under spec.namespace. A namespace that was never saved is
// populated from spec.seed and written back.
func openTable[T any](ctx context.Context, store storage.Store, spec tableSpec[T], logger zerolog.Logger) (*table[T], error) {
	coll := storage.NewCollection[T](store, spec.namespace, logger)
	t := &table[T]{
		spec:   spec,
		rows:   make(map[int64]T),
		writer: storage.NewWriter(coll),
		logger: logger,
	}

	items, found, err := coll.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", spec.namespace, err)
	}

	seeded := false
	if !found && spec.seed != nil {
		items, err = spec.seed()
		if err != nil {
			return nil, fmt.Errorf("failed to seed %s: %w", spec.namespace, err)
		}
		seeded = true
	}

	for _, item := range items {
		id := spec.id(&item)
		if _, dup := t.rows[id]; dup {
			t.logger.Warn().Int64("id", id).Msg("duplicate row in snapshot, keeping last")
		}
		t.rows[id] = item
		t.lastID = max(t.lastID, id)
	}

	if seeded {
		t.mu.Lock()
		gen, snapshot := t.snapshotLocked()
		t.mu.Unlock()
		t.persist(ctx, gen, snapshot)
	}

	t.logger.Info().Int("count", len(t.rows)).Bool("seeded", seeded).Msg("rows loaded")
	return t, nil
}

func (t *table[T]) copyOf(item T) T {
	if t.spec.clone == nil {
		return item
	}
	return t.spec.clone(item)
}

func (t *table[T]) get(id int64) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	item, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	return t.copyOf(item), true
}

// list returns copies of every row ordered by id.
func (t *table[T]) list() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sortedLocked()
}

// find returns the first row, in id order, that matches.
func (t *table[T]) find(match func(*T) bool) (T, bool) {
	for _, item := range t.list() {
		if match(&item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// insert stores item under a fresh id unless an existing row conflicts with it.
func (t *table[T]) insert(ctx context.Context, item T, conflicts func(*T) bool) (T, bool) {
	t.mu.Lock()
	if conflicts != nil {
		for _, row := range t.rows {
			if conflicts(&row) {
				t.mu.Unlock()
				var zero T
				return zero, false
			}
		}
	}
	t.lastID++
	t.spec.setID(&item, t.lastID)
	stored := t.copyOf(item)
	t.rows[t.lastID] = stored
	gen, snapshot := t.snapshotLocked()
	t.mu.Unlock()

	t.persist(ctx, gen, snapshot)
	return t.copyOf(stored), true
}

// put stores item under its own id, replacing any previous row. A zero id is assigned.
func (t *table[T]) put(ctx context.Context, item T) T {
	if t.spec.id(&item) == 0 {
		stored, _ := t.insert(ctx, item, nil)
		return stored
	}

	t.mu.Lock()
	id := t.spec.id(&item)
	t.rows[id] = t.copyOf(item)
	t.lastID = max(t.lastID, id)
	gen, snapshot := t.snapshotLocked()
	t.mu.Unlock()

	t.persist(ctx, gen, snapshot)
	return t.copyOf(item)
}

// update applies fn to the row with id, starting from the zero row when it does not exist.
// Nothing is stored when fn fails.
func (t *table[T]) update(ctx context.Context, id int64, fn func(row *T) error) (T, error) {
	t.mu.Lock()
	row, ok := t.rows[id]
	if ok {
		row = t.copyOf(row)
	} else {
		t.spec.setID(&row, id)
	}
	if err := fn(&row); err != nil {
		t.mu.Unlock()
		var zero T
		return zero, err
	}
	t.rows[id] = row
	t.lastID = max(t.lastID, id)
	gen, snapshot := t.snapshotLocked()
	t.mu.Unlock()

	t.persist(ctx, gen, snapshot)
	return t.copyOf(row), nil
}

func (t *table[T]) remove(ctx context.Context, id int64) bool {
	t.mu.Lock()
	if _, ok := t.rows[id]; !ok {
		t.mu.Unlock()
		return false
	}
	delete(t.rows, id)
	gen, snapshot := t.snapshotLocked()
	t.mu.Unlock()

	t.persist(ctx, gen, snapshot)
	return true
}

func (t *table[T]) sortedLocked() []T {
	out := make([]T, 0, len(t.rows))
	for _, item := range t.rows {
		out = append(out, t.copyOf(item))
	}
	slices.SortFunc(out, func(a, b T) int {
		return cmp.Compare(t.spec.id(&a), t.spec.id(&b))
	})
	return out
}

func (t *table[T]) snapshotLocked() (uint64, []T) {
	t.gen++
	return t.gen, t.sortedLocked()
}

func (t *table[T]) persist(ctx context.Context, gen uint64, snapshot []T) {
	if err := t.writer.Write(ctx, gen, snapshot); err != nil {
		t.logger.Error().Err(err).Msg("failed to persist snapshot, keeping in-memory state")
	}
}
