package order

import (
	"context"
	"fmt"
	"sync"
	"time"

	"restaurante/internal/model"
	"restaurante/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Manager owns every order and applies status transitions. The in-memory collection is
// authoritative; after each mutation the whole collection is written to the orders
// namespace. Processes sharing a store overwrite each other's snapshots.
type Manager struct {
	mu        sync.RWMutex
	orders    []model.Order
	index     map[uuid.UUID]int
	gen       uint64
	writer    *storage.Writer[model.Order]
	publisher EventPublisher
	now       func() time.Time
	logger    zerolog.Logger
}

// ManagerOption customizes a Manager.
type ManagerOption func(*Manager)

// WithPublisher sets where lifecycle events are sent.
func WithPublisher(p EventPublisher) ManagerOption {
	return func(m *Manager) { m.publisher = p }
}

// WithClock overrides the time source used for status timestamps.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// NewManager loads the persisted orders from store.
func NewManager(ctx context.Context, store storage.Store, logger zerolog.Logger, opts ...ManagerOption) (*Manager, error) {
	logger = logger.With().Str("component", "order-lifecycle").Logger()
	coll := storage.NewCollection[model.Order](store, storage.NamespaceOrders, logger)

	m := &Manager{
		index:     make(map[uuid.UUID]int),
		writer:    storage.NewWriter(coll),
		publisher: NopPublisher{},
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(m)
	}

	orders, _, err := coll.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	for _, o := range orders {
		if _, dup := m.index[o.ID]; dup {
			m.logger.Warn().Str("order_id", o.ID.String()).Msg("duplicate order in snapshot, keeping first")
			continue
		}
		m.index[o.ID] = len(m.orders)
		m.orders = append(m.orders, o)
	}

	m.logger.Info().Int("count", len(m.orders)).Msg("orders loaded")
	return m, nil
}

// Append adds a newly created order. The total is recomputed from the lines.
func (m *Manager) Append(ctx context.Context, o model.Order) error {
	if o.ID == uuid.Nil {
		return fmt.Errorf("%w: order id is required", model.ErrValidation)
	}

	stored := o.Clone()
	stored.Total = stored.Recompute()

	m.mu.Lock()
	if _, exists := m.index[stored.ID]; exists {
		m.mu.Unlock()
		return fmt.Errorf("%w: order %s already exists", model.ErrValidation, stored.ID)
	}
	m.index[stored.ID] = len(m.orders)
	m.orders = append(m.orders, stored)
	gen, snapshot := m.snapshotLocked()
	m.mu.Unlock()

	m.persist(ctx, gen, snapshot)
	m.publish(ctx, model.EventOrderCreated, stored, "")

	m.logger.Info().
		Str("order_id", stored.ID.String()).
		Str("code", stored.Code).
		Int64("user_id", stored.UserID).
		Str("total", stored.Total.StringFixed(2)).
		Msg("order created")
	return nil
}

// Advance moves the order to the next status in the delivery sequence.
func (m *Manager) Advance(ctx context.Context, id uuid.UUID) (model.Order, error) {
	return m.transition(ctx, id, func(s model.Status) (model.Status, error) {
		if err := rejectTerminal(s); err != nil {
			return "", err
		}
		next, _ := s.Next()
		return next, nil
	})
}

// Cancel moves the order to CANCELADO from any non-terminal status.
func (m *Manager) Cancel(ctx context.Context, id uuid.UUID) (model.Order, error) {
	return m.transition(ctx, id, func(s model.Status) (model.Status, error) {
		if err := rejectTerminal(s); err != nil {
			return "", err
		}
		return model.StatusCancelled, nil
	})
}

func rejectTerminal(s model.Status) error {
	switch s {
	case model.StatusDelivered:
		return model.ErrOrderDelivered
	case model.StatusCancelled:
		return model.ErrOrderCancelled
	}
	return nil
}

func (m *Manager) transition(ctx context.Context, id uuid.UUID, next func(model.Status) (model.Status, error)) (model.Order, error) {
	m.mu.Lock()
	i, ok := m.index[id]
	if !ok {
		m.mu.Unlock()
		return model.Order{}, model.ErrOrderNotFound
	}

	o := &m.orders[i]
	previous := o.Status
	status, err := next(previous)
	if err != nil {
		m.mu.Unlock()
		m.logger.Debug().Err(err).Str("order_id", id.String()).Str("status", string(previous)).Msg("transition rejected")
		return model.Order{}, err
	}

	o.Status = status
	stampStatus(o, m.now())
	result := o.Clone()
	gen, snapshot := m.snapshotLocked()
	m.mu.Unlock()

	m.persist(ctx, gen, snapshot)
	m.publish(ctx, model.EventOrderStatusChanged, result, previous)

	m.logger.Info().
		Str("order_id", id.String()).
		Str("from", string(previous)).
		Str("to", string(status)).
		Msg("order status changed")
	return result, nil
}

// stampStatus records the timestamp, in UTC, of the status just entered. Each timestamp is
// set once and never precedes an earlier timestamp of the same order.
func stampStatus(o *model.Order, now time.Time) {
	var slot **time.Time
	switch o.Status {
	case model.StatusConfirmed:
		slot = &o.ConfirmedAt
	case model.StatusDelivered:
		slot = &o.DeliveredAt
	case model.StatusCancelled:
		slot = &o.CancelledAt
	default:
		return
	}
	if *slot != nil {
		return
	}

	floor := o.CreatedAt
	for _, t := range []*time.Time{o.ConfirmedAt, o.DeliveredAt, o.CancelledAt} {
		if t != nil && t.After(floor) {
			floor = *t
		}
	}
	if now.Before(floor) {
		now = floor
	}
	now = now.UTC()
	*slot = &now
}

func (m *Manager) snapshotLocked() (uint64, []model.Order) {
	m.gen++
	snapshot := make([]model.Order, len(m.orders))
	for i := range m.orders {
		snapshot[i] = m.orders[i].Clone()
	}
	return m.gen, snapshot
}

func (m *Manager) persist(ctx context.Context, gen uint64, snapshot []model.Order) {
	if err := m.writer.Write(ctx, gen, snapshot); err != nil {
		m.logger.Error().Err(err).Uint64("generation", gen).Msg("failed to persist orders")
	}
}

func (m *Manager) publish(ctx context.Context, eventType string, o model.Order, previous model.Status) {
	event := model.OrderEvent{
		Type:           eventType,
		OrderID:        o.ID,
		Code:           o.Code,
		UserID:         o.UserID,
		RestaurantID:   o.RestaurantID,
		Status:         o.Status,
		PreviousStatus: previous,
		Total:          o.Total,
		OccurredAt:     m.now().UTC(),
	}
	if err := m.publisher.Publish(ctx, event); err != nil {
		m.logger.Warn().Err(err).Str("order_id", o.ID.String()).Str("event", eventType).Msg("failed to publish order event")
	}
}

// ByID returns a copy of the order with id.
func (m *Manager) ByID(id uuid.UUID) (model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.index[id]
	if !ok {
		return model.Order{}, model.ErrOrderNotFound
	}
	return m.orders[i].Clone(), nil
}

// ByUser returns the orders placed by userID, oldest first.
func (m *Manager) ByUser(userID int64) []model.Order {
	return m.filter(func(o *model.Order) bool { return o.UserID == userID })
}

// ByCategory returns the orders of category c, oldest first.
func (m *Manager) ByCategory(c model.Category) []model.Order {
	return m.filter(func(o *model.Order) bool { return o.Category == c })
}

// List returns every order, oldest first.
func (m *Manager) List() []model.Order {
	return m.filter(func(*model.Order) bool { return true })
}

func (m *Manager) filter(keep func(*model.Order) bool) []model.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []model.Order{}
	for i := range m.orders {
		if keep(&m.orders[i]) {
			result = append(result, m.orders[i].Clone())
		}
	}
	return result
}
