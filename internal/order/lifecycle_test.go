package order

import (
	"context"
	"testing"
	"time"

	"restaurante/internal/model"
	"restaurante/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(userID int64, category model.Category, createdAt time.Time) model.Order {
	return model.Order{
		ID:        uuid.New(),
		Code:      "0042",
		Lines:     []model.OrderLine{{ProductID: 1, ProductName: "Pizza Margherita", Quantity: 2, UnitPrice: money("29.90"), LineTotal: money("59.80")}},
		CreatedAt: createdAt,
		Status:    model.StatusCreated,
		Category:  category,
		UserID:    userID,
	}
}

func newTestManager(t *testing.T, store storage.Store, opts ...ManagerOption) *Manager {
	t.Helper()
	m, err := NewManager(context.Background(), store, zerolog.Nop(), opts...)
	require.NoError(t, err)
	return m
}

func TestManager_AdvanceThroughDelivery(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	now := created
	m := newTestManager(t, storage.NewMemoryStore(), WithClock(func() time.Time { return now }))

	o := newOrder(1, model.CategoryDelivery, created)
	require.NoError(t, m.Append(ctx, o))

	expected := []model.Status{model.StatusConfirmed, model.StatusPreparing, model.StatusOutForDelivery, model.StatusDelivered}
	for _, status := range expected {
		now = now.Add(10 * time.Minute)
		got, err := m.Advance(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, status, got.Status)
	}

	_, err := m.Advance(ctx, o.ID)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
	assert.ErrorIs(t, err, model.ErrOrderDelivered)

	final, err := m.ByID(o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDelivered, final.Status)
	require.NotNil(t, final.ConfirmedAt)
	require.NotNil(t, final.DeliveredAt)
	assert.Nil(t, final.CancelledAt)
	assert.Equal(t, created.Add(10*time.Minute), *final.ConfirmedAt)
	assert.Equal(t, created.Add(40*time.Minute), *final.DeliveredAt)
}

func TestManager_Cancel(t *testing.T) {
	ctx := context.Background()

	for advances, from := range []model.Status{model.StatusCreated, model.StatusConfirmed, model.StatusPreparing, model.StatusOutForDelivery} {
		t.Run(string(from), func(t *testing.T) {
			m := newTestManager(t, storage.NewMemoryStore())
			o := newOrder(1, model.CategoryPickup, time.Now())
			require.NoError(t, m.Append(ctx, o))
			for i := 0; i < advances; i++ {
				_, err := m.Advance(ctx, o.ID)
				require.NoError(t, err)
			}

			got, err := m.Cancel(ctx, o.ID)
			require.NoError(t, err)
			assert.Equal(t, model.StatusCancelled, got.Status)
			assert.NotNil(t, got.CancelledAt)

			_, err = m.Cancel(ctx, o.ID)
			assert.ErrorIs(t, err, model.ErrOrderCancelled)
			_, err = m.Advance(ctx, o.ID)
			assert.ErrorIs(t, err, model.ErrOrderCancelled)
		})
	}
}

func TestManager_CancelDeliveredRejected(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, storage.NewMemoryStore())
	o := newOrder(1, model.CategoryDelivery, time.Now())
	require.NoError(t, m.Append(ctx, o))
	for i := 0; i < 4; i++ {
		_, err := m.Advance(ctx, o.ID)
		require.NoError(t, err)
	}

	_, err := m.Cancel(ctx, o.ID)
	assert.ErrorIs(t, err, model.ErrOrderDelivered)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	got, err := m.ByID(o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDelivered, got.Status)
	assert.Nil(t, got.CancelledAt)
}

func TestManager_UnknownOrder(t *testing.T) {
	m := newTestManager(t, storage.NewMemoryStore())

	_, err := m.Advance(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
	_, err = m.Cancel(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
	_, err = m.ByID(uuid.New())
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestManager_TimestampsClampedToCreation(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	skewed := created.Add(-time.Hour)
	m := newTestManager(t, storage.NewMemoryStore(), WithClock(fixedClock(skewed)))

	o := newOrder(1, model.CategoryCounter, created)
	require.NoError(t, m.Append(ctx, o))

	got, err := m.Advance(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ConfirmedAt)
	assert.Equal(t, created, *got.ConfirmedAt)

	got, err = m.Cancel(ctx, o.ID)
	require.NoError(t, err)
	assert.False(t, got.CancelledAt.Before(*got.ConfirmedAt))
}

func TestManager_TimestampsStoredInUTC(t *testing.T) {
	ctx := context.Background()
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	created := time.Date(2024, 6, 15, 9, 0, 0, 0, saoPaulo)
	m := newTestManager(t, storage.NewMemoryStore(), WithClock(fixedClock(created.Add(time.Minute))))

	for _, category := range []model.Category{model.CategoryDelivery, model.CategoryPickup} {
		o := newOrder(1, category, created)
		require.NoError(t, m.Append(ctx, o))

		got, err := m.Advance(ctx, o.ID)
		require.NoError(t, err)
		require.NotNil(t, got.ConfirmedAt)
		assert.Equal(t, time.UTC, got.ConfirmedAt.Location())
		assert.True(t, got.ConfirmedAt.Equal(created.Add(time.Minute)))

		got, err = m.Cancel(ctx, o.ID)
		require.NoError(t, err)
		require.NotNil(t, got.CancelledAt)
		assert.Equal(t, time.UTC, got.CancelledAt.Location())
	}
}

func TestManager_ClampedTimestampStoredInUTC(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 6, 15, 9, 0, 0, 0, time.FixedZone("BRT", -3*60*60))
	m := newTestManager(t, storage.NewMemoryStore(), WithClock(fixedClock(created.Add(-time.Hour))))

	o := newOrder(1, model.CategoryCounter, created)
	require.NoError(t, m.Append(ctx, o))

	got, err := m.Advance(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ConfirmedAt)
	assert.Equal(t, time.UTC, got.ConfirmedAt.Location())
	assert.True(t, got.ConfirmedAt.Equal(created))
}

func TestManager_AppendValidation(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, storage.NewMemoryStore())

	o := newOrder(1, model.CategoryPickup, time.Now())
	o.ID = uuid.Nil
	assert.ErrorIs(t, m.Append(ctx, o), model.ErrValidation)

	o.ID = uuid.New()
	require.NoError(t, m.Append(ctx, o))
	assert.ErrorIs(t, m.Append(ctx, o), model.ErrValidation)
	assert.Len(t, m.List(), 1)
}

func TestManager_AppendRecomputesTotal(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, storage.NewMemoryStore())

	o := newOrder(1, model.CategoryDelivery, time.Now())
	o.DeliveryFee = money("5.99")
	o.Total = money("1.00")
	require.NoError(t, m.Append(ctx, o))

	got, err := m.ByID(o.ID)
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(money("65.79")))
}

func TestManager_Queries(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, storage.NewMemoryStore())

	a := newOrder(1, model.CategoryDelivery, time.Now())
	b := newOrder(2, model.CategoryPickup, time.Now())
	c := newOrder(1, model.CategoryPickup, time.Now())
	for _, o := range []model.Order{a, b, c} {
		require.NoError(t, m.Append(ctx, o))
	}

	assert.Len(t, m.List(), 3)

	mine := m.ByUser(1)
	require.Len(t, mine, 2)
	assert.Equal(t, a.ID, mine[0].ID)
	assert.Equal(t, c.ID, mine[1].ID)

	assert.Len(t, m.ByCategory(model.CategoryPickup), 2)
	assert.Empty(t, m.ByCategory(model.CategoryCounter))
	assert.Empty(t, m.ByUser(42))

	// Returned orders are copies.
	mine[0].Lines[0].Quantity = 99
	again, err := m.ByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Lines[0].Quantity)
}

func TestManager_PersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	m := newTestManager(t, store)

	o := newOrder(1, model.CategoryDelivery, time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	o.Address = deliveryAddress()
	o.DeliveryFee = money("5.99")
	o.PaymentMethod = model.PaymentMethods[2]
	require.NoError(t, m.Append(ctx, o))
	_, err := m.Advance(ctx, o.ID)
	require.NoError(t, err)

	before, err := m.ByID(o.ID)
	require.NoError(t, err)

	reloaded := newTestManager(t, store)
	after, err := reloaded.ByID(o.ID)
	require.NoError(t, err)

	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, before.Status, after.Status)
	assert.True(t, before.Total.Equal(after.Total))
	assert.True(t, before.ConfirmedAt.Equal(*after.ConfirmedAt))
	assert.Equal(t, before.Address, after.Address)
	assert.Equal(t, before.PaymentMethod, after.PaymentMethod)
	assert.True(t, before.Lines[0].UnitPrice.Equal(after.Lines[0].UnitPrice))
	assert.True(t, after.Total.Equal(after.Recompute()))
}

func TestManager_SaveFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, failingSaveStore{storage.NewMemoryStore()})

	o := newOrder(1, model.CategoryPickup, time.Now())
	require.NoError(t, m.Append(ctx, o))

	got, err := m.Advance(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, got.Status)
}

func TestManager_LoadRejectsNewerSchema(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), storage.NamespaceOrders, []byte(`{"schemaVersion":99,"items":[]}`)))

	_, err := NewManager(context.Background(), store, zerolog.Nop())
	assert.ErrorIs(t, err, storage.ErrUnsupportedSchema)
}

func TestManager_PublishesEvents(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{err: errPublish}
	m := newTestManager(t, storage.NewMemoryStore(), WithPublisher(pub))

	o := newOrder(7, model.CategoryPickup, time.Now())
	require.NoError(t, m.Append(ctx, o))
	_, err := m.Advance(ctx, o.ID)
	require.NoError(t, err, "publish failures must not fail the transition")

	require.Len(t, pub.events, 2)
	assert.Equal(t, model.EventOrderCreated, pub.events[0].Type)
	assert.Equal(t, model.StatusCreated, pub.events[0].Status)
	assert.Equal(t, model.EventOrderStatusChanged, pub.events[1].Type)
	assert.Equal(t, model.StatusCreated, pub.events[1].PreviousStatus)
	assert.Equal(t, model.StatusConfirmed, pub.events[1].Status)
	assert.Equal(t, int64(7), pub.events[1].UserID)
}

type failingSaveStore struct {
	storage.Store
}

func (failingSaveStore) Save(context.Context, string, []byte) error {
	return errPublish
}
