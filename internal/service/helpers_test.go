package service

import (
	"context"
	"testing"
	"time"

	"restaurante/internal/identity"
	"restaurante/internal/model"
	"restaurante/internal/repository"
	"restaurante/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var (
	customer = &model.User{ID: 1, Name: "João Silva", Email: "joao@email.com", Role: model.RoleCustomer}
	other    = &model.User{ID: 2, Name: "Maria Santos", Email: "maria@email.com", Role: model.RoleCustomer}
	manager  = &model.User{ID: 999, Name: "Gerente do Restaurante", Email: "gerente@restaurante.com", Role: model.RoleManager}
)

func as(user *model.User) context.Context {
	return identity.WithUser(context.Background(), user)
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func moneyPtr(s string) *decimal.Decimal {
	d := money(s)
	return &d
}

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) Upsert(ctx context.Context, p model.Product) (*model.Product, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockRestaurantRepository is a mock implementation of RestaurantRepository.
type MockRestaurantRepository struct {
	mock.Mock
}

func (m *MockRestaurantRepository) List(ctx context.Context) ([]model.Restaurant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) GetByID(ctx context.Context, id int64) (*model.Restaurant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) Upsert(ctx context.Context, r model.Restaurant) (*model.Restaurant, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockOrderStore is a mock implementation of OrderStore.
type MockOrderStore struct {
	mock.Mock
}

func (m *MockOrderStore) ByID(id uuid.UUID) (model.Order, error) {
	args := m.Called(id)
	return args.Get(0).(model.Order), args.Error(1)
}

func (m *MockOrderStore) ByUser(userID int64) []model.Order {
	return m.Called(userID).Get(0).([]model.Order)
}

func (m *MockOrderStore) ByCategory(c model.Category) []model.Order {
	return m.Called(c).Get(0).([]model.Order)
}

func (m *MockOrderStore) List() []model.Order {
	return m.Called().Get(0).([]model.Order)
}

func (m *MockOrderStore) Advance(ctx context.Context, id uuid.UUID) (model.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Order), args.Error(1)
}

func (m *MockOrderStore) Cancel(ctx context.Context, id uuid.UUID) (model.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Order), args.Error(1)
}

// catalog opens the seeded repositories over a fresh memory store.
type catalog struct {
	store       *storage.MemoryStore
	products    repository.ProductRepository
	restaurants repository.RestaurantRepository
	users       repository.UserRepository
	reviews     repository.ReviewRepository
	favorites   repository.FavoritesRepository
	carts       repository.CartRepository
}

func newCatalog(t *testing.T) *catalog {
	t.Helper()
	ctx := context.Background()
	logger := zerolog.Nop()
	c := &catalog{store: storage.NewMemoryStore()}

	var err error
	c.products, err = repository.NewProductRepository(ctx, c.store, logger)
	require.NoError(t, err)
	c.restaurants, err = repository.NewRestaurantRepository(ctx, c.store, logger)
	require.NoError(t, err)
	c.users, err = repository.NewUserRepository(ctx, c.store, logger, repository.WithPasswordCost(bcrypt.MinCost))
	require.NoError(t, err)
	c.reviews, err = repository.NewReviewRepository(ctx, c.store, logger)
	require.NoError(t, err)
	c.favorites, err = repository.NewFavoritesRepository(ctx, c.store, logger)
	require.NoError(t, err)
	c.carts, err = repository.NewCartRepository(ctx, c.store, logger)
	require.NoError(t, err)
	return c
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
