package order

import (
	"context"
	"errors"
	"sync"
	"time"

	"restaurante/internal/model"

	"github.com/shopspring/decimal"
)

type fakeProducts map[int64]model.Product

func (f fakeProducts) GetByID(_ context.Context, id int64) (*model.Product, error) {
	p, ok := f[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type fakeRestaurants map[int64]model.Restaurant

func (f fakeRestaurants) GetByID(_ context.Context, id int64) (*model.Restaurant, error) {
	r, ok := f[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

type staticIdentity struct {
	user *model.User
}

func (s staticIdentity) Current(context.Context) (*model.User, bool) {
	return s.user, s.user != nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.OrderEvent
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, e model.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

var errPublish = errors.New("broker unavailable")

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func catalog() (fakeProducts, fakeRestaurants) {
	products := fakeProducts{
		1:  {ID: 1, Name: "Pizza Margherita", Price: money("29.90"), Category: "Pizzas", RestaurantID: 2, Active: true},
		2:  {ID: 2, Name: "Pizza Pepperoni", Price: money("34.90"), Category: "Pizzas", RestaurantID: 2, Active: true},
		4:  {ID: 4, Name: "Classic Burger", Price: money("24.90"), Category: "Hambúrgueres", RestaurantID: 1, Active: true},
		7:  {ID: 7, Name: "Combo Sushi", Price: money("45.90"), Category: "Japonesa", RestaurantID: 3, Active: true},
		13: {ID: 13, Name: "Tiramisù", Price: money("16.90"), Category: "Sobremesas", RestaurantID: 2, Active: false},
	}
	restaurants := fakeRestaurants{
		1: {ID: 1, Name: "Komi Keto", DeliveryFee: money("5.99"), Active: true, Open: true},
		2: {ID: 2, Name: "Pizza Express", DeliveryFee: money("5.99"), Active: true, Open: true},
		3: {ID: 3, Name: "Sushi House", DeliveryFee: money("7.99"), Active: true, Open: false},
	}
	return products, restaurants
}

func line(p model.Product, qty int) model.CartLine {
	return model.CartLine{Product: p, Quantity: qty}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func deliveryAddress() *model.Address {
	return &model.Address{
		PostalCode: "01310-100",
		Street:     "Avenida Paulista",
		Number:     "1000",
		City:       "São Paulo",
		State:      "SP",
	}
}
