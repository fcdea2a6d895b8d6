package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"restaurante/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestFavoritesHandler(t *testing.T) {
	mockService := new(MockFavoritesService)
	mockService.On("List", mock.Anything).Return(&model.Favorites{UserID: 1, Products: []int64{7}, Restaurants: []int64{}}, nil)
	mockService.On("Toggle", mock.Anything, model.FavoriteProduct, int64(7)).Return(false, nil)
	mockService.On("Toggle", mock.Anything, "drink", int64(7)).Return(false, model.ErrInvalidFavoriteKind)
	mockService.On("IsFavorite", mock.Anything, model.FavoriteRestaurant, int64(3)).Return(true, nil)
	h := NewFavoritesHandler(mockService, zerolog.Nop())

	w := httptest.NewRecorder()
	h.List(w, newRequest(t, http.MethodGet, "/api/favorites", nil, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":1,"products":[7],"restaurants":[]}`, w.Body.String())

	w = httptest.NewRecorder()
	h.Toggle(w, newRequest(t, http.MethodPost, "/api/favorites/product/7", nil, map[string]string{"kind": "product", "id": "7"}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"kind":"product","id":7,"favorite":false}`, w.Body.String())

	w = httptest.NewRecorder()
	h.Toggle(w, newRequest(t, http.MethodPost, "/api/favorites/drink/7", nil, map[string]string{"kind": "drink", "id": "7"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, model.ErrCodeInvalidFavoriteKind, errorBody(t, w).Error)

	w = httptest.NewRecorder()
	h.Get(w, newRequest(t, http.MethodGet, "/api/favorites/restaurant/3", nil, map[string]string{"kind": "restaurant", "id": "3"}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"kind":"restaurant","id":3,"favorite":true}`, w.Body.String())

	mockService.AssertExpectations(t)
}
