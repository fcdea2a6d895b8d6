package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"restaurante/internal/model"
	"restaurante/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleView() model.CartView {
	pizza := model.Product{ID: 1, Name: "Pizza Margherita", Price: decimal.RequireFromString("29.90"), RestaurantID: 2, Active: true}
	return model.CartView{
		Lines:     []model.CartLine{{Product: pizza, Quantity: 2}},
		Total:     decimal.RequireFromString("59.80"),
		ItemCount: 2,
	}
}

func TestCartHandler_AddItem(t *testing.T) {
	note := "sem cebola"

	tests := []struct {
		name             string
		body             any
		expectedQuantity int
		expectedNote     *string
		mockError        error
		expectedStatus   int
		expectService    bool
	}{
		{"Default quantity", map[string]any{"productId": 1}, 1, nil, nil, http.StatusOK, true},
		{"Quantity and note", map[string]any{"productId": 1, "quantity": 2, "note": note}, 2, &note, nil, http.StatusOK, true},
		{"Zero quantity", map[string]any{"productId": 1, "quantity": 0}, 0, nil, model.ErrInvalidQuantity, http.StatusBadRequest, true},
		{"Inactive product", map[string]any{"productId": 1}, 1, nil, model.ErrProductUnavailable, http.StatusConflict, true},
		{"Anonymous", map[string]any{"productId": 1}, 1, nil, model.ErrUnauthenticated, http.StatusUnauthorized, true},
		{"Missing product", map[string]any{"quantity": 1}, 0, nil, nil, http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCartService)
			if tt.expectService {
				mockService.On("AddItem", mock.Anything, int64(1), tt.expectedQuantity, tt.expectedNote).Return(sampleView(), tt.mockError)
			}
			h := NewCartHandler(mockService, zerolog.Nop())

			w := httptest.NewRecorder()
			h.AddItem(w, newRequest(t, http.MethodPost, "/api/cart/items", tt.body, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var got model.CartView
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
				assert.Equal(t, 2, got.ItemCount)
				assert.True(t, decimal.RequireFromString("59.80").Equal(got.Total))
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestCartHandler_SetQuantityAndRemove(t *testing.T) {
	mockService := new(MockCartService)
	mockService.On("SetQuantity", mock.Anything, int64(1), 5).Return(sampleView(), nil)
	mockService.On("RemoveItem", mock.Anything, int64(1)).Return(model.CartView{Lines: []model.CartLine{}}, nil)
	mockService.On("Clear", mock.Anything).Return(nil)
	h := NewCartHandler(mockService, zerolog.Nop())
	vars := map[string]string{"productId": "1"}

	w := httptest.NewRecorder()
	h.SetQuantity(w, newRequest(t, http.MethodPut, "/api/cart/items/1", map[string]any{"quantity": 5}, vars))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.RemoveItem(w, newRequest(t, http.MethodDelete, "/api/cart/items/1", nil, vars))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"lines":[],"total":"0","itemCount":0}`, w.Body.String())

	w = httptest.NewRecorder()
	h.Clear(w, newRequest(t, http.MethodDelete, "/api/cart", nil, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	h.RemoveItem(w, newRequest(t, http.MethodDelete, "/api/cart/items/x", nil, map[string]string{"productId": "x"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockService.AssertExpectations(t)
}

func TestCartHandler_Checkout(t *testing.T) {
	address := &model.Address{PostalCode: "01310-100", Street: "Av. Paulista", Number: "1000", City: "São Paulo", State: "SP"}
	created := &model.Order{ID: uuid.New(), Code: "A1B2C3", Status: model.StatusCreated, Category: model.CategoryDelivery}

	tests := []struct {
		name           string
		body           any
		expected       service.CheckoutRequest
		mockReturn     *model.Order
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name: "Delivery",
			body: map[string]any{"category": "DELIVERY", "address": address, "paymentMethod": "pix", "promoCode": "PIZZA10"},
			expected: service.CheckoutRequest{
				Category:      model.CategoryDelivery,
				Address:       address,
				PaymentMethod: "pix",
				PromoCode:     "PIZZA10",
			},
			mockReturn:     created,
			expectedStatus: http.StatusCreated,
			expectService:  true,
		},
		{
			name:           "Address required",
			body:           map[string]any{"category": "DELIVERY"},
			expected:       service.CheckoutRequest{Category: model.CategoryDelivery},
			mockError:      model.ErrAddressRequired,
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Empty cart",
			body:           map[string]any{"category": "PICKUP"},
			expected:       service.CheckoutRequest{Category: model.CategoryPickup},
			mockError:      model.ErrEmptyCart,
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Closed restaurant",
			body:           map[string]any{"category": "COUNTER"},
			expected:       service.CheckoutRequest{Category: model.CategoryCounter},
			mockError:      model.ErrRestaurantClosed,
			expectedStatus: http.StatusConflict,
			expectService:  true,
		},
		{
			name:           "Missing category",
			body:           map[string]any{"paymentMethod": "pix"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCartService)
			if tt.expectService {
				mockService.On("Checkout", mock.Anything, tt.expected).Return(tt.mockReturn, tt.mockError)
			}
			h := NewCartHandler(mockService, zerolog.Nop())

			w := httptest.NewRecorder()
			h.Checkout(w, newRequest(t, http.MethodPost, "/api/cart/checkout", tt.body, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusCreated {
				var got model.Order
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
				assert.Equal(t, created.ID, got.ID)
				assert.Equal(t, "A1B2C3", got.Code)
			}
			mockService.AssertExpectations(t)
		})
	}
}
