package handler

import (
	"net/http"

	"restaurante/internal/model"
	"restaurante/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles the current user's cart.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

type addItemRequest struct {
	ProductID int64   `json:"productId" validate:"required,gt=0"`
	Quantity  *int    `json:"quantity"`
	Note      *string `json:"note" validate:"omitempty,max=200"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type checkoutRequest struct {
	Category      string         `json:"category" validate:"required"`
	Address       *model.Address `json:"address" validate:"-"`
	PaymentMethod string         `json:"paymentMethod"`
	PromoCode     string         `json:"promoCode" validate:"max=32"`
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Get(r.Context())
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// AddItem handles POST /api/cart/items requests. Quantity defaults to 1.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decode(w, r, &req); err != nil {
		writeFailure(w, err, h.logger)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	view, err := h.service.AddItem(r.Context(), req.ProductID, quantity, req.Note)
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SetQuantity handles PUT /api/cart/items/{productId} requests.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "productId")
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}

	var req setQuantityRequest
	if err := decode(w, r, &req); err != nil {
		writeFailure(w, err, h.logger)
		return
	}

	view, err := h.service.SetQuantity(r.Context(), productID, req.Quantity)
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// RemoveItem handles DELETE /api/cart/items/{productId} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "productId")
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}

	view, err := h.service.RemoveItem(r.Context(), productID)
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Clear handles DELETE /api/cart requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context()); err != nil {
		writeFailure(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Checkout handles POST /api/cart/checkout requests.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decode(w, r, &req); err != nil {
		writeFailure(w, err, h.logger)
		return
	}

	order, err := h.service.Checkout(r.Context(), service.CheckoutRequest{
		Category:      model.Category(req.Category),
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
		PromoCode:     req.PromoCode,
	})
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}
