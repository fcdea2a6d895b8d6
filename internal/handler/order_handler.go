package handler

import (
	"context"
	"fmt"
	"net/http"

	"restaurante/internal/model"
	"restaurante/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

func orderID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid order ID format", model.ErrValidation)
	}
	return id, nil
}

// List handles GET /api/orders requests, optionally filtered by ?category=.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// Summary handles GET /api/orders/summary requests.
func (h *OrderHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}

	order, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Advance handles POST /api/orders/{id}/advance requests.
func (h *OrderHandler) Advance(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Advance)
}

// Cancel handles POST /api/orders/{id}/cancel requests.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Cancel)
}

func (h *OrderHandler) transition(w http.ResponseWriter, r *http.Request, apply func(context.Context, uuid.UUID) (*model.Order, error)) {
	id, err := orderID(r)
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}

	order, err := apply(r.Context(), id)
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// QRCode handles GET /api/orders/{id}/qrcode requests with a PNG image.
func (h *OrderHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}

	png, err := h.service.QRCode(r.Context(), id)
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// PaymentMethods handles GET /api/payment-methods requests.
func (h *OrderHandler) PaymentMethods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.PaymentMethods)
}
