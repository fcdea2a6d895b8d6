package handler

import (
	"net/http"

	"restaurante/internal/model"
	"restaurante/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RestaurantHandler handles restaurant-related HTTP requests.
type RestaurantHandler struct {
	service service.RestaurantService
	logger  zerolog.Logger
}

// NewRestaurantHandler creates a new restaurant handler.
func NewRestaurantHandler(service service.RestaurantService, logger zerolog.Logger) *RestaurantHandler {
	return &RestaurantHandler{
		service: service,
		logger:  logger.With().Str("handler", "restaurant").Logger(),
	}
}

type restaurantRequest struct {
	Name         string          `json:"name" validate:"required,max=120"`
	DeliveryFee  decimal.Decimal `json:"deliveryFee"`
	Active       *bool           `json:"active"`
	Open         *bool           `json:"open"`
	Cuisine      model.Cuisine   `json:"cuisine"`
	Address      *model.Address  `json:"address" validate:"omitempty"`
	Rating       float64         `json:"rating" validate:"gte=0,lte=5"`
	DeliveryTime string          `json:"deliveryTime" validate:"max=40"`
	Description  string          `json:"description" validate:"max=1000"`
	Phone        string          `json:"phone" validate:"max=40"`
}

func (req restaurantRequest) restaurant() model.Restaurant {
	r := model.Restaurant{
		Name:         req.Name,
		DeliveryFee:  req.DeliveryFee,
		Active:       true,
		Open:         true,
		Cuisine:      req.Cuisine,
		Rating:       req.Rating,
		DeliveryTime: req.DeliveryTime,
		Description:  req.Description,
		Phone:        req.Phone,
	}
	if req.Active != nil {
		r.Active = *req.Active
	}
	if req.Open != nil {
		r.Open = *req.Open
	}
	if req.Address != nil {
		r.Address = *req.Address
	}
	return r
}

// List handles GET /api/restaurants requests.
func (h *RestaurantHandler) List(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.service.List(r.Context())
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, restaurants)
}

// Get handles GET /api/restaurants/{id} requests.
func (h *RestaurantHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}

	rest, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}
	if rest == nil {
		writeFailure(w, model.ErrRestaurantNotFound, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

// Create handles POST /api/restaurants requests.
func (h *RestaurantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req restaurantRequest
	if err := decode(w, r, &req); err != nil {
		writeFailure(w, err, h.logger)
		return
	}

	rest, err := h.service.Create(r.Context(), req.restaurant())
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, rest)
}

// Update handles PUT /api/restaurants/{id} requests.
func (h *RestaurantHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}

	var req restaurantRequest
	if err := decode(w, r, &req); err != nil {
		writeFailure(w, err, h.logger)
		return
	}

	rest, err := h.service.Update(r.Context(), id, req.restaurant())
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

// Delete handles DELETE /api/restaurants/{id} requests.
func (h *RestaurantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeFailure(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Cuisines handles GET /api/cuisines requests.
func (h *RestaurantHandler) Cuisines(w http.ResponseWriter, r *http.Request) {
	cuisines, err := h.service.Cuisines(r.Context())
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cuisines)
}
