package handler

import (
	"net/http"

	"restaurante/internal/model"
	"restaurante/internal/service"

	"github.com/rs/zerolog"
)

// ReviewHandler serves the reviews of products and restaurants.
type ReviewHandler struct {
	service service.ReviewService
	logger  zerolog.Logger
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(service service.ReviewService, logger zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  logger.With().Str("handler", "review").Logger(),
	}
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment" validate:"max=2000"`
}

type reviewsResponse struct {
	Summary model.ReviewSummary `json:"summary"`
	Reviews []model.Review      `json:"reviews"`
}

// ReviewTargetFunc builds a review target from a path id.
type ReviewTargetFunc func(id int64) model.ReviewTarget

// ProductTarget targets a product.
func ProductTarget(id int64) model.ReviewTarget { return model.ReviewTarget{ProductID: id} }

// RestaurantTarget targets a restaurant.
func RestaurantTarget(id int64) model.ReviewTarget { return model.ReviewTarget{RestaurantID: id} }

// List returns a handler for GET /api/{products|restaurants}/{id}/reviews.
func (h *ReviewHandler) List(target ReviewTargetFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeFailure(w, err, h.logger)
			return
		}

		reviews, err := h.service.List(r.Context(), target(id))
		if err != nil {
			writeFailure(w, err, h.logger)
			return
		}
		summary, err := h.service.Summary(r.Context(), target(id))
		if err != nil {
			writeFailure(w, err, h.logger)
			return
		}

		writeJSON(w, http.StatusOK, reviewsResponse{Summary: summary, Reviews: reviews})
	}
}

// Add returns a handler for POST /api/{products|restaurants}/{id}/reviews.
func (h *ReviewHandler) Add(target ReviewTargetFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeFailure(w, err, h.logger)
			return
		}

		var req reviewRequest
		if err := decode(w, r, &req); err != nil {
			writeFailure(w, err, h.logger)
			return
		}

		review, err := h.service.Add(r.Context(), target(id), req.Rating, req.Comment)
		if err != nil {
			writeFailure(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusCreated, review)
	}
}
