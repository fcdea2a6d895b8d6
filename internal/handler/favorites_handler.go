package handler

import (
	"net/http"

	"restaurante/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// FavoritesHandler handles the current user's favourites.
type FavoritesHandler struct {
	service service.FavoritesService
	logger  zerolog.Logger
}

// NewFavoritesHandler creates a new favorites handler.
func NewFavoritesHandler(service service.FavoritesService, logger zerolog.Logger) *FavoritesHandler {
	return &FavoritesHandler{
		service: service,
		logger:  logger.With().Str("handler", "favorites").Logger(),
	}
}

type toggleResponse struct {
	Kind     string `json:"kind"`
	ID       int64  `json:"id"`
	Favorite bool   `json:"favorite"`
}

// List handles GET /api/favorites requests.
func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.service.List(r.Context())
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, favorites)
}

// Toggle handles POST /api/favorites/{kind}/{id} requests.
func (h *FavoritesHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}
	kind := mux.Vars(r)["kind"]

	favorite, err := h.service.Toggle(r.Context(), kind, id)
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{Kind: kind, ID: id, Favorite: favorite})
}

// Get handles GET /api/favorites/{kind}/{id} requests.
func (h *FavoritesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}
	kind := mux.Vars(r)["kind"]

	favorite, err := h.service.IsFavorite(r.Context(), kind, id)
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{Kind: kind, ID: id, Favorite: favorite})
}
