package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"restaurante/internal/model"
	"restaurante/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

type productRequest struct {
	Name         string          `json:"name" validate:"required,max=120"`
	Description  string          `json:"description" validate:"max=1000"`
	Price        decimal.Decimal `json:"price"`
	Photo        string          `json:"photo" validate:"omitempty,url"`
	Category     string          `json:"category" validate:"required,max=60"`
	RestaurantID int64           `json:"restaurantId" validate:"required,gt=0"`
	Active       *bool           `json:"active"`
}

func (req productRequest) product() model.Product {
	p := model.Product{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Photo:        req.Photo,
		Category:     req.Category,
		RestaurantID: req.RestaurantID,
		Active:       true,
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	return p
}

// List handles GET /api/products requests.
//
// Query parameters: q, category (repeatable or comma separated), restaurantId, minPrice,
// maxPrice, sort (nome, preco-asc, preco-desc), limit, offset, includeInactive.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := parseProductQuery(r.URL.Query())
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}

	products, err := h.service.Search(r.Context(), q)
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

func parseProductQuery(values url.Values) (model.ProductQuery, error) {
	q := model.ProductQuery{
		Search: values.Get("q"),
		Sort:   values.Get("sort"),
	}

	for _, raw := range values["category"] {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				q.Categories = append(q.Categories, c)
			}
		}
	}

	var err error
	if q.RestaurantID, err = int64Param(values, "restaurantId"); err != nil {
		return q, err
	}
	if q.MinPrice, err = decimalParam(values, "minPrice"); err != nil {
		return q, err
	}
	if q.MaxPrice, err = decimalParam(values, "maxPrice"); err != nil {
		return q, err
	}
	limit, err := int64Param(values, "limit")
	if err != nil {
		return q, err
	}
	offset, err := int64Param(values, "offset")
	if err != nil {
		return q, err
	}
	q.Limit, q.Offset = int(limit), int(offset)

	if raw := values.Get("includeInactive"); raw != "" {
		if q.IncludeInactive, err = strconv.ParseBool(raw); err != nil {
			return q, fmt.Errorf("%w: includeInactive must be a boolean", model.ErrValidation)
		}
	}
	return q, nil
}

func int64Param(values url.Values, name string) (int64, error) {
	raw := values.Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", model.ErrValidation, name)
	}
	return v, nil
}

func decimalParam(values url.Values, name string) (*decimal.Decimal, error) {
	raw := values.Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.Replace(raw, ",", ".", 1))
	if err != nil || d.IsNegative() {
		return nil, fmt.Errorf("%w: %s must be a non-negative number", model.ErrValidation, name)
	}
	return &d, nil
}

// Get handles GET /api/products/{id} requests.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}

	p, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}
	if p == nil {
		writeFailure(w, model.ErrProductNotFound, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// Create handles POST /api/products requests.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decode(w, r, &req); err != nil {
		writeFailure(w, err, h.logger)
		return
	}

	p, err := h.service.Create(r.Context(), req.product())
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

// Update handles PUT /api/products/{id} requests.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}

	var req productRequest
	if err := decode(w, r, &req); err != nil {
		writeFailure(w, err, h.logger)
		return
	}

	p, err := h.service.Update(r.Context(), id, req.product())
	if err != nil {
		writeFailure(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /api/products/{id} requests.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
