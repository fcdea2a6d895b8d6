package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"restaurante/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// statusByCode maps domain error codes to HTTP statuses. Unknown codes are 500.
var statusByCode = map[string]int{
	model.ErrCodeInvalidJSON:         http.StatusBadRequest,
	model.ErrCodeValidation:          http.StatusBadRequest,
	model.ErrCodeInvalidQuantity:     http.StatusBadRequest,
	model.ErrCodeEmptyCart:           http.StatusBadRequest,
	model.ErrCodeAddressRequired:     http.StatusBadRequest,
	model.ErrCodeInvalidCategory:     http.StatusBadRequest,
	model.ErrCodeInvalidPromoCode:    http.StatusBadRequest,
	model.ErrCodeInvalidRating:       http.StatusBadRequest,
	model.ErrCodeCommentTooShort:     http.StatusBadRequest,
	model.ErrCodeInvalidFavoriteKind: http.StatusBadRequest,
	model.ErrCodeUnauthenticated:     http.StatusUnauthorized,
	model.ErrCodeInvalidCredentials:  http.StatusUnauthorized,
	model.ErrCodeForbidden:           http.StatusForbidden,
	model.ErrCodeProductNotFound:     http.StatusNotFound,
	model.ErrCodeRestaurantNotFound:  http.StatusNotFound,
	model.ErrCodeOrderNotFound:       http.StatusNotFound,
	model.ErrCodeInvalidTransition:   http.StatusConflict,
	model.ErrCodeMixedRestaurants:    http.StatusConflict,
	model.ErrCodeRestaurantClosed:    http.StatusConflict,
	model.ErrCodeRestaurantInUse:     http.StatusConflict,
	model.ErrCodeEmailTaken:          http.StatusConflict,
	model.ErrCodeProductUnavailable:  http.StatusConflict,
}

// StatusOf returns the HTTP status for err.
func StatusOf(err error) int {
	if status, ok := statusByCode[model.CodeOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status, code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("error", message).Str("code", code).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeFailure maps err to a response. Internal errors are not exposed to the client.
func writeFailure(w http.ResponseWriter, err error, logger zerolog.Logger) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("internal error")
		writeError(w, status, model.ErrCodeInternalError, "internal server error", logger)
		return
	}
	writeError(w, status, model.CodeOf(err), err.Error(), logger)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var errInvalidJSON = model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body")

// decode reads a JSON body into dst and checks its validate tags.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return errInvalidJSON
	}

	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describe(fe))
	}
	return fmt.Errorf("%w: %s", model.ErrValidation, strings.Join(problems, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "url":
		return fe.Field() + " must be a valid URL"
	case "min", "gte":
		return fe.Field() + " must be at least " + fe.Param()
	case "max", "lte":
		return fe.Field() + " must be at most " + fe.Param()
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	}
	return fe.Field() + " is invalid"
}

// pathID parses the int64 route variable name.
func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", model.ErrValidation, name)
	}
	return id, nil
}

// Health handles GET /health requests.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// NotFound answers unmatched routes with a JSON error.
func NotFound(logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "route not found: "+r.URL.Path, logger)
	})
}

// MethodNotAllowed answers routes matched with the wrong method.
func MethodNotAllowed(logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed: "+r.Method, logger)
	})
}
