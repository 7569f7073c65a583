package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iho/paymaster/internal/adapter/http/dto"
	"github.com/iho/paymaster/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAccountConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidTransfer):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCurrencyNotFound):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// userIDParam parses the positive user_id path parameter.
func userIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "user_id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("user_id must be a positive integer")
	}

	return id, nil
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}

	return i
}

// parseSortQuery parses an optional asc|desc query parameter.
func parseSortQuery(r *http.Request, key string) (*domain.SortDirection, error) {
	switch val := r.URL.Query().Get(key); val {
	case "":
		return nil, nil
	case string(domain.SortAsc):
		d := domain.SortAsc
		return &d, nil
	case string(domain.SortDesc):
		d := domain.SortDesc
		return &d, nil
	default:
		return nil, errors.New(key + " must be asc or desc")
	}
}
