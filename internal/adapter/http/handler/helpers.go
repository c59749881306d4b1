package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/orderledger/internal/adapter/http/dto"
	"github.com/iho/orderledger/internal/adapter/http/middleware"
	"github.com/iho/orderledger/internal/domain"
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
	case errors.Is(err, domain.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMalformedDocument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDocumentTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError maps err to a response. Unexpected errors are logged and
// their details withheld.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapDomainError(err)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, status, "internal server error", "")
		return
	}
	writeError(w, status, http.StatusText(status), err.Error())
}

// ownerID returns the caller identity set by the identity middleware.
func ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing owner identity")
		return "", false
	}
	return id, true
}

// decodeJSON decodes the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
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

// parseFilter reads the shared list and analytics predicates.
func parseFilter(r *http.Request, match domain.StoreMatch) (domain.EntryFilter, error) {
	q := r.URL.Query()

	filter := domain.EntryFilter{
		Store:      q.Get("store"),
		StoreMatch: match,
		Search:     q.Get("search"),
	}

	if s := q.Get("status"); s != "" {
		status, err := domain.ParseStatus(s)
		if err != nil {
			return filter, err
		}
		filter.Status = status
	}

	dates := []struct {
		key  string
		dest **time.Time
	}{
		{"order_date_from", &filter.OrderDateFrom},
		{"order_date_to", &filter.OrderDateTo},
		{"release_date_from", &filter.ReleaseDateFrom},
		{"release_date_to", &filter.ReleaseDateTo},
	}
	for _, d := range dates {
		s := q.Get(d.key)
		if s == "" {
			continue
		}
		t, err := domain.ParseDate(s)
		if err != nil {
			return filter, fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dest = &t
	}

	if s := q.Get("amount_owing_only"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return filter, fmt.Errorf("%w: amount_owing_only must be a boolean", domain.ErrValidation)
		}
		filter.AmountOwingOnly = b
	}

	return filter, nil
}
