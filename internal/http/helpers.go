package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"moneta/internal/budget"
	"moneta/internal/core"
	"moneta/internal/currency"
	"moneta/internal/kv"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// respondError maps domain errors to HTTP status codes: validation
// failures are 400, missing transactions 404, a degraded store 503,
// everything else 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch {
	case isValidationError(err):
		status = http.StatusBadRequest
	case errors.Is(err, core.ErrTransactionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, kv.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed",
			"request_id", RequestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
	}

	respondJSON(w, status, errorResponse{Error: err.Error()})
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidType,
		core.ErrInvalidAmount,
		core.ErrEmptyCategory,
		core.ErrInvalidDate,
		core.ErrNotesTooLong,
		core.ErrInvalidRecurrence,
		core.ErrOrphanInstance,
		core.ErrUnexpectedParent,
		budget.ErrNegativeLimit,
		currency.ErrUnsupportedCurrency,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
