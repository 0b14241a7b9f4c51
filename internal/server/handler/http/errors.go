package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tlemaire/garagekeeper/internal/models"
)

// writeDomainError maps the domain error taxonomy to HTTP status codes.
// Errors are plain-text bodies; anything outside the taxonomy is a 500
// with no detail leaked.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrInvalidCredentials):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrVehicleNotFound),
		errors.Is(err, models.ErrClientNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrDuplicateEmail),
		errors.Is(err, models.ErrDuplicatePlate):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
