// Package handlers implements the HTTP endpoints. Each handler decodes its
// request, delegates to a core service and formats the response; no business
// logic lives here.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/screenerlabs/equityscreener/internal/contracts"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps the core error taxonomy onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case contracts.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, contracts.ErrNotFound), errors.Is(err, contracts.ErrUnknownScreen):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, contracts.ErrDuplicateHolding):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, contracts.ErrNoData):
		respondError(w, http.StatusBadGateway, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
