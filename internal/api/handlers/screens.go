package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/screenerlabs/equityscreener/internal/contracts"
	"github.com/screenerlabs/equityscreener/internal/criteria"
)

type filterRequest struct {
	Sectors      []string `json:"sectors"`
	MinMarketCap *float64 `json:"min_market_cap"`
}

func (f filterRequest) toFilters() contracts.AdditionalFilters {
	return contracts.AdditionalFilters{Sectors: f.Sectors, MinMarketCap: f.MinMarketCap}
}

// ListScreens returns the predefined catalog and the saved custom screens.
// GET /api/screens
func (h *Handler) ListScreens(w http.ResponseWriter, r *http.Request) {
	custom, err := h.registry.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"predefined": criteria.ListPredefined(),
		"custom":     custom,
	})
}

// RunScreen runs a predefined screen by key, falling back to a saved custom
// screen of the same name.
// POST /api/screens/{key}/run
func (h *Handler) RunScreen(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var req filterRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.screens.RunPredefined(r.Context(), key, req.toFilters())
	if errors.Is(err, contracts.ErrUnknownScreen) {
		var screen criteria.Screen
		screen, err = h.registry.Get(r.Context(), key)
		if err == nil {
			result, err = h.screens.RunCustom(r.Context(), screen, req.toFilters())
		}
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// RunAdHocScreen runs criteria supplied in the request without saving them.
// POST /api/screens/run
func (h *Handler) RunAdHocScreen(w http.ResponseWriter, r *http.Request) {
	var req struct {
		criteria.Screen
		Filters filterRequest `json:"filters"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.screens.RunCustom(r.Context(), req.Screen, req.Filters.toFilters())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// ListCustomScreens returns all saved screens.
// GET /api/custom-screens
func (h *Handler) ListCustomScreens(w http.ResponseWriter, r *http.Request) {
	screens, err := h.registry.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, screens)
}

// SaveCustomScreen creates or overwrites a screen by name. Criteria are
// validated before anything is persisted.
// POST /api/custom-screens
func (h *Handler) SaveCustomScreen(w http.ResponseWriter, r *http.Request) {
	var req criteria.Screen
	if !decodeJSON(w, r, &req) {
		return
	}

	saved, err := h.registry.Save(r.Context(), req.Name, req.Description, req.Predicates, req.Logic)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, saved)
}

// GetCustomScreen returns one saved screen definition.
// GET /api/custom-screens/{name}
func (h *Handler) GetCustomScreen(w http.ResponseWriter, r *http.Request) {
	screen, err := h.registry.Get(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, screen)
}

// DeleteCustomScreen removes a saved screen.
// DELETE /api/custom-screens/{name}
func (h *Handler) DeleteCustomScreen(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Delete(r.Context(), mux.Vars(r)["name"]); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
