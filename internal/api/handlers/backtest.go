package handlers

import (
	"net/http"
	"time"

	"github.com/screenerlabs/equityscreener/internal/backtest"
	"github.com/screenerlabs/equityscreener/internal/criteria"
)

// RunBacktest replays a screen from a start date and measures forward
// returns. With inline criteria the ad-hoc definition runs; otherwise
// screen_name resolves against the predefined catalog.
// POST /api/backtest
func (h *Handler) RunBacktest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScreenName  string               `json:"screen_name"`
		Criteria    []criteria.Predicate `json:"criteria"`
		Logic       string               `json:"logic"`
		StartDate   string               `json:"start_date"`
		EndDate     string               `json:"end_date"`
		HoldingDays int                  `json:"holding_days"`
		Filters     filterRequest        `json:"filters"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}
	var end time.Time
	if req.EndDate != "" {
		if end, err = time.Parse(dateLayout, req.EndDate); err != nil {
			respondError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
			return
		}
	}

	cfg := backtest.Config{
		ScreenName:  req.ScreenName,
		StartDate:   start,
		EndDate:     end,
		HoldingDays: req.HoldingDays,
		Filters:     req.Filters.toFilters(),
	}
	if len(req.Criteria) > 0 {
		logic, lErr := criteria.ParseLogic(req.Logic)
		if lErr != nil {
			respondServiceError(w, lErr)
			return
		}
		cfg.Screen = criteria.Screen{Name: req.ScreenName, Predicates: req.Criteria, Logic: logic}
	}

	record, err := h.backtester.Run(r.Context(), cfg)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// BacktestHistory returns past runs for a screen, newest first.
// GET /api/backtest/history?screen=value
func (h *Handler) BacktestHistory(w http.ResponseWriter, r *http.Request) {
	screen := r.URL.Query().Get("screen")
	if screen == "" {
		respondError(w, http.StatusBadRequest, "screen query parameter is required")
		return
	}
	records, err := h.backtester.History(r.Context(), screen)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, records)
}

// CompareScreens ranks screens by their historical backtest aggregates.
// POST /api/backtest/compare
func (h *Handler) CompareScreens(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Screens   []string `json:"screens"`
		StartDate string   `json:"start_date"`
		EndDate   string   `json:"end_date"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Screens) == 0 {
		req.Screens = criteria.PredefinedKeys()
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		return
	}

	cmp, err := h.backtester.CompareScreens(r.Context(), req.Screens, start, end)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cmp)
}
