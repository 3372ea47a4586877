package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/screenerlabs/equityscreener/internal/contracts"
)

const dateLayout = "2006-01-02"

// ListHoldings returns all holdings with joined latest metrics.
// GET /api/portfolio
func (h *Handler) ListHoldings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.tracker.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, holdings)
}

// AddHolding records a new holding. An exact duplicate lot is rejected with
// 409 Conflict.
// POST /api/portfolio
func (h *Handler) AddHolding(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Ticker        string  `json:"ticker"`
		Quantity      float64 `json:"quantity"`
		PurchasePrice float64 `json:"purchase_price"`
		PurchaseDate  string  `json:"purchase_date"`
		Notes         string  `json:"notes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	holding := &contracts.Holding{
		Ticker:        req.Ticker,
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
		Notes:         req.Notes,
	}
	if req.PurchaseDate != "" {
		date, err := time.Parse(dateLayout, req.PurchaseDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "purchase_date must be YYYY-MM-DD")
			return
		}
		holding.PurchaseDate = date
	}

	if err := h.tracker.Add(r.Context(), holding); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, holding)
}

// RemoveHolding deletes a holding by id.
// DELETE /api/portfolio/{id}
func (h *Handler) RemoveHolding(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid holding id")
		return
	}
	if err := h.tracker.Remove(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// RefreshPortfolio re-quotes every held ticker.
// POST /api/portfolio/refresh
func (h *Handler) RefreshPortfolio(w http.ResponseWriter, r *http.Request) {
	updated, failed, err := h.tracker.RefreshPrices(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"updated": updated, "failed": failed})
}

// PortfolioSummary returns aggregate P&L.
// GET /api/portfolio/summary
func (h *Handler) PortfolioSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.tracker.Summary(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// ListWatchlist returns the watchlist with live quotes and target upside.
// GET /api/watchlist
func (h *Handler) ListWatchlist(w http.ResponseWriter, r *http.Request) {
	entries, err := h.watchlist.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// AddWatchlist puts a ticker on the watchlist; re-adding is a no-op.
// POST /api/watchlist
func (h *Handler) AddWatchlist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Ticker      string   `json:"ticker"`
		TargetPrice *float64 `json:"target_price"`
		Notes       string   `json:"notes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	entry := &contracts.WatchlistEntry{
		Ticker:      req.Ticker,
		TargetPrice: req.TargetPrice,
		Notes:       req.Notes,
	}
	if err := h.watchlist.Add(r.Context(), entry); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// RemoveWatchlist drops a ticker from the watchlist.
// DELETE /api/watchlist/{ticker}
func (h *Handler) RemoveWatchlist(w http.ResponseWriter, r *http.Request) {
	if err := h.watchlist.Remove(r.Context(), mux.Vars(r)["ticker"]); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
