package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/screenerlabs/equityscreener/internal/signals"
)

// ListStocks returns the instrument master.
// GET /api/stocks
func (h *Handler) ListStocks(w http.ResponseWriter, r *http.Request) {
	companies, err := h.companies.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, companies)
}

// StockDetail returns one instrument joined to its latest metrics.
// GET /api/stocks/{ticker}
func (h *Handler) StockDetail(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(mux.Vars(r)["ticker"])

	row, err := h.snapshots.LatestMetrics(r.Context(), ticker)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, row)
}

// ListSectors returns the distinct sectors in the instrument master.
// GET /api/sectors
func (h *Handler) ListSectors(w http.ResponseWriter, r *http.Request) {
	sectors, err := h.companies.Sectors(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sectors)
}

// Signals computes technical signals, optionally restricted to a ticker list
// and filtered by signal booleans or a name substring.
// GET /api/signals?tickers=A,B&ema_bullish=true&query=bank
func (h *Handler) Signals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	companies, err := h.companies.List(ctx)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if raw := q.Get("tickers"); raw != "" {
		want := map[string]bool{}
		for _, t := range strings.Split(raw, ",") {
			want[strings.ToUpper(strings.TrimSpace(t))] = true
		}
		filtered := companies[:0]
		for _, c := range companies {
			if want[c.Ticker] {
				filtered = append(filtered, c)
			}
		}
		companies = filtered
	}

	rows := h.deriver.ForCompanies(ctx, companies)

	boolParam := func(name string) bool { return q.Get(name) == "true" }
	filter := signals.Filter{
		EMABullish:  boolParam("ema_bullish"),
		EMABearish:  boolParam("ema_bearish"),
		MACDBullish: boolParam("macd_bullish"),
		MACDBearish: boolParam("macd_bearish"),
		Trending:    boolParam("trending"),
		Choppy:      boolParam("choppy"),
		Query:       q.Get("query"),
	}
	respondJSON(w, http.StatusOK, signals.Apply(rows, filter))
}
