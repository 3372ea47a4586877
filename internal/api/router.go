package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/screenerlabs/equityscreener/internal/api/handlers"
	"github.com/screenerlabs/equityscreener/pkg/logger"
)

// NewRouter wires every endpoint to its handler.
func NewRouter(h *handlers.Handler, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.Health).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Screening
	api.HandleFunc("/screens", h.ListScreens).Methods("GET")
	api.HandleFunc("/screens/{key}/run", h.RunScreen).Methods("POST")
	api.HandleFunc("/screens/run", h.RunAdHocScreen).Methods("POST")

	// Custom screen registry
	api.HandleFunc("/custom-screens", h.ListCustomScreens).Methods("GET")
	api.HandleFunc("/custom-screens", h.SaveCustomScreen).Methods("POST")
	api.HandleFunc("/custom-screens/{name}", h.GetCustomScreen).Methods("GET")
	api.HandleFunc("/custom-screens/{name}", h.DeleteCustomScreen).Methods("DELETE")

	// Instruments
	api.HandleFunc("/stocks", h.ListStocks).Methods("GET")
	api.HandleFunc("/stocks/{ticker}", h.StockDetail).Methods("GET")
	api.HandleFunc("/sectors", h.ListSectors).Methods("GET")

	// Signals
	api.HandleFunc("/signals", h.Signals).Methods("GET")

	// Portfolio
	api.HandleFunc("/portfolio", h.ListHoldings).Methods("GET")
	api.HandleFunc("/portfolio", h.AddHolding).Methods("POST")
	api.HandleFunc("/portfolio/refresh", h.RefreshPortfolio).Methods("POST")
	api.HandleFunc("/portfolio/summary", h.PortfolioSummary).Methods("GET")
	api.HandleFunc("/portfolio/{id:[0-9]+}", h.RemoveHolding).Methods("DELETE")

	// Watchlist
	api.HandleFunc("/watchlist", h.ListWatchlist).Methods("GET")
	api.HandleFunc("/watchlist", h.AddWatchlist).Methods("POST")
	api.HandleFunc("/watchlist/{ticker}", h.RemoveWatchlist).Methods("DELETE")

	// Backtesting
	api.HandleFunc("/backtest", h.RunBacktest).Methods("POST")
	api.HandleFunc("/backtest/history", h.BacktestHistory).Methods("GET")
	api.HandleFunc("/backtest/compare", h.CompareScreens).Methods("POST")

	// Data refresh
	api.HandleFunc("/update", h.TriggerUpdate).Methods("POST")
	api.HandleFunc("/status", h.Status).Methods("GET")

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
