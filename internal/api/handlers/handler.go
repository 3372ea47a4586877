package handlers

import (
	"errors"
	"net/http"

	"github.com/screenerlabs/equityscreener/internal/backtest"
	"github.com/screenerlabs/equityscreener/internal/contracts"
	"github.com/screenerlabs/equityscreener/internal/ingest"
	"github.com/screenerlabs/equityscreener/internal/portfolio"
	"github.com/screenerlabs/equityscreener/internal/screener"
	"github.com/screenerlabs/equityscreener/internal/signals"
	"github.com/screenerlabs/equityscreener/pkg/database"
	"github.com/screenerlabs/equityscreener/pkg/logger"
)

// Handler bundles the core services behind the HTTP surface.
type Handler struct {
	screens    *screener.Engine
	registry   *screener.Registry
	companies  contracts.CompanyRepository
	snapshots  contracts.SnapshotRepository
	deriver    *signals.Deriver
	tracker    *portfolio.Tracker
	watchlist  *portfolio.Watchlist
	backtester *backtest.Engine
	ingester   *ingest.Service
	audit      contracts.AuditLogger
	db         *database.DB
	logger     *logger.Logger
}

// Config collects the handler dependencies.
type Config struct {
	Screens    *screener.Engine
	Registry   *screener.Registry
	Companies  contracts.CompanyRepository
	Snapshots  contracts.SnapshotRepository
	Deriver    *signals.Deriver
	Tracker    *portfolio.Tracker
	Watchlist  *portfolio.Watchlist
	Backtester *backtest.Engine
	Ingester   *ingest.Service
	Audit      contracts.AuditLogger
	DB         *database.DB
	Logger     *logger.Logger
}

// New creates the handler set.
func New(cfg Config) *Handler {
	return &Handler{
		screens:    cfg.Screens,
		registry:   cfg.Registry,
		companies:  cfg.Companies,
		snapshots:  cfg.Snapshots,
		deriver:    cfg.Deriver,
		tracker:    cfg.Tracker,
		watchlist:  cfg.Watchlist,
		backtester: cfg.Backtester,
		ingester:   cfg.Ingester,
		audit:      cfg.Audit,
		db:         cfg.DB,
		logger:     cfg.Logger,
	}
}

// Health reports service and database liveness.
// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbStatus := "ok"
	if err := h.db.Ping(r.Context()); err != nil {
		dbStatus = "down"
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"service":  "equityscreener-api",
		"database": dbStatus,
	})
}

// Status returns the last audit entry per tracked operation.
// GET /api/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out := map[string]*contracts.AuditEntry{}
	for _, op := range []string{"data_update", "screen", "backtest"} {
		entry, err := h.audit.LastOperation(ctx, op)
		if err != nil {
			if errors.Is(err, contracts.ErrNotFound) {
				out[op] = nil
				continue
			}
			respondServiceError(w, err)
			return
		}
		out[op] = entry
	}
	respondJSON(w, http.StatusOK, out)
}

// TriggerUpdate runs a data refresh for the given tickers, or everything when
// none are given. The refresh runs synchronously and returns the tally.
// POST /api/update
func (h *Handler) TriggerUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tickers []string `json:"tickers"`
	}
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.ingester.Refresh(r.Context(), req.Tickers)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
