package commands

import (
	"context"
	"fmt"

	"github.com/screenerlabs/equityscreener/internal/backtest"
	"github.com/screenerlabs/equityscreener/internal/contracts"
	"github.com/screenerlabs/equityscreener/internal/ingest"
	"github.com/screenerlabs/equityscreener/internal/market"
	"github.com/screenerlabs/equityscreener/internal/portfolio"
	"github.com/screenerlabs/equityscreener/internal/screener"
	"github.com/screenerlabs/equityscreener/internal/signals"
	"github.com/screenerlabs/equityscreener/internal/store"
	"github.com/screenerlabs/equityscreener/pkg/cache"
	"github.com/screenerlabs/equityscreener/pkg/config"
	"github.com/screenerlabs/equityscreener/pkg/database"
	"github.com/screenerlabs/equityscreener/pkg/logger"
)

// app wires the full service graph once per command invocation.
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	db    *database.DB
	redis *cache.Client

	market     *market.Cached
	companies  *store.CompanyRepo
	snapshots  *store.SnapshotRepo
	audit      *store.AuditRepo
	screens    *screener.Engine
	registry   *screener.Registry
	deriver    *signals.Deriver
	tracker    *portfolio.Tracker
	watchlist  *portfolio.Watchlist
	backtester *backtest.Engine
	ingester   *ingest.Service
}

// newApp loads config, connects to the database and Redis, ensures the
// schema and builds every service.
func newApp(ctx context.Context) (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := store.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	// 4. Connect to Redis (no-op client when disabled)
	redisClient, err := cache.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	// 5. Market data provider behind the cache
	yahoo := market.NewYahoo(cfg, log)
	cached := market.NewCached(yahoo, cache.NewCache(redisClient, "equityscreener"))

	// 6. Repositories
	clock := contracts.SystemClock{}
	audit := store.NewAuditRepo(db.Pool, clock, log)
	companies := store.NewCompanyRepo(db.Pool)
	snapshots := store.NewSnapshotRepo(db.Pool)

	// 7. Services
	screens := screener.NewEngine(store.NewScreenQuery(db.Pool), audit, log)
	registry := screener.NewRegistry(store.NewScreenRepo(db.Pool), clock, log)
	deriver := signals.NewDeriver(snapshots, cached, clock, cfg.Market.Workers, log)
	tracker := portfolio.NewTracker(store.NewPortfolioRepo(db.Pool), companies, cached, clock, log)
	watch := portfolio.NewWatchlist(store.NewWatchlistRepo(db.Pool), companies, cached, clock, log)
	backtester := backtest.NewEngine(screens, companies, cached, store.NewBacktestRepo(db.Pool), audit, clock, cfg.Market.Workers, log)
	ingester := ingest.NewService(companies, snapshots, cached, audit, clock, cfg.Market.Workers, log)

	return &app{
		cfg:        cfg,
		log:        log,
		db:         db,
		redis:      redisClient,
		market:     cached,
		companies:  companies,
		snapshots:  snapshots,
		audit:      audit,
		screens:    screens,
		registry:   registry,
		deriver:    deriver,
		tracker:    tracker,
		watchlist:  watch,
		backtester: backtester,
		ingester:   ingester,
	}, nil
}

// Close releases the database and Redis connections.
func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
