// Package backtest replays a screen against current data and measures forward
// returns over a holding window.
package backtest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/screenerlabs/equityscreener/internal/contracts"
	"github.com/screenerlabs/equityscreener/internal/criteria"
	"github.com/screenerlabs/equityscreener/pkg/logger"
)

// State tracks a run through its lifecycle. Failed is terminal and reachable
// from any step.
type State string

const (
	StateConfigured    State = "configured"
	StateScreened      State = "screened"
	StatePricesFetched State = "prices_fetched"
	StateAggregated    State = "aggregated"
	StatePersisted     State = "persisted"
	StateFailed        State = "failed"
)

// DefaultHoldingDays is the holding window when none is configured.
const DefaultHoldingDays = 90

// sellGraceDays extends the price-fetch window past the sell date so a sell
// date on a holiday or weekend still captures the next session's close.
const sellGraceDays = 5

const dateLayout = "2006-01-02"

// ScreenRunner resolves a screen into its matching instrument set.
type ScreenRunner interface {
	RunPredefined(ctx context.Context, key string, filters contracts.AdditionalFilters) (*contracts.ScreenResult, error)
	RunCustom(ctx context.Context, screen criteria.Screen, filters contracts.AdditionalFilters) (*contracts.ScreenResult, error)
}

// Universe reports the screened instrument population, for the record's
// total-screened count.
type Universe interface {
	AllTickers(ctx context.Context) ([]string, error)
}

// Config parametrizes one run. When Screen has no predicates, ScreenName is
// resolved against the built-in catalog; otherwise the explicit definition
// runs. A zero EndDate defaults to today and a non-positive HoldingDays to
// DefaultHoldingDays.
type Config struct {
	ScreenName  string
	Screen      criteria.Screen
	StartDate   time.Time
	EndDate     time.Time
	HoldingDays int
	Filters     contracts.AdditionalFilters
}

// Engine executes backtest runs.
//
// The screening step uses current fundamentals as a proxy for the historical
// screen date. The system keeps no point-in-time fundamental history, so
// results measure forward returns of today's picks from the start date, not
// a true historical screen.
type Engine struct {
	screens  ScreenRunner
	universe Universe
	market   contracts.MarketDataProvider
	repo     contracts.BacktestRepository
	audit    contracts.AuditLogger
	clock    contracts.Clock
	workers  int
	logger   *logger.Logger
}

// NewEngine creates a backtest engine with a bounded price-fetch concurrency.
func NewEngine(screens ScreenRunner, universe Universe, market contracts.MarketDataProvider, repo contracts.BacktestRepository, audit contracts.AuditLogger, clock contracts.Clock, workers int, log *logger.Logger) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		screens:  screens,
		universe: universe,
		market:   market,
		repo:     repo,
		audit:    audit,
		clock:    clock,
		workers:  workers,
		logger:   log,
	}
}

// Run executes one backtest. Unrecoverable errors (unknown screen, persist
// failure) abort before or during persistence and surface to the caller;
// per-ticker price errors only reduce the sample.
func (e *Engine) Run(ctx context.Context, cfg Config) (*contracts.BacktestRecord, error) {
	state := StateConfigured

	if cfg.EndDate.IsZero() {
		cfg.EndDate = e.clock.Now()
	}
	if cfg.HoldingDays <= 0 {
		cfg.HoldingDays = DefaultHoldingDays
	}
	if cfg.StartDate.IsZero() || !cfg.StartDate.Before(cfg.EndDate) {
		return nil, e.fail(ctx, cfg.ScreenName, state,
			&contracts.ValidationError{Field: "start_date", Reason: "start date must precede end date"})
	}

	tickers, err := e.universe.AllTickers(ctx)
	if err != nil {
		return nil, e.fail(ctx, cfg.ScreenName, state, err)
	}

	result, err := e.resolveScreen(ctx, cfg)
	if err != nil {
		return nil, e.fail(ctx, cfg.ScreenName, state, err)
	}
	state = StateScreened

	details := e.fetchReturns(ctx, cfg, result.Rows)
	state = StatePricesFetched

	record := aggregate(cfg, result, details, len(tickers))
	record.ID = uuid.NewString()
	record.BacktestDate = e.clock.Now()
	state = StateAggregated

	if err := e.repo.Save(ctx, record); err != nil {
		return nil, e.fail(ctx, cfg.ScreenName, state, &contracts.PersistenceError{Op: "save backtest", Err: err})
	}
	state = StatePersisted

	e.audit.Log(ctx, "backtest",
		fmt.Sprintf("screen=%s passed=%d state=%s", record.ScreenName, record.StocksPassed, state), "success")
	e.logger.WithFields(map[string]interface{}{
		"screen":  record.ScreenName,
		"passed":  record.StocksPassed,
		"winners": record.WinningStocks,
	}).Info("Backtest completed")

	return record, nil
}

func (e *Engine) fail(ctx context.Context, screen string, state State, err error) error {
	e.audit.Log(ctx, "backtest", fmt.Sprintf("screen=%s state=%s error=%v", screen, state, err), "failure")
	return err
}

func (e *Engine) resolveScreen(ctx context.Context, cfg Config) (*contracts.ScreenResult, error) {
	if len(cfg.Screen.Predicates) > 0 {
		return e.screens.RunCustom(ctx, cfg.Screen, cfg.Filters)
	}
	return e.screens.RunPredefined(ctx, cfg.ScreenName, cfg.Filters)
}

// fetchReturns computes per-ticker forward returns with a bounded worker
// pool. Cancelling the context stops issuing further fetches; already
// collected results are still aggregated. Output order follows the screened
// row order.
func (e *Engine) fetchReturns(ctx context.Context, cfg Config, rows []contracts.ScreenRow) []contracts.TickerReturn {
	out := make([]contracts.TickerReturn, len(rows))

	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup
	for i, row := range rows {
		if ctx.Err() != nil {
			// Stop issuing fetches; mark the remainder excluded.
			out[i] = excluded(row, cfg, "cancelled before fetch")
			continue
		}
		wg.Add(1)
		go func(i int, row contracts.ScreenRow) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			out[i] = e.tickerReturn(ctx, cfg, row)
		}(i, row)
	}
	wg.Wait()

	return out
}

// tickerReturn prices one holding window: buy at the first close at/after the
// start date, sell at the first close at/after the sell date. The fetch
// window extends sellGraceDays past the sell date; when no bar trades at or
// after it, the last available close is used.
func (e *Engine) tickerReturn(ctx context.Context, cfg Config, row contracts.ScreenRow) contracts.TickerReturn {
	sellDate := sellDateFor(cfg)

	bars, err := e.market.History(ctx, row.Ticker, cfg.StartDate, sellDate.AddDate(0, 0, sellGraceDays))
	if err != nil {
		e.logger.WithError(err).WithField("ticker", row.Ticker).Debug("Price fetch failed")
		return excluded(row, cfg, "no price data")
	}
	if len(bars) < 2 {
		return excluded(row, cfg, "insufficient price history")
	}

	buy := bars[0].Close
	sell := sellBar(bars, sellDate).Close
	ret := (sell - buy) / buy * 100

	return contracts.TickerReturn{
		Ticker:      row.Ticker,
		CompanyName: row.CompanyName,
		BuyPrice:    &buy,
		SellPrice:   &sell,
		ReturnPct:   &ret,
		ScreenDate:  cfg.StartDate.Format(dateLayout),
		SellDate:    sellDate.Format(dateLayout),
	}
}

// sellBar picks the exit bar: the first bar dated at/after the sell date,
// falling back to the last available bar when the window ends on a
// non-trading stretch.
func sellBar(bars []contracts.PriceBar, sellDate time.Time) contracts.PriceBar {
	for _, b := range bars {
		if !b.Date.Before(sellDate) {
			return b
		}
	}
	return bars[len(bars)-1]
}

// sellDateFor clamps start+holding to the configured end date.
func sellDateFor(cfg Config) time.Time {
	sellDate := cfg.StartDate.AddDate(0, 0, cfg.HoldingDays)
	if sellDate.After(cfg.EndDate) {
		return cfg.EndDate
	}
	return sellDate
}

func excluded(row contracts.ScreenRow, cfg Config, reason string) contracts.TickerReturn {
	return contracts.TickerReturn{
		Ticker:      row.Ticker,
		CompanyName: row.CompanyName,
		ScreenDate:  cfg.StartDate.Format(dateLayout),
		SellDate:    sellDateFor(cfg).Format(dateLayout),
		Excluded:    true,
		Reason:      reason,
	}
}
