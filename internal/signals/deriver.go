package signals

import (
	"context"
	"sync"
	"time"

	"github.com/screenerlabs/equityscreener/internal/contracts"
	"github.com/screenerlabs/equityscreener/internal/indicators"
	"github.com/screenerlabs/equityscreener/pkg/logger"
)

// backfillWindow is how much daily history a recompute fetches.
const backfillWindow = 6 * 30 * 24 * time.Hour

// Deriver reads stored technical snapshots and recomputes stale ones from
// fresh OHLC history. Backfill is best-effort per ticker: one failure never
// aborts a batch, the row just keeps zero values.
type Deriver struct {
	snapshots contracts.SnapshotRepository
	market    contracts.MarketDataProvider
	clock     contracts.Clock
	workers   int
	logger    *logger.Logger
}

// NewDeriver creates a signal deriver with a bounded backfill concurrency.
func NewDeriver(snapshots contracts.SnapshotRepository, market contracts.MarketDataProvider, clock contracts.Clock, workers int, log *logger.Logger) *Deriver {
	if workers < 1 {
		workers = 1
	}
	return &Deriver{
		snapshots: snapshots,
		market:    market,
		clock:     clock,
		workers:   workers,
		logger:    log,
	}
}

// ForCompanies derives signals for the given companies, preserving input
// order. Backfills run concurrently under the worker cap.
func (d *Deriver) ForCompanies(ctx context.Context, companies []*contracts.Company) []TickerSignals {
	out := make([]TickerSignals, len(companies))

	sem := make(chan struct{}, d.workers)
	var wg sync.WaitGroup
	for i, c := range companies {
		wg.Add(1)
		go func(i int, c *contracts.Company) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			out[i] = d.derive(ctx, c)
		}(i, c)
	}
	wg.Wait()

	return out
}

// derive builds one ticker's signal row, backfilling when the stored
// snapshot is missing or carries absent/zero indicator values.
func (d *Deriver) derive(ctx context.Context, c *contracts.Company) TickerSignals {
	row := TickerSignals{Ticker: c.Ticker, CompanyName: c.CompanyName}

	snap, err := d.snapshots.LatestTechnical(ctx, c.Ticker)
	if err != nil {
		snap = nil
	}

	if needsBackfill(snap) {
		if fresh, err := d.backfill(ctx, c.Ticker); err != nil {
			d.logger.WithError(err).WithField("ticker", c.Ticker).Warn("Technical backfill failed")
		} else {
			snap = fresh
		}
	}

	if snap != nil {
		row.Price = zeroIfAbsent(snap.LastClose)
		row.EMA20 = zeroIfAbsent(snap.EMA20)
		row.EMA50 = zeroIfAbsent(snap.EMA50)
		row.MACD = zeroIfAbsent(snap.MACD)
		row.ChoppinessIndex = zeroIfAbsent(snap.ChoppinessIndex)
		row.ATR14 = zeroIfAbsent(snap.ATR14)
	}
	row.compute()
	return row
}

// needsBackfill reports whether a stored snapshot is unusable. An exactly
// zero indicator is treated the same as an absent one since no real EMA or
// Choppiness value lands on zero.
func needsBackfill(s *contracts.TechnicalSnapshot) bool {
	if s == nil {
		return true
	}
	for _, v := range []*float64{s.EMA20, s.EMA50, s.MACD, s.ChoppinessIndex} {
		if v == nil || *v == 0 {
			return true
		}
	}
	return false
}

// backfill fetches ~6 months of daily bars, recomputes the indicator set and
// persists a fresh snapshot. A persistence failure is logged but the
// recomputed values are still used for this response.
func (d *Deriver) backfill(ctx context.Context, ticker string) (*contracts.TechnicalSnapshot, error) {
	now := d.clock.Now()
	bars, err := d.market.History(ctx, ticker, now.Add(-backfillWindow), now)
	if err != nil {
		return nil, err
	}

	closes := make([]float64, len(bars))
	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		highs[i] = b.High
		lows[i] = b.Low
	}

	macd := indicators.MACD(closes, 12, 26, 9)
	snap := &contracts.TechnicalSnapshot{
		Ticker:          ticker,
		AsOfDate:        now,
		EMA20:           contracts.Num(indicators.Last(indicators.EMA(closes, 20))),
		EMA50:           contracts.Num(indicators.Last(indicators.EMA(closes, 50))),
		MACD:            contracts.Num(indicators.Last(macd.Line)),
		MACDSignal:      contracts.Num(indicators.Last(macd.Signal)),
		ChoppinessIndex: contracts.Num(indicators.Last(indicators.Choppiness(highs, lows, closes, 14))),
		ATR14:           contracts.Num(indicators.Last(indicators.ATR(highs, lows, closes, 14))),
		LastClose:       contracts.Num(indicators.Last(closes)),
	}

	if err := d.snapshots.AppendTechnical(ctx, snap); err != nil {
		d.logger.WithError(err).WithField("ticker", ticker).Warn("Failed to persist technical snapshot")
	}
	return snap, nil
}

func zeroIfAbsent(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
