package backtest

import (
	"context"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/screenerlabs/equityscreener/internal/contracts"
)

// History returns the persisted backtest records for a screen, newest first.
func (e *Engine) History(ctx context.Context, screenName string) ([]*contracts.BacktestRecord, error) {
	return e.repo.List(ctx, screenName)
}

// CompareScreens averages each screen's historical backtest records whose
// start date falls inside [start, end], for relative ranking. Screens with no
// records in the window appear with zero backtests and nil aggregates.
func (e *Engine) CompareScreens(ctx context.Context, names []string, start, end time.Time) ([]contracts.ScreenComparison, error) {
	out := make([]contracts.ScreenComparison, 0, len(names))

	for _, name := range names {
		records, err := e.repo.List(ctx, name)
		if err != nil {
			return nil, err
		}

		var avgReturns, medReturns, passed []float64
		n := 0
		for _, r := range records {
			if r.StartDate.Before(start) || r.StartDate.After(end) {
				continue
			}
			n++
			if r.AverageReturn != nil {
				avgReturns = append(avgReturns, *r.AverageReturn)
			}
			if r.MedianReturn != nil {
				medReturns = append(medReturns, *r.MedianReturn)
			}
			passed = append(passed, float64(r.StocksPassed))
		}

		cmp := contracts.ScreenComparison{
			ScreenName:   name,
			NumBacktests: n,
		}
		if len(avgReturns) > 0 {
			m := stat.Mean(avgReturns, nil)
			cmp.AvgReturn = &m
		}
		if len(medReturns) > 0 {
			m := stat.Mean(medReturns, nil)
			cmp.MedianReturn = &m
		}
		if len(passed) > 0 {
			m := stat.Mean(passed, nil)
			cmp.AvgStocksPassed = &m
		}
		out = append(out, cmp)
	}

	return out, nil
}
