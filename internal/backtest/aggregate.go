package backtest

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/screenerlabs/equityscreener/internal/contracts"
)

// aggregate folds per-ticker returns into the distributional summary.
// TotalScreened counts the whole instrument universe and StocksPassed the
// screen matches; excluded entries stay in the detail list but never touch
// the aggregates. All statistics are nil on an empty sample, never zero.
func aggregate(cfg Config, result *contracts.ScreenResult, details []contracts.TickerReturn, totalScreened int) *contracts.BacktestRecord {
	record := &contracts.BacktestRecord{
		ScreenName:    result.ScreenName,
		StartDate:     cfg.StartDate,
		EndDate:       cfg.EndDate,
		HoldingDays:   cfg.HoldingDays,
		TotalScreened: totalScreened,
		StocksPassed:  len(result.Rows),
		Details:       details,
	}

	var (
		returns    []float64
		best       = math.Inf(-1)
		worst      = math.Inf(1)
		bestTicker string
		worstTkr   string
	)
	for _, d := range details {
		if d.Excluded || d.ReturnPct == nil {
			continue
		}
		r := *d.ReturnPct
		returns = append(returns, r)

		if r >= 0 {
			record.WinningStocks++
		} else {
			record.LosingStocks++
		}
		if r > best {
			best = r
			bestTicker = d.Ticker
		}
		if r < worst {
			worst = r
			worstTkr = d.Ticker
		}
	}

	if len(returns) == 0 {
		return record
	}

	mean := stat.Mean(returns, nil)
	record.AverageReturn = &mean

	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)
	med := stat.Quantile(0.5, stat.LinInterp, sorted, nil)
	record.MedianReturn = &med
	record.MinReturn = &sorted[0]
	record.MaxReturn = &sorted[len(sorted)-1]

	// Population standard deviation.
	std := math.Sqrt(stat.PopVariance(returns, nil))
	record.StdReturn = &std

	record.BestPerformer = bestTicker
	record.WorstPerformer = worstTkr
	return record
}
