package reports

import (
	"fmt"
	"io"
	"math"
	"sort"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/screenerlabs/equityscreener/internal/contracts"
	"github.com/screenerlabs/equityscreener/internal/indicators"
)

const returnBucketWidth = 10.0

// ReturnDistributionChart renders a histogram of per-ticker backtest returns
// bucketed in 10% bands, as a PNG. Excluded tickers are not plotted.
func ReturnDistributionChart(w io.Writer, rec *contracts.BacktestRecord) error {
	counts := make(map[int]int)
	for _, d := range rec.Details {
		if d.Excluded || d.ReturnPct == nil {
			continue
		}
		counts[int(math.Floor(*d.ReturnPct/returnBucketWidth))]++
	}
	if len(counts) == 0 {
		return fmt.Errorf("backtest %s has no returns to plot", rec.ID)
	}

	buckets := make([]int, 0, len(counts))
	for b := range counts {
		buckets = append(buckets, b)
	}
	sort.Ints(buckets)

	bars := make([]chart.Value, 0, len(buckets))
	for _, b := range buckets {
		lo := float64(b) * returnBucketWidth
		bars = append(bars, chart.Value{
			Value: float64(counts[b]),
			Label: fmt.Sprintf("%.0f..%.0f%%", lo, lo+returnBucketWidth),
		})
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("%s return distribution", rec.ScreenName),
		Height:   512,
		BarWidth: 48,
		Bars:     bars,
	}
	return graph.Render(chart.PNG, w)
}

// PriceChart renders daily closes for a ticker with the 20 and 50 day EMA
// overlaid, as a PNG. Bars must be ordered by date ascending.
func PriceChart(w io.Writer, ticker string, bars []contracts.PriceBar) error {
	if len(bars) < 2 {
		return fmt.Errorf("%s: need at least 2 bars to chart", ticker)
	}

	xs := make([]float64, len(bars))
	closes := make([]float64, len(bars))
	for i, b := range bars {
		xs[i] = float64(i)
		closes[i] = b.Close
	}

	graph := chart.Chart{
		Title: fmt.Sprintf("%s daily close", ticker),
		XAxis: chart.XAxis{
			Name: "Session",
		},
		YAxis: chart.YAxis{
			Name: "Price",
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Close",
				XValues: xs,
				YValues: closes,
			},
			chart.ContinuousSeries{
				Name:    "EMA 20",
				XValues: xs,
				YValues: indicators.EMA(closes, 20),
				Style: chart.Style{
					StrokeColor:     chart.ColorBlue,
					StrokeDashArray: []float64{5, 5},
				},
			},
			chart.ContinuousSeries{
				Name:    "EMA 50",
				XValues: xs,
				YValues: indicators.EMA(closes, 50),
				Style: chart.Style{
					StrokeColor:     chart.ColorRed,
					StrokeDashArray: []float64{5, 5},
				},
			},
		},
	}
	return graph.Render(chart.PNG, w)
}
