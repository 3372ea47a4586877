package screener

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/screenerlabs/equityscreener/internal/contracts"
)

// ComputeStatistics summarizes a result set. Aggregates are computed only
// over rows where the underlying metric is present; a metric absent from
// every row yields a nil aggregate. An empty result is zero-valued, not an
// error.
func ComputeStatistics(rows []contracts.ScreenRow) contracts.Statistics {
	stats := contracts.Statistics{
		TotalStocks: len(rows),
		Sectors:     map[string]int{},
	}

	var roe, pb, de, mcap []float64
	for _, row := range rows {
		if row.Sector != "" {
			stats.Sectors[row.Sector]++
		}
		roe = appendPresent(roe, row.ROE)
		pb = appendPresent(pb, row.PriceToBook)
		de = appendPresent(de, row.DebtEquity)
		mcap = appendPresent(mcap, row.MarketCap)
	}

	stats.AvgROE = mean(roe)
	stats.MedianPB = median(pb)
	stats.MedianDE = median(de)
	stats.AvgMarketCap = mean(mcap)
	return stats
}

func appendPresent(dst []float64, v *float64) []float64 {
	if v == nil {
		return dst
	}
	return append(dst, *v)
}

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := stat.Mean(values, nil)
	return &m
}

func median(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	m := stat.Quantile(0.5, stat.LinInterp, sorted, nil)
	return &m
}
