// Package indicators implements the technical indicators consumed by the
// signal deriver and the ingestion pipeline. All series functions return a
// slice aligned with the input; positions with insufficient history hold NaN.
// Callers must treat NaN as "indicator unavailable", never as zero.
package indicators

import "math"

// EMA computes an exponential moving average with smoothing factor
// alpha = 2/(period+1), seeded by the first sample. There is no SMA warm-up
// phase; the recursive filter runs over the full history from the first value.
func EMA(values []float64, period int) []float64 {
	if len(values) == 0 || period <= 0 {
		return nil
	}
	alpha := 2.0 / (float64(period) + 1.0)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// MACDSeries holds the three MACD components, index-aligned with the input.
type MACDSeries struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// MACD computes MACDLine = EMA(fast) - EMA(slow), SignalLine = EMA(signal) of
// the line, and Histogram = line - signal. Standard parameters are 12/26/9.
func MACD(values []float64, fast, slow, signal int) MACDSeries {
	if len(values) == 0 {
		return MACDSeries{}
	}
	emaFast := EMA(values, fast)
	emaSlow := EMA(values, slow)

	line := make([]float64, len(values))
	for i := range values {
		line[i] = emaFast[i] - emaSlow[i]
	}
	sig := EMA(line, signal)

	hist := make([]float64, len(values))
	for i := range values {
		hist[i] = line[i] - sig[i]
	}
	return MACDSeries{Line: line, Signal: sig, Histogram: hist}
}

// TrueRange computes the per-bar true range:
// max(high-low, |high-prevClose|, |low-prevClose|). The first bar has no
// previous close and uses high-low alone.
func TrueRange(high, low, close []float64) []float64 {
	n := len(close)
	if n == 0 || len(high) != n || len(low) != n {
		return nil
	}
	out := make([]float64, n)
	out[0] = high[0] - low[0]
	for i := 1; i < n; i++ {
		hl := high[i] - low[i]
		hc := math.Abs(high[i] - close[i-1])
		lc := math.Abs(low[i] - close[i-1])
		out[i] = math.Max(hl, math.Max(hc, lc))
	}
	return out
}

// ATR computes the average true range as an EMA of the true range series,
// using the same first-value-seeded smoothing as EMA.
func ATR(high, low, close []float64, period int) []float64 {
	tr := TrueRange(high, low, close)
	if tr == nil {
		return nil
	}
	return EMA(tr, period)
}

// Choppiness computes the Choppiness Index over a rolling window:
//
//	CI = 100 * log10(sum(TR, window) / (max(high) - min(low))) / log10(period)
//
// Bars before the first full window, and windows whose high-low range or true
// range sum is non-positive, are NaN. A non-degenerate window yields a value
// in [0, 100].
func Choppiness(high, low, close []float64, period int) []float64 {
	n := len(close)
	if n == 0 || period <= 1 || len(high) != n || len(low) != n {
		return nil
	}
	tr := TrueRange(high, low, close)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	logP := math.Log10(float64(period))
	for i := period - 1; i < n; i++ {
		var sumTR, maxH, minL float64
		maxH = math.Inf(-1)
		minL = math.Inf(1)
		for j := i - period + 1; j <= i; j++ {
			sumTR += tr[j]
			maxH = math.Max(maxH, high[j])
			minL = math.Min(minL, low[j])
		}
		rng := maxH - minL
		if rng <= 0 || sumTR <= 0 {
			continue
		}
		out[i] = 100 * math.Log10(sumTR/rng) / logP
	}
	return out
}

// Last returns the final value of a series, or NaN when the series is empty.
func Last(series []float64) float64 {
	if len(series) == 0 {
		return math.NaN()
	}
	return series[len(series)-1]
}
