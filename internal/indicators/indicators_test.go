package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEMASeedsWithFirstValue(t *testing.T) {
	series := EMA([]float64{100, 110, 120}, 10)
	require.Len(t, series, 3)
	assert.Equal(t, 100.0, series[0])

	// alpha = 2/11, second value = alpha*110 + (1-alpha)*100
	alpha := 2.0 / 11.0
	assert.InDelta(t, alpha*110+(1-alpha)*100, series[1], 1e-12)
}

func TestEMAConvergesOnConstantSeries(t *testing.T) {
	const price = 250.0
	values := make([]float64, 500)
	for i := range values {
		values[i] = price
	}
	for _, period := range []int{5, 20, 50} {
		series := EMA(values, period)
		assert.InDelta(t, price, Last(series), 1e-9, "period %d", period)
	}
}

func TestEMAEmptyAndBadPeriod(t *testing.T) {
	assert.Nil(t, EMA(nil, 20))
	assert.Nil(t, EMA([]float64{1, 2}, 0))
}

func TestMACDComponents(t *testing.T) {
	values := []float64{10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25}
	m := MACD(values, 12, 26, 9)
	require.Len(t, m.Line, len(values))
	require.Len(t, m.Signal, len(values))
	require.Len(t, m.Histogram, len(values))

	for i := range values {
		assert.InDelta(t, m.Line[i]-m.Signal[i], m.Histogram[i], 1e-12)
	}
	// Rising series: fast EMA leads slow, so the line goes positive.
	assert.Greater(t, Last(m.Line), 0.0)

	// Constant series: both EMAs equal, everything collapses to zero.
	flat := make([]float64, 40)
	for i := range flat {
		flat[i] = 100
	}
	fm := MACD(flat, 12, 26, 9)
	assert.InDelta(t, 0, Last(fm.Line), 1e-12)
	assert.InDelta(t, 0, Last(fm.Histogram), 1e-12)
}

func TestTrueRangeUsesPreviousClose(t *testing.T) {
	high := []float64{12, 15, 11}
	low := []float64{10, 13, 9}
	close := []float64{11, 14, 10}

	tr := TrueRange(high, low, close)
	require.Len(t, tr, 3)
	assert.Equal(t, 2.0, tr[0]) // first bar: high-low only
	// bar 1: max(15-13, |15-11|, |13-11|) = 4 (gap up over prior close)
	assert.Equal(t, 4.0, tr[1])
	// bar 2: max(11-9, |11-14|, |9-14|) = 5 (gap down)
	assert.Equal(t, 5.0, tr[2])

	assert.Nil(t, TrueRange(high, low, close[:2]))
}

func TestATRIsEMAOfTrueRange(t *testing.T) {
	high := []float64{12, 15, 11, 13}
	low := []float64{10, 13, 9, 11}
	close := []float64{11, 14, 10, 12}

	atr := ATR(high, low, close, 14)
	want := EMA(TrueRange(high, low, close), 14)
	require.Len(t, atr, 4)
	for i := range atr {
		assert.InDelta(t, want[i], atr[i], 1e-12)
	}
}

func TestChoppinessBounds(t *testing.T) {
	// Oscillating but range-bound prices: lots of true range inside a fixed
	// high-low band, so the index should land in [0, 100] and lean choppy.
	n := 60
	high := make([]float64, n)
	low := make([]float64, n)
	close := make([]float64, n)
	for i := 0; i < n; i++ {
		base := 100 + 5*math.Sin(float64(i))
		high[i] = base + 2
		low[i] = base - 2
		close[i] = base
	}
	ci := Choppiness(high, low, close, 14)
	require.Len(t, ci, n)

	for i := 0; i < 13; i++ {
		assert.True(t, math.IsNaN(ci[i]), "bar %d lacks a full window", i)
	}
	for i := 13; i < n; i++ {
		require.False(t, math.IsNaN(ci[i]), "bar %d", i)
		assert.GreaterOrEqual(t, ci[i], 0.0)
		assert.LessOrEqual(t, ci[i], 100.0)
	}
}

func TestChoppinessUndefinedOnFlatWindow(t *testing.T) {
	n := 20
	flat := make([]float64, n)
	for i := range flat {
		flat[i] = 100
	}
	ci := Choppiness(flat, flat, flat, 14)
	require.Len(t, ci, n)
	for i := range ci {
		assert.True(t, math.IsNaN(ci[i]), "flat window must be NaN, not zero (bar %d)", i)
	}
}

func TestChoppinessDistinguishesTrendFromChop(t *testing.T) {
	n := 40
	mkTrend := func() ([]float64, []float64, []float64) {
		h := make([]float64, n)
		l := make([]float64, n)
		c := make([]float64, n)
		for i := 0; i < n; i++ {
			base := 100 + 3*float64(i)
			h[i], l[i], c[i] = base+1, base-1, base
		}
		return h, l, c
	}
	mkChop := func() ([]float64, []float64, []float64) {
		h := make([]float64, n)
		l := make([]float64, n)
		c := make([]float64, n)
		for i := 0; i < n; i++ {
			base := 100.0
			if i%2 == 0 {
				base = 104
			}
			h[i], l[i], c[i] = base+1, base-1, base
		}
		return h, l, c
	}

	th, tl, tc := mkTrend()
	ch, cl, cc := mkChop()
	trending := Last(Choppiness(th, tl, tc, 14))
	choppy := Last(Choppiness(ch, cl, cc, 14))

	require.False(t, math.IsNaN(trending))
	require.False(t, math.IsNaN(choppy))
	assert.Less(t, trending, choppy)
}

func TestLast(t *testing.T) {
	assert.True(t, math.IsNaN(Last(nil)))
	assert.Equal(t, 3.0, Last([]float64{1, 2, 3}))
}
