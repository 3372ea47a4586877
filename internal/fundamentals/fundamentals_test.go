package fundamentals

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentageRatios(t *testing.T) {
	assert.InDelta(t, 20.0, ROE(200, 1000), 1e-9)
	assert.InDelta(t, 25.0, ROCE(250, 1000), 1e-9)
	assert.InDelta(t, 18.0, OPM(90, 500), 1e-9)
	assert.InDelta(t, 12.0, NPM(60, 500), 1e-9)

	assert.True(t, math.IsNaN(ROE(200, 0)), "zero equity")
	assert.True(t, math.IsNaN(OPM(90, math.NaN())), "missing revenue")
}

func TestPlainRatios(t *testing.T) {
	assert.InDelta(t, 0.5, DebtEquity(500, 1000), 1e-9)
	assert.InDelta(t, 2.0, CurrentRatio(400, 200), 1e-9)
	assert.InDelta(t, 3.5, PriceToBook(700, 200), 1e-9)
	assert.InDelta(t, 21.0, PriceToEarnings(420, 20), 1e-9)
	assert.InDelta(t, 8.0, EVEBITDA(4000, 500), 1e-9)
	assert.InDelta(t, 1.25, AssetTurnover(500, 400), 1e-9)

	assert.True(t, math.IsNaN(PriceToEarnings(420, 0)), "zero eps")
}

func TestInterestCoverage(t *testing.T) {
	assert.InDelta(t, 5.0, InterestCoverage(500, 100), 1e-9)

	// Debt-free with positive EBIT: coverage is unbounded.
	assert.True(t, math.IsInf(InterestCoverage(500, 0), 1))
	// Zero interest and non-positive EBIT: undefined.
	assert.True(t, math.IsNaN(InterestCoverage(0, 0)))
	assert.True(t, math.IsNaN(InterestCoverage(-50, 0)))
	assert.True(t, math.IsNaN(InterestCoverage(math.NaN(), 0)))
}

func TestCAGR(t *testing.T) {
	// Doubling over 3 years: 2^(1/3)-1.
	assert.InDelta(t, (math.Pow(2, 1.0/3)-1)*100, CAGR(100, 200, 3), 1e-9)
	assert.InDelta(t, 0.0, CAGR(100, 100, 5), 1e-9)

	assert.True(t, math.IsNaN(CAGR(0, 200, 3)), "zero start")
	assert.True(t, math.IsNaN(CAGR(-10, 200, 3)), "negative start")
	assert.True(t, math.IsNaN(CAGR(100, 200, 0)), "zero periods")
}

func TestGrowthRates(t *testing.T) {
	assert.InDelta(t, 25.0, GrowthRate(100, 125), 1e-9)
	assert.InDelta(t, -20.0, GrowthRate(100, 80), 1e-9)
	assert.InDelta(t, 25.0, YoYGrowth(125, 100), 1e-9)
	assert.True(t, math.IsNaN(GrowthRate(0, 125)))
}

func TestAltmanZScore(t *testing.T) {
	in := AltmanZInputs{
		WorkingCapital:    200,
		RetainedEarnings:  300,
		EBIT:              150,
		MarketValueEquity: 2000,
		Sales:             1200,
		TotalAssets:       1000,
		TotalLiabilities:  500,
	}
	want := 1.2*0.2 + 1.4*0.3 + 3.3*0.15 + 0.6*4.0 + 1.0*1.2
	assert.InDelta(t, want, AltmanZScore(in), 1e-9)

	// A healthy balance sheet like this sits in the safe zone.
	require.Greater(t, AltmanZScore(in), 2.99)
}

func TestAltmanZScoreMissingInputs(t *testing.T) {
	base := AltmanZInputs{
		EBIT: 150, MarketValueEquity: 2000, Sales: 1200,
		TotalAssets: 1000, TotalLiabilities: 500,
	}

	noAssets := base
	noAssets.TotalAssets = 0
	assert.True(t, math.IsNaN(AltmanZScore(noAssets)))

	noLiabilities := base
	noLiabilities.TotalLiabilities = 0
	assert.True(t, math.IsNaN(AltmanZScore(noLiabilities)))

	// A NaN component drops out instead of poisoning the score.
	partial := base
	partial.RetainedEarnings = math.NaN()
	got := AltmanZScore(partial)
	require.False(t, math.IsNaN(got))
	assert.InDelta(t, 3.3*0.15+0.6*4.0+1.0*1.2, got, 1e-9)
}

func TestOCFToNetProfit(t *testing.T) {
	assert.InDelta(t, 1.1, OCFToNetProfit(110, 100), 1e-9)
	assert.True(t, math.IsNaN(OCFToNetProfit(110, 0)))
}
