package portfolio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenerlabs/equityscreener/internal/contracts"
	"github.com/screenerlabs/equityscreener/pkg/logger"
)

func newTestTracker(repo *memPortfolioRepo, market *quoteMarket) *Tracker {
	companies := &memCompanies{byTicker: map[string]*contracts.Company{
		"TICK": {Ticker: "TICK", CompanyName: "Tick Industries", Sector: "Industrials"},
	}}
	clock := fixedClock{t: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)}
	return NewTracker(repo, companies, market, clock, logger.Nop())
}

func TestAddRejectsExactDuplicate(t *testing.T) {
	repo := &memPortfolioRepo{}
	tracker := newTestTracker(repo, &quoteMarket{})
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	first := &contracts.Holding{Ticker: "TICK", Quantity: 10, PurchasePrice: 100, PurchaseDate: date}
	require.NoError(t, tracker.Add(context.Background(), first))

	dup := &contracts.Holding{Ticker: "TICK", Quantity: 10, PurchasePrice: 100, PurchaseDate: date}
	err := tracker.Add(context.Background(), dup)
	assert.ErrorIs(t, err, contracts.ErrDuplicateHolding)

	// A distinct price on the same date is a separate lot.
	lot := &contracts.Holding{Ticker: "TICK", Quantity: 10, PurchasePrice: 101, PurchaseDate: date}
	require.NoError(t, tracker.Add(context.Background(), lot))

	holdings, err := tracker.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, holdings, 2)
}

func TestAddValidatesAndFillsDefaults(t *testing.T) {
	repo := &memPortfolioRepo{}
	tracker := newTestTracker(repo, &quoteMarket{})

	err := tracker.Add(context.Background(), &contracts.Holding{Quantity: 1, PurchasePrice: 1})
	assert.True(t, contracts.IsValidation(err), "missing ticker")

	err = tracker.Add(context.Background(), &contracts.Holding{Ticker: "TICK", Quantity: 0, PurchasePrice: 1})
	assert.True(t, contracts.IsValidation(err), "zero quantity")

	err = tracker.Add(context.Background(), &contracts.Holding{Ticker: "TICK", Quantity: 1, PurchasePrice: -5})
	assert.True(t, contracts.IsValidation(err), "negative price")

	h := &contracts.Holding{Ticker: " tick ", Quantity: 5, PurchasePrice: 90}
	require.NoError(t, tracker.Add(context.Background(), h))
	assert.Equal(t, "TICK", h.Ticker, "normalized")
	assert.Equal(t, "Tick Industries", h.CompanyName, "filled from instrument master")
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), h.PurchaseDate, "defaulted to today")
}

func TestRemove(t *testing.T) {
	repo := &memPortfolioRepo{}
	tracker := newTestTracker(repo, &quoteMarket{})

	h := &contracts.Holding{Ticker: "TICK", Quantity: 1, PurchasePrice: 10}
	require.NoError(t, tracker.Add(context.Background(), h))
	require.NoError(t, tracker.Remove(context.Background(), h.ID))

	err := tracker.Remove(context.Background(), h.ID)
	assert.ErrorIs(t, err, contracts.ErrNotFound)
}

func TestRefreshPricesBestEffort(t *testing.T) {
	repo := &memPortfolioRepo{}
	market := &quoteMarket{prices: map[string]float64{"TICK": 120}}
	tracker := newTestTracker(repo, market)

	require.NoError(t, tracker.Add(context.Background(), &contracts.Holding{Ticker: "TICK", Quantity: 10, PurchasePrice: 100}))
	require.NoError(t, tracker.Add(context.Background(), &contracts.Holding{Ticker: "TICK", Quantity: 5, PurchasePrice: 110}))
	require.NoError(t, tracker.Add(context.Background(), &contracts.Holding{Ticker: "GHOST", Quantity: 1, PurchasePrice: 50}))

	updated, failed, err := tracker.RefreshPrices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 2, market.calls, "each distinct ticker quoted once")

	holdings, err := tracker.List(context.Background())
	require.NoError(t, err)
	for _, h := range holdings {
		if h.Ticker == "TICK" {
			require.NotNil(t, h.CurrentPrice)
			assert.Equal(t, 120.0, *h.CurrentPrice)
		} else {
			assert.Nil(t, h.CurrentPrice)
		}
	}
}

func TestSummary(t *testing.T) {
	repo := &memPortfolioRepo{}
	market := &quoteMarket{prices: map[string]float64{"WIN": 150, "LOSE": 80}}
	tracker := newTestTracker(repo, market)

	require.NoError(t, tracker.Add(context.Background(), &contracts.Holding{Ticker: "WIN", Quantity: 10, PurchasePrice: 100}))
	require.NoError(t, tracker.Add(context.Background(), &contracts.Holding{Ticker: "LOSE", Quantity: 10, PurchasePrice: 100}))
	require.NoError(t, tracker.Add(context.Background(), &contracts.Holding{Ticker: "GHOST", Quantity: 10, PurchasePrice: 100}))

	_, _, err := tracker.RefreshPrices(context.Background())
	require.NoError(t, err)

	s, err := tracker.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, s.TotalHoldings)
	assert.InDelta(t, 3000.0, s.TotalInvested, 1e-9)
	// WIN 1500 + LOSE 800 + GHOST valued at purchase 1000.
	assert.InDelta(t, 3300.0, s.CurrentValue, 1e-9)
	assert.InDelta(t, 300.0, s.TotalPnL, 1e-9)
	assert.InDelta(t, 10.0, s.TotalReturnPct, 1e-9)
	assert.Equal(t, "WIN", s.BestPerformer)
	assert.Equal(t, "LOSE", s.WorstPerformer)
}

func TestSummaryEmptyPortfolio(t *testing.T) {
	tracker := newTestTracker(&memPortfolioRepo{}, &quoteMarket{})

	s, err := tracker.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, s.TotalHoldings)
	assert.Zero(t, s.TotalInvested)
	assert.Zero(t, s.TotalReturnPct)
	assert.Empty(t, s.BestPerformer)
}
