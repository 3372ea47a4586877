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

func newTestWatchlist(repo *memWatchRepo, market *quoteMarket) *Watchlist {
	companies := &memCompanies{byTicker: map[string]*contracts.Company{
		"TICK": {Ticker: "TICK", CompanyName: "Tick Industries", Sector: "Industrials"},
	}}
	clock := fixedClock{t: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)}
	return NewWatchlist(repo, companies, market, clock, logger.Nop())
}

func TestWatchlistAddIsIdempotent(t *testing.T) {
	repo := &memWatchRepo{}
	wl := newTestWatchlist(repo, &quoteMarket{})

	require.NoError(t, wl.Add(context.Background(), &contracts.WatchlistEntry{Ticker: "TICK", Notes: "first"}))
	require.NoError(t, wl.Add(context.Background(), &contracts.WatchlistEntry{Ticker: "tick", Notes: "second"}))

	require.Len(t, repo.entries, 1)
	assert.Equal(t, "first", repo.entries[0].Notes, "existing entry untouched")
	assert.Equal(t, "Tick Industries", repo.entries[0].CompanyName)
	assert.Equal(t, "Industrials", repo.entries[0].Sector)
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), repo.entries[0].AddedDate)
}

func TestWatchlistAddValidation(t *testing.T) {
	wl := newTestWatchlist(&memWatchRepo{}, &quoteMarket{})

	err := wl.Add(context.Background(), &contracts.WatchlistEntry{})
	assert.True(t, contracts.IsValidation(err))

	err = wl.Add(context.Background(), &contracts.WatchlistEntry{Ticker: "TICK", TargetPrice: fp(-10)})
	assert.True(t, contracts.IsValidation(err))
}

func TestWatchlistListComputesUpside(t *testing.T) {
	repo := &memWatchRepo{}
	market := &quoteMarket{prices: map[string]float64{"TICK": 100}}
	wl := newTestWatchlist(repo, market)

	require.NoError(t, wl.Add(context.Background(), &contracts.WatchlistEntry{Ticker: "TICK", TargetPrice: fp(125)}))
	require.NoError(t, wl.Add(context.Background(), &contracts.WatchlistEntry{Ticker: "GHOST", TargetPrice: fp(50)}))

	entries, err := wl.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.NotNil(t, entries[0].CurrentPrice)
	assert.Equal(t, 100.0, *entries[0].CurrentPrice)
	require.NotNil(t, entries[0].UpsidePct)
	assert.InDelta(t, 25.0, *entries[0].UpsidePct, 1e-9)

	// Quote failure leaves the entry unpriced.
	assert.Nil(t, entries[1].CurrentPrice)
	assert.Nil(t, entries[1].UpsidePct)
}

func TestWatchlistRemove(t *testing.T) {
	repo := &memWatchRepo{}
	wl := newTestWatchlist(repo, &quoteMarket{})

	require.NoError(t, wl.Add(context.Background(), &contracts.WatchlistEntry{Ticker: "TICK"}))
	require.NoError(t, wl.Remove(context.Background(), "tick"))
	assert.Empty(t, repo.entries)

	err := wl.Remove(context.Background(), "TICK")
	assert.ErrorIs(t, err, contracts.ErrNotFound)
}
