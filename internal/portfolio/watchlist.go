package portfolio

import (
	"context"
	"strings"

	"github.com/screenerlabs/equityscreener/internal/contracts"
	"github.com/screenerlabs/equityscreener/pkg/logger"
)

// Watchlist manages watched tickers.
type Watchlist struct {
	repo      contracts.WatchlistRepository
	companies contracts.CompanyRepository
	market    contracts.MarketDataProvider
	clock     contracts.Clock
	logger    *logger.Logger
}

// NewWatchlist creates a watchlist service.
func NewWatchlist(repo contracts.WatchlistRepository, companies contracts.CompanyRepository, market contracts.MarketDataProvider, clock contracts.Clock, log *logger.Logger) *Watchlist {
	return &Watchlist{
		repo:      repo,
		companies: companies,
		market:    market,
		clock:     clock,
		logger:    log,
	}
}

// Add puts a ticker on the watchlist. Adding an already watched ticker is a
// no-op. The company name and sector are filled from the instrument master
// when not supplied.
func (w *Watchlist) Add(ctx context.Context, e *contracts.WatchlistEntry) error {
	e.Ticker = strings.ToUpper(strings.TrimSpace(e.Ticker))
	if e.Ticker == "" {
		return &contracts.ValidationError{Field: "ticker", Reason: "ticker is required"}
	}
	if e.TargetPrice != nil && *e.TargetPrice <= 0 {
		return &contracts.ValidationError{Field: "target_price", Reason: "target price must be positive"}
	}
	if e.AddedDate.IsZero() {
		e.AddedDate = w.clock.Now()
	}

	if e.CompanyName == "" || e.Sector == "" {
		if c, err := w.companies.Get(ctx, e.Ticker); err == nil {
			if e.CompanyName == "" {
				e.CompanyName = c.CompanyName
			}
			if e.Sector == "" {
				e.Sector = c.Sector
			}
		}
	}

	return w.repo.Add(ctx, e)
}

// Remove drops a ticker from the watchlist.
func (w *Watchlist) Remove(ctx context.Context, ticker string) error {
	return w.repo.Remove(ctx, strings.ToUpper(strings.TrimSpace(ticker)))
}

// List returns the watchlist enriched with live quotes and the upside to each
// target price. Quote failures leave the entry unpriced rather than failing
// the list.
func (w *Watchlist) List(ctx context.Context) ([]*contracts.WatchlistEntry, error) {
	entries, err := w.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		q, qErr := w.market.Quote(ctx, e.Ticker)
		if qErr != nil {
			w.logger.WithError(qErr).WithField("ticker", e.Ticker).Debug("Quote failed")
			continue
		}
		price := q.Price
		e.CurrentPrice = &price
		if e.TargetPrice != nil && price > 0 {
			upside := (*e.TargetPrice - price) / price * 100
			e.UpsidePct = &upside
		}
	}
	return entries, nil
}
