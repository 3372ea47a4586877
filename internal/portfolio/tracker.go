// Package portfolio tracks holdings and the watchlist.
package portfolio

import (
	"context"
	"strings"

	"github.com/screenerlabs/equityscreener/internal/contracts"
	"github.com/screenerlabs/equityscreener/pkg/logger"
)

// Tracker manages portfolio holdings.
type Tracker struct {
	repo      contracts.PortfolioRepository
	companies contracts.CompanyRepository
	market    contracts.MarketDataProvider
	clock     contracts.Clock
	logger    *logger.Logger
}

// NewTracker creates a holdings tracker.
func NewTracker(repo contracts.PortfolioRepository, companies contracts.CompanyRepository, market contracts.MarketDataProvider, clock contracts.Clock, log *logger.Logger) *Tracker {
	return &Tracker{
		repo:      repo,
		companies: companies,
		market:    market,
		clock:     clock,
		logger:    log,
	}
}

// Add records a new holding. A holding identical in ticker, quantity,
// purchase price and purchase date to an existing one fails with
// ErrDuplicateHolding. The company name is filled from the instrument
// master when not supplied.
func (t *Tracker) Add(ctx context.Context, h *contracts.Holding) error {
	h.Ticker = strings.ToUpper(strings.TrimSpace(h.Ticker))
	if h.Ticker == "" {
		return &contracts.ValidationError{Field: "ticker", Reason: "ticker is required"}
	}
	if h.Quantity <= 0 {
		return &contracts.ValidationError{Field: "quantity", Reason: "quantity must be positive"}
	}
	if h.PurchasePrice <= 0 {
		return &contracts.ValidationError{Field: "purchase_price", Reason: "purchase price must be positive"}
	}
	if h.PurchaseDate.IsZero() {
		h.PurchaseDate = t.clock.Now()
	}

	if h.CompanyName == "" {
		if c, err := t.companies.Get(ctx, h.Ticker); err == nil {
			h.CompanyName = c.CompanyName
		}
	}

	if err := t.repo.Add(ctx, h); err != nil {
		return err
	}
	t.logger.WithFields(map[string]interface{}{
		"ticker":   h.Ticker,
		"quantity": h.Quantity,
	}).Info("Holding added")
	return nil
}

// Remove deletes a holding by id.
func (t *Tracker) Remove(ctx context.Context, id int64) error {
	return t.repo.Remove(ctx, id)
}

// List returns all holdings with their joined latest metrics.
func (t *Tracker) List(ctx context.Context) ([]*contracts.Holding, error) {
	return t.repo.List(ctx)
}

// RefreshPrices re-quotes every held ticker and stores the latest price.
// Per-ticker quote failures are counted and logged; the refresh continues.
func (t *Tracker) RefreshPrices(ctx context.Context) (updated, failed int, err error) {
	holdings, err := t.repo.List(ctx)
	if err != nil {
		return 0, 0, err
	}

	seen := make(map[string]bool)
	for _, h := range holdings {
		if seen[h.Ticker] {
			continue
		}
		seen[h.Ticker] = true

		q, qErr := t.market.Quote(ctx, h.Ticker)
		if qErr != nil {
			failed++
			t.logger.WithError(qErr).WithField("ticker", h.Ticker).Warn("Quote failed")
			continue
		}
		if uErr := t.repo.UpdatePrice(ctx, h.Ticker, q.Price); uErr != nil {
			failed++
			t.logger.WithError(uErr).WithField("ticker", h.Ticker).Warn("Price update failed")
			continue
		}
		updated++
	}
	return updated, failed, nil
}

// Summary aggregates all holdings into portfolio-level P&L. A holding with no
// refreshed price is valued at its purchase price. Best and worst performers
// rank by percentage return and need at least one priced holding.
func (t *Tracker) Summary(ctx context.Context) (*contracts.PortfolioSummary, error) {
	holdings, err := t.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	s := &contracts.PortfolioSummary{TotalHoldings: len(holdings)}
	var bestRet, worstRet float64
	for _, h := range holdings {
		invested := h.Quantity * h.PurchasePrice
		s.TotalInvested += invested

		current := h.PurchasePrice
		if h.CurrentPrice != nil {
			current = *h.CurrentPrice
		}
		s.CurrentValue += h.Quantity * current

		if r := h.ReturnPct(); r != nil {
			if s.BestPerformer == "" || *r > bestRet {
				bestRet = *r
				s.BestPerformer = h.Ticker
			}
			if s.WorstPerformer == "" || *r < worstRet {
				worstRet = *r
				s.WorstPerformer = h.Ticker
			}
		}
	}

	s.TotalPnL = s.CurrentValue - s.TotalInvested
	if s.TotalInvested > 0 {
		s.TotalReturnPct = s.TotalPnL / s.TotalInvested * 100
	}
	return s, nil
}
