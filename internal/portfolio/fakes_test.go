package portfolio

import (
	"context"
	"strings"
	"time"

	"github.com/screenerlabs/equityscreener/internal/contracts"
)

func fp(v float64) *float64 { return &v }

type memPortfolioRepo struct {
	nextID   int64
	holdings []*contracts.Holding
}

func (m *memPortfolioRepo) Add(_ context.Context, h *contracts.Holding) error {
	for _, e := range m.holdings {
		if e.Ticker == h.Ticker && e.Quantity == h.Quantity &&
			e.PurchasePrice == h.PurchasePrice && e.PurchaseDate.Equal(h.PurchaseDate) {
			return contracts.ErrDuplicateHolding
		}
	}
	m.nextID++
	h.ID = m.nextID
	cp := *h
	m.holdings = append(m.holdings, &cp)
	return nil
}

func (m *memPortfolioRepo) Remove(_ context.Context, id int64) error {
	for i, h := range m.holdings {
		if h.ID == id {
			m.holdings = append(m.holdings[:i], m.holdings[i+1:]...)
			return nil
		}
	}
	return contracts.ErrNotFound
}

func (m *memPortfolioRepo) List(_ context.Context) ([]*contracts.Holding, error) {
	out := make([]*contracts.Holding, len(m.holdings))
	for i, h := range m.holdings {
		cp := *h
		out[i] = &cp
	}
	return out, nil
}

func (m *memPortfolioRepo) UpdatePrice(_ context.Context, ticker string, price float64) error {
	for _, h := range m.holdings {
		if h.Ticker == ticker {
			p := price
			h.CurrentPrice = &p
		}
	}
	return nil
}

type memWatchRepo struct {
	entries []*contracts.WatchlistEntry
}

func (m *memWatchRepo) Add(_ context.Context, e *contracts.WatchlistEntry) error {
	for _, x := range m.entries {
		if x.Ticker == e.Ticker {
			return nil
		}
	}
	cp := *e
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *memWatchRepo) Remove(_ context.Context, ticker string) error {
	for i, x := range m.entries {
		if x.Ticker == ticker {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return contracts.ErrNotFound
}

func (m *memWatchRepo) List(_ context.Context) ([]*contracts.WatchlistEntry, error) {
	out := make([]*contracts.WatchlistEntry, len(m.entries))
	for i, e := range m.entries {
		cp := *e
		out[i] = &cp
	}
	return out, nil
}

type memCompanies struct {
	byTicker map[string]*contracts.Company
}

func (m *memCompanies) Upsert(_ context.Context, c *contracts.Company) error {
	if m.byTicker == nil {
		m.byTicker = map[string]*contracts.Company{}
	}
	m.byTicker[c.Ticker] = c
	return nil
}

func (m *memCompanies) Get(_ context.Context, ticker string) (*contracts.Company, error) {
	if c, ok := m.byTicker[ticker]; ok {
		return c, nil
	}
	return nil, contracts.ErrNotFound
}

func (m *memCompanies) List(_ context.Context) ([]*contracts.Company, error) {
	var out []*contracts.Company
	for _, c := range m.byTicker {
		out = append(out, c)
	}
	return out, nil
}

func (m *memCompanies) AllTickers(_ context.Context) ([]string, error) {
	var out []string
	for t := range m.byTicker {
		out = append(out, t)
	}
	return out, nil
}

func (m *memCompanies) Sectors(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, c := range m.byTicker {
		if c.Sector != "" && !seen[c.Sector] {
			seen[c.Sector] = true
			out = append(out, c.Sector)
		}
	}
	return out, nil
}

type quoteMarket struct {
	prices map[string]float64
	calls  int
}

func (m *quoteMarket) Quote(_ context.Context, ticker string) (*contracts.Quote, error) {
	m.calls++
	p, ok := m.prices[strings.ToUpper(ticker)]
	if !ok {
		return nil, contracts.ErrNoData
	}
	return &contracts.Quote{Ticker: ticker, Price: p, AsOf: time.Now()}, nil
}

func (m *quoteMarket) History(context.Context, string, time.Time, time.Time) ([]contracts.PriceBar, error) {
	return nil, contracts.ErrNoData
}

func (m *quoteMarket) Profile(context.Context, string) (*contracts.CompanyProfile, error) {
	return nil, contracts.ErrNoData
}

func (m *quoteMarket) Fundamentals(context.Context, string) (*contracts.FundamentalSnapshot, error) {
	return nil, contracts.ErrNoData
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }
