package market

import (
	"context"
	"fmt"
	"time"

	"github.com/screenerlabs/equityscreener/internal/contracts"
	"github.com/screenerlabs/equityscreener/pkg/cache"
)

// Cache TTLs. Quotes move intraday; everything else changes at most daily.
const (
	quoteTTL       = time.Minute
	historyTTL     = time.Hour
	profileTTL     = 24 * time.Hour
	fundamentalTTL = 6 * time.Hour
	statementsTTL  = 24 * time.Hour
)

// Source is the full upstream surface the cache can sit in front of.
type Source interface {
	contracts.MarketDataProvider
	AnnualStatements(ctx context.Context, ticker string) ([]contracts.AnnualStatement, error)
}

// Cached decorates a provider with Redis-backed caching. With Redis disabled
// every call passes straight through, so it is always safe to wire.
type Cached struct {
	source Source
	cache  *cache.Cache
}

// NewCached wraps a provider with the shared cache.
func NewCached(source Source, c *cache.Cache) *Cached {
	return &Cached{source: source, cache: c}
}

func (c *Cached) Quote(ctx context.Context, ticker string) (*contracts.Quote, error) {
	var q contracts.Quote
	err := c.cache.GetOrSet(ctx, "quote:"+ticker, &q, quoteTTL, func() (interface{}, error) {
		return c.source.Quote(ctx, ticker)
	})
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (c *Cached) History(ctx context.Context, ticker string, from, to time.Time) ([]contracts.PriceBar, error) {
	key := fmt.Sprintf("history:%s:%s:%s", ticker, from.Format("2006-01-02"), to.Format("2006-01-02"))
	var bars []contracts.PriceBar
	err := c.cache.GetOrSet(ctx, key, &bars, historyTTL, func() (interface{}, error) {
		return c.source.History(ctx, ticker, from, to)
	})
	if err != nil {
		return nil, err
	}
	return bars, nil
}

func (c *Cached) Profile(ctx context.Context, ticker string) (*contracts.CompanyProfile, error) {
	var p contracts.CompanyProfile
	err := c.cache.GetOrSet(ctx, "profile:"+ticker, &p, profileTTL, func() (interface{}, error) {
		return c.source.Profile(ctx, ticker)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Cached) Fundamentals(ctx context.Context, ticker string) (*contracts.FundamentalSnapshot, error) {
	var f contracts.FundamentalSnapshot
	err := c.cache.GetOrSet(ctx, "fundamentals:"+ticker, &f, fundamentalTTL, func() (interface{}, error) {
		return c.source.Fundamentals(ctx, ticker)
	})
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Cached) AnnualStatements(ctx context.Context, ticker string) ([]contracts.AnnualStatement, error) {
	var stmts []contracts.AnnualStatement
	err := c.cache.GetOrSet(ctx, "statements:"+ticker, &stmts, statementsTTL, func() (interface{}, error) {
		return c.source.AnnualStatements(ctx, ticker)
	})
	if err != nil {
		return nil, err
	}
	return stmts, nil
}
