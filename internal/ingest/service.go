// Package ingest refreshes company and metric data from the market data
// provider. Derived, growth and quality metrics are recomputed on every
// refresh and appended as new snapshots.
package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/screenerlabs/equityscreener/internal/contracts"
	"github.com/screenerlabs/equityscreener/internal/fundamentals"
	"github.com/screenerlabs/equityscreener/pkg/logger"
)

// DataSource is what the refresh needs from the market side. The Yahoo client
// satisfies it.
type DataSource interface {
	Fundamentals(ctx context.Context, ticker string) (*contracts.FundamentalSnapshot, error)
	Profile(ctx context.Context, ticker string) (*contracts.CompanyProfile, error)
	AnnualStatements(ctx context.Context, ticker string) ([]contracts.AnnualStatement, error)
}

// TickerError records one failed ticker in a refresh batch.
type TickerError struct {
	Ticker string `json:"ticker"`
	Err    string `json:"error"`
}

// Result is the tally of one refresh batch.
type Result struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Errors    []TickerError `json:"errors,omitempty"`
}

// Status maps the tally onto an audit status.
func (r *Result) Status() string {
	switch {
	case r.Failed == 0:
		return "success"
	case r.Succeeded > 0:
		return "partial"
	default:
		return "failure"
	}
}

// Service runs bulk data refreshes with bounded concurrency.
type Service struct {
	companies contracts.CompanyRepository
	snapshots contracts.SnapshotRepository
	source    DataSource
	audit     contracts.AuditLogger
	clock     contracts.Clock
	workers   int
	logger    *logger.Logger
}

// NewService creates a refresh service.
func NewService(companies contracts.CompanyRepository, snapshots contracts.SnapshotRepository, source DataSource, audit contracts.AuditLogger, clock contracts.Clock, workers int, log *logger.Logger) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		companies: companies,
		snapshots: snapshots,
		source:    source,
		audit:     audit,
		clock:     clock,
		workers:   workers,
		logger:    log,
	}
}

// Refresh updates every given ticker, or the whole instrument master when
// none are given. Per-ticker failures are collected and reported in the
// result; the batch never aborts on one bad ticker. The tally is recorded to
// the audit log.
func (s *Service) Refresh(ctx context.Context, tickers []string) (*Result, error) {
	if len(tickers) == 0 {
		var err error
		tickers, err = s.companies.AllTickers(ctx)
		if err != nil {
			return nil, fmt.Errorf("list tickers: %w", err)
		}
	}

	result := &Result{Total: len(tickers)}
	var mu sync.Mutex

	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup
	for _, ticker := range tickers {
		if ctx.Err() != nil {
			mu.Lock()
			result.Failed++
			result.Errors = append(result.Errors, TickerError{Ticker: ticker, Err: ctx.Err().Error()})
			mu.Unlock()
			continue
		}
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			err := s.refreshOne(ctx, ticker)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				result.Errors = append(result.Errors, TickerError{Ticker: ticker, Err: err.Error()})
				s.logger.WithError(err).WithField("ticker", ticker).Warn("Refresh failed")
				return
			}
			result.Succeeded++
		}(ticker)
	}
	wg.Wait()

	s.audit.Log(ctx, "data_update",
		fmt.Sprintf("total=%d ok=%d failed=%d", result.Total, result.Succeeded, result.Failed),
		result.Status())
	s.logger.WithFields(map[string]interface{}{
		"total":  result.Total,
		"ok":     result.Succeeded,
		"failed": result.Failed,
	}).Info("Data refresh finished")

	return result, nil
}

// refreshOne fetches, computes and persists all snapshots for one ticker.
// A fundamentals fetch failure fails the ticker; profile and statement
// history are best-effort enrichment.
func (s *Service) refreshOne(ctx context.Context, ticker string) error {
	fund, err := s.source.Fundamentals(ctx, ticker)
	if err != nil {
		return err
	}
	now := s.clock.Now()
	fund.Ticker = ticker
	fund.AsOfDate = now

	company := &contracts.Company{
		Ticker:      ticker,
		CompanyName: ticker,
		MarketCap:   fund.MarketCap,
		Exchange:    "NSE",
	}
	if profile, pErr := s.source.Profile(ctx, ticker); pErr == nil {
		if profile.Name != "" {
			company.CompanyName = profile.Name
		}
		company.Sector = profile.Sector
		company.Industry = profile.Industry
	} else {
		s.logger.WithError(pErr).WithField("ticker", ticker).Debug("Profile fetch failed")
	}
	if err := s.companies.Upsert(ctx, company); err != nil {
		return &contracts.PersistenceError{Op: "upsert company", Err: err}
	}

	if err := s.snapshots.AppendFundamentals(ctx, fund); err != nil {
		return &contracts.PersistenceError{Op: "append fundamentals", Err: err}
	}
	if err := s.snapshots.AppendDerived(ctx, buildDerived(fund)); err != nil {
		return &contracts.PersistenceError{Op: "append derived", Err: err}
	}
	if err := s.snapshots.AppendQuality(ctx, buildQuality(fund)); err != nil {
		return &contracts.PersistenceError{Op: "append quality", Err: err}
	}

	stmts, sErr := s.source.AnnualStatements(ctx, ticker)
	if sErr != nil {
		s.logger.WithError(sErr).WithField("ticker", ticker).Debug("Statement history unavailable")
		return nil
	}
	if err := s.snapshots.AppendGrowth(ctx, buildGrowth(ticker, now, stmts)); err != nil {
		return &contracts.PersistenceError{Op: "append growth", Err: err}
	}
	return nil
}

func buildDerived(f *contracts.FundamentalSnapshot) *contracts.DerivedSnapshot {
	equity := contracts.Val(f.TotalEquity)
	debt := contracts.Val(f.TotalDebt)
	ebit := contracts.Val(f.OperatingProfit)
	revenue := contracts.Val(f.Revenue)
	netProfit := contracts.Val(f.NetProfit)

	return &contracts.DerivedSnapshot{
		Ticker:           f.Ticker,
		AsOfDate:         f.AsOfDate,
		PriceToBook:      contracts.Num(fundamentals.PriceToBook(contracts.Val(f.Price), contracts.Val(f.BookValue))),
		PriceToEarnings:  contracts.Num(fundamentals.PriceToEarnings(contracts.Val(f.MarketCap), netProfit)),
		EVEBITDA:         contracts.Num(fundamentals.EVEBITDA(contracts.Val(f.EnterpriseValue), contracts.Val(f.EBITDA))),
		ROE:              contracts.Num(fundamentals.ROE(netProfit, equity)),
		ROCE:             contracts.Num(fundamentals.ROCE(ebit, equity+debt)),
		DebtEquity:       contracts.Num(fundamentals.DebtEquity(debt, equity)),
		CurrentRatio:     contracts.Num(fundamentals.CurrentRatio(contracts.Val(f.CurrentAssets), contracts.Val(f.CurrentLiabilities))),
		InterestCoverage: contracts.Num(fundamentals.InterestCoverage(ebit, contracts.Val(f.InterestExpense))),
		OPM:              contracts.Num(fundamentals.OPM(ebit, revenue)),
		NPM:              contracts.Num(fundamentals.NPM(netProfit, revenue)),
		AssetTurnover:    contracts.Num(fundamentals.AssetTurnover(revenue, contracts.Val(f.TotalAssets))),
	}
}

func buildQuality(f *contracts.FundamentalSnapshot) *contracts.QualitySnapshot {
	totalAssets := contracts.Val(f.TotalAssets)
	equity := contracts.Val(f.TotalEquity)

	z := fundamentals.AltmanZScore(fundamentals.AltmanZInputs{
		WorkingCapital: contracts.Val(f.CurrentAssets) - contracts.Val(f.CurrentLiabilities),
		// Retained earnings are not reported separately; the term drops out.
		RetainedEarnings:  0,
		EBIT:              contracts.Val(f.OperatingProfit),
		MarketValueEquity: contracts.Val(f.MarketCap),
		Sales:             contracts.Val(f.Revenue),
		TotalAssets:       totalAssets,
		TotalLiabilities:  totalAssets - equity,
	})

	return &contracts.QualitySnapshot{
		Ticker:         f.Ticker,
		AsOfDate:       f.AsOfDate,
		AltmanZScore:   contracts.Num(z),
		OCFToNetProfit: contracts.Num(fundamentals.OCFToNetProfit(contracts.Val(f.OperatingCashFlow), contracts.Val(f.NetProfit))),
	}
}

// buildGrowth computes CAGRs from annual statements ordered newest first.
// A 3-year CAGR needs four fiscal years; Yahoo rarely reports six, so the
// 5-year figures stay nil until enough history accumulates.
func buildGrowth(ticker string, asOf time.Time, stmts []contracts.AnnualStatement) *contracts.GrowthSnapshot {
	g := &contracts.GrowthSnapshot{Ticker: ticker, AsOfDate: asOf}

	cagr := func(field func(contracts.AnnualStatement) *float64, years int) *float64 {
		if len(stmts) <= years {
			return nil
		}
		start := contracts.Val(field(stmts[years]))
		end := contracts.Val(field(stmts[0]))
		return contracts.Num(fundamentals.CAGR(start, end, years))
	}

	revenue := func(s contracts.AnnualStatement) *float64 { return s.Revenue }
	profit := func(s contracts.AnnualStatement) *float64 { return s.NetProfit }
	ocf := func(s contracts.AnnualStatement) *float64 { return s.OperatingCashFlow }

	g.RevenueCAGR3Y = cagr(revenue, 3)
	g.RevenueCAGR5Y = cagr(revenue, 5)
	g.ProfitCAGR3Y = cagr(profit, 3)
	g.ProfitCAGR5Y = cagr(profit, 5)
	g.OCFCAGR3Y = cagr(ocf, 3)
	return g
}
