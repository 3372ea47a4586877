package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/screenerlabs/equityscreener/internal/contracts"
)

// SnapshotRepo implements contracts.SnapshotRepository over the five
// append-only snapshot tables.
type SnapshotRepo struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepo creates a snapshot repository.
func NewSnapshotRepo(pool *pgxpool.Pool) *SnapshotRepo {
	return &SnapshotRepo{pool: pool}
}

// AppendFundamentals inserts a new fundamentals row. Rows are never updated.
func (r *SnapshotRepo) AppendFundamentals(ctx context.Context, s *contracts.FundamentalSnapshot) error {
	query := `
		INSERT INTO fundamentals (
			ticker, as_of_date, price, book_value, market_cap, enterprise_value,
			ebitda, net_profit, total_assets, total_equity, total_debt,
			current_assets, current_liabilities, revenue, operating_profit,
			interest_expense, operating_cash_flow
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := r.pool.Exec(ctx, query,
		s.Ticker, s.AsOfDate, s.Price, s.BookValue, s.MarketCap, s.EnterpriseValue,
		s.EBITDA, s.NetProfit, s.TotalAssets, s.TotalEquity, s.TotalDebt,
		s.CurrentAssets, s.CurrentLiabilities, s.Revenue, s.OperatingProfit,
		s.InterestExpense, s.OperatingCashFlow)
	if err != nil {
		return fmt.Errorf("append fundamentals %s: %w", s.Ticker, err)
	}
	return nil
}

// AppendDerived inserts a new derived metrics row.
func (r *SnapshotRepo) AppendDerived(ctx context.Context, s *contracts.DerivedSnapshot) error {
	query := `
		INSERT INTO derived_metrics (
			ticker, as_of_date, price_to_book, price_to_earnings, ev_ebitda,
			roe, roce, debt_equity, current_ratio, interest_coverage,
			opm, npm, asset_turnover
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.pool.Exec(ctx, query,
		s.Ticker, s.AsOfDate, s.PriceToBook, s.PriceToEarnings, s.EVEBITDA,
		s.ROE, s.ROCE, s.DebtEquity, s.CurrentRatio, s.InterestCoverage,
		s.OPM, s.NPM, s.AssetTurnover)
	if err != nil {
		return fmt.Errorf("append derived %s: %w", s.Ticker, err)
	}
	return nil
}

// AppendGrowth inserts a new growth metrics row.
func (r *SnapshotRepo) AppendGrowth(ctx context.Context, s *contracts.GrowthSnapshot) error {
	query := `
		INSERT INTO growth_metrics (
			ticker, as_of_date, revenue_cagr_3y, revenue_cagr_5y,
			profit_cagr_3y, profit_cagr_5y, ocf_cagr_3y, eps_growth_3y
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		s.Ticker, s.AsOfDate, s.RevenueCAGR3Y, s.RevenueCAGR5Y,
		s.ProfitCAGR3Y, s.ProfitCAGR5Y, s.OCFCAGR3Y, s.EPSGrowth3Y)
	if err != nil {
		return fmt.Errorf("append growth %s: %w", s.Ticker, err)
	}
	return nil
}

// AppendQuality inserts a new quality metrics row.
func (r *SnapshotRepo) AppendQuality(ctx context.Context, s *contracts.QualitySnapshot) error {
	query := `
		INSERT INTO quality_metrics (
			ticker, as_of_date, promoter_holding, pledged_percentage,
			altman_z_score, piotroski_score, ocf_to_net_profit
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		s.Ticker, s.AsOfDate, s.PromoterHolding, s.PledgedPct,
		s.AltmanZScore, s.PiotroskiScore, s.OCFToNetProfit)
	if err != nil {
		return fmt.Errorf("append quality %s: %w", s.Ticker, err)
	}
	return nil
}

// AppendTechnical inserts a new technical indicators row.
func (r *SnapshotRepo) AppendTechnical(ctx context.Context, s *contracts.TechnicalSnapshot) error {
	query := `
		INSERT INTO technical_indicators (
			ticker, as_of_date, ema_20, ema_50, macd, macd_signal,
			choppiness_index, atr_14, last_close
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		s.Ticker, s.AsOfDate, s.EMA20, s.EMA50, s.MACD, s.MACDSignal,
		s.ChoppinessIndex, s.ATR14, s.LastClose)
	if err != nil {
		return fmt.Errorf("append technical %s: %w", s.Ticker, err)
	}
	return nil
}

// LatestTechnical returns the most recent technical row for a ticker.
func (r *SnapshotRepo) LatestTechnical(ctx context.Context, ticker string) (*contracts.TechnicalSnapshot, error) {
	query := `
		SELECT ticker, as_of_date, ema_20, ema_50, macd, macd_signal,
		       choppiness_index, atr_14, last_close
		FROM technical_indicators
		WHERE ticker = $1
		ORDER BY as_of_date DESC, id DESC
		LIMIT 1
	`
	var s contracts.TechnicalSnapshot
	err := r.pool.QueryRow(ctx, query, ticker).Scan(
		&s.Ticker, &s.AsOfDate, &s.EMA20, &s.EMA50, &s.MACD, &s.MACDSignal,
		&s.ChoppinessIndex, &s.ATR14, &s.LastClose)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: technicals %s", contracts.ErrNotFound, ticker)
	}
	if err != nil {
		return nil, fmt.Errorf("latest technical %s: %w", ticker, err)
	}
	return &s, nil
}

// LatestMetrics joins a ticker to its latest snapshot row per metric family.
func (r *SnapshotRepo) LatestMetrics(ctx context.Context, ticker string) (*contracts.ScreenRow, error) {
	query := screenSelect + `
		WHERE c.ticker = $1
	`
	row := r.pool.QueryRow(ctx, query, ticker)
	sr, err := scanScreenRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: metrics %s", contracts.ErrNotFound, ticker)
	}
	if err != nil {
		return nil, fmt.Errorf("latest metrics %s: %w", ticker, err)
	}
	return sr, nil
}
