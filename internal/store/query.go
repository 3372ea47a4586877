package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/screenerlabs/equityscreener/internal/contracts"
	"github.com/screenerlabs/equityscreener/internal/criteria"
)

// screenSelect joins every instrument to its latest snapshot row per metric
// family. The aliases c/f/d/g/q/t match the compiler's dataset qualifiers, so
// a compiled WHERE clause can be appended verbatim. Latest means max
// as-of-date, ties broken by highest id.
const screenSelect = `
	SELECT c.ticker, c.company_name, COALESCE(c.sector, ''), COALESCE(c.industry, ''),
	       c.market_cap, f.price,
	       d.price_to_book, d.price_to_earnings, d.ev_ebitda, d.roe, d.roce,
	       d.debt_equity, d.current_ratio, d.interest_coverage, d.opm, d.npm,
	       g.revenue_cagr_3y, g.profit_cagr_3y,
	       q.promoter_holding, q.altman_z_score, q.ocf_to_net_profit,
	       t.ema_20, t.ema_50, t.macd, t.choppiness_index
	FROM companies c
	LEFT JOIN LATERAL (
		SELECT * FROM fundamentals
		WHERE ticker = c.ticker ORDER BY as_of_date DESC, id DESC LIMIT 1
	) f ON true
	LEFT JOIN LATERAL (
		SELECT * FROM derived_metrics
		WHERE ticker = c.ticker ORDER BY as_of_date DESC, id DESC LIMIT 1
	) d ON true
	LEFT JOIN LATERAL (
		SELECT * FROM growth_metrics
		WHERE ticker = c.ticker ORDER BY as_of_date DESC, id DESC LIMIT 1
	) g ON true
	LEFT JOIN LATERAL (
		SELECT * FROM quality_metrics
		WHERE ticker = c.ticker ORDER BY as_of_date DESC, id DESC LIMIT 1
	) q ON true
	LEFT JOIN LATERAL (
		SELECT * FROM technical_indicators
		WHERE ticker = c.ticker ORDER BY as_of_date DESC, id DESC LIMIT 1
	) t ON true
`

func scanScreenRow(row pgx.Row) (*contracts.ScreenRow, error) {
	var r contracts.ScreenRow
	err := row.Scan(
		&r.Ticker, &r.CompanyName, &r.Sector, &r.Industry,
		&r.MarketCap, &r.Price,
		&r.PriceToBook, &r.PriceToEarnings, &r.EVEBITDA, &r.ROE, &r.ROCE,
		&r.DebtEquity, &r.CurrentRatio, &r.InterestCoverage, &r.OPM, &r.NPM,
		&r.RevenueCAGR3Y, &r.ProfitCAGR3Y,
		&r.PromoterHolding, &r.AltmanZScore, &r.OCFToNetProfit,
		&r.EMA20, &r.EMA50, &r.MACD, &r.ChoppinessIndex)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ScreenQuery executes compiled criteria against the snapshot tables. It is
// the relational backend of the screening engine.
type ScreenQuery struct {
	pool *pgxpool.Pool
}

// NewScreenQuery creates a screen query executor.
func NewScreenQuery(pool *pgxpool.Pool) *ScreenQuery {
	return &ScreenQuery{pool: pool}
}

// Query runs a compiled screen plus the ad-hoc instrument filters. The
// additional filters are always AND-combined with the screen expression and
// their parameters are numbered after the compiled bindings.
func (s *ScreenQuery) Query(ctx context.Context, compiled *criteria.Compiled, filters contracts.AdditionalFilters) ([]contracts.ScreenRow, error) {
	query, args := buildScreenQuery(compiled, filters)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("screen query: %w", err)
	}
	defer rows.Close()

	var out []contracts.ScreenRow
	for rows.Next() {
		r, err := scanScreenRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan screen row: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// buildScreenQuery assembles the final statement. Additional-filter
// parameters are numbered after the compiled screen's bindings.
func buildScreenQuery(compiled *criteria.Compiled, filters contracts.AdditionalFilters) (string, []any) {
	args := append([]any(nil), compiled.Args...)

	var clauses []string
	if compiled.Where != "" {
		clauses = append(clauses, "("+compiled.Where+")")
	}
	if len(filters.Sectors) > 0 {
		args = append(args, filters.Sectors)
		clauses = append(clauses, fmt.Sprintf("c.sector = ANY($%d)", len(args)))
	}
	if filters.MinMarketCap != nil {
		args = append(args, *filters.MinMarketCap)
		clauses = append(clauses, fmt.Sprintf("c.market_cap >= $%d", len(args)))
	}

	query := screenSelect
	if len(clauses) > 0 {
		query += "	WHERE " + strings.Join(clauses, " AND ") + "\n"
	}
	query += "	ORDER BY d.roe DESC NULLS LAST, c.market_cap DESC NULLS LAST\n"
	return query, args
}
