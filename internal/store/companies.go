package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/screenerlabs/equityscreener/internal/contracts"
)

// CompanyRepo implements contracts.CompanyRepository.
type CompanyRepo struct {
	pool *pgxpool.Pool
}

// NewCompanyRepo creates a company repository.
func NewCompanyRepo(pool *pgxpool.Pool) *CompanyRepo {
	return &CompanyRepo{pool: pool}
}

// Upsert inserts or updates the instrument master record for a ticker.
func (r *CompanyRepo) Upsert(ctx context.Context, c *contracts.Company) error {
	query := `
		INSERT INTO companies (ticker, company_name, sector, industry, market_cap, isin, exchange, listing_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (ticker) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			sector       = EXCLUDED.sector,
			industry     = EXCLUDED.industry,
			market_cap   = EXCLUDED.market_cap,
			isin         = EXCLUDED.isin,
			exchange     = EXCLUDED.exchange,
			updated_at   = now()
	`
	_, err := r.pool.Exec(ctx, query,
		c.Ticker, c.CompanyName, c.Sector, c.Industry, c.MarketCap, c.ISIN, c.Exchange, c.ListingDate)
	if err != nil {
		return fmt.Errorf("upsert company %s: %w", c.Ticker, err)
	}
	return nil
}

// Get fetches one instrument by ticker.
func (r *CompanyRepo) Get(ctx context.Context, ticker string) (*contracts.Company, error) {
	query := `
		SELECT ticker, company_name, COALESCE(sector, ''), COALESCE(industry, ''),
		       market_cap, COALESCE(isin, ''), COALESCE(exchange, ''), listing_date
		FROM companies
		WHERE ticker = $1
	`
	var c contracts.Company
	err := r.pool.QueryRow(ctx, query, ticker).Scan(
		&c.Ticker, &c.CompanyName, &c.Sector, &c.Industry,
		&c.MarketCap, &c.ISIN, &c.Exchange, &c.ListingDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: company %s", contracts.ErrNotFound, ticker)
	}
	if err != nil {
		return nil, fmt.Errorf("get company %s: %w", ticker, err)
	}
	return &c, nil
}

// List returns all instruments ordered by ticker.
func (r *CompanyRepo) List(ctx context.Context) ([]*contracts.Company, error) {
	query := `
		SELECT ticker, company_name, COALESCE(sector, ''), COALESCE(industry, ''),
		       market_cap, COALESCE(isin, ''), COALESCE(exchange, ''), listing_date
		FROM companies
		ORDER BY ticker
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var out []*contracts.Company
	for rows.Next() {
		var c contracts.Company
		if err := rows.Scan(&c.Ticker, &c.CompanyName, &c.Sector, &c.Industry,
			&c.MarketCap, &c.ISIN, &c.Exchange, &c.ListingDate); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// AllTickers returns every ticker in the instrument master.
func (r *CompanyRepo) AllTickers(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT ticker FROM companies ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("list tickers: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Sectors returns the distinct non-empty sectors.
func (r *CompanyRepo) Sectors(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT sector FROM companies
		WHERE sector IS NOT NULL AND sector <> ''
		ORDER BY sector
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sectors: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
