package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/screenerlabs/equityscreener/internal/contracts"
)

const uniqueViolation = "23505"

// PortfolioRepo implements contracts.PortfolioRepository. The unique
// constraint on (ticker, quantity, purchase_price, purchase_date) enforces
// the duplicate-holding invariant at the database level.
type PortfolioRepo struct {
	pool *pgxpool.Pool
}

// NewPortfolioRepo creates a portfolio repository.
func NewPortfolioRepo(pool *pgxpool.Pool) *PortfolioRepo {
	return &PortfolioRepo{pool: pool}
}

// Add inserts a holding, failing with ErrDuplicateHolding on an exact
// duplicate lot.
func (r *PortfolioRepo) Add(ctx context.Context, h *contracts.Holding) error {
	query := `
		INSERT INTO portfolio (ticker, quantity, purchase_price, current_price, purchase_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		h.Ticker, h.Quantity, h.PurchasePrice, h.CurrentPrice, h.PurchaseDate, h.Notes).Scan(&h.ID)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", contracts.ErrDuplicateHolding, h.Ticker)
	}
	if err != nil {
		return fmt.Errorf("add holding %s: %w", h.Ticker, err)
	}
	return nil
}

// Remove deletes a holding by id.
func (r *PortfolioRepo) Remove(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM portfolio WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("remove holding %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: holding %d", contracts.ErrNotFound, id)
	}
	return nil
}

// List returns all holdings joined to the instrument master and the latest
// valuation and technical snapshots.
func (r *PortfolioRepo) List(ctx context.Context) ([]*contracts.Holding, error) {
	query := `
		SELECT p.id, p.ticker, COALESCE(c.company_name, p.ticker),
		       p.quantity, p.purchase_price, p.current_price, p.purchase_date, p.notes,
		       d.ev_ebitda, d.price_to_book,
		       t.ema_20, t.ema_50, t.macd, t.choppiness_index
		FROM portfolio p
		LEFT JOIN companies c ON c.ticker = p.ticker
		LEFT JOIN LATERAL (
			SELECT * FROM derived_metrics
			WHERE ticker = p.ticker ORDER BY as_of_date DESC, id DESC LIMIT 1
		) d ON true
		LEFT JOIN LATERAL (
			SELECT * FROM technical_indicators
			WHERE ticker = p.ticker ORDER BY as_of_date DESC, id DESC LIMIT 1
		) t ON true
		ORDER BY p.purchase_date, p.id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}
	defer rows.Close()

	var out []*contracts.Holding
	for rows.Next() {
		var h contracts.Holding
		if err := rows.Scan(
			&h.ID, &h.Ticker, &h.CompanyName,
			&h.Quantity, &h.PurchasePrice, &h.CurrentPrice, &h.PurchaseDate, &h.Notes,
			&h.EVEBITDA, &h.PriceToBook,
			&h.EMA20, &h.EMA50, &h.MACD, &h.ChoppinessIndex); err != nil {
			return nil, fmt.Errorf("scan holding: %w", err)
		}
		out = append(out, &h)
	}
	return out, rows.Err()
}

// UpdatePrice stores the latest quote against every lot of a ticker.
func (r *PortfolioRepo) UpdatePrice(ctx context.Context, ticker string, price float64) error {
	_, err := r.pool.Exec(ctx, `UPDATE portfolio SET current_price = $2 WHERE ticker = $1`, ticker, price)
	if err != nil {
		return fmt.Errorf("update price %s: %w", ticker, err)
	}
	return nil
}

// WatchlistRepo implements contracts.WatchlistRepository.
type WatchlistRepo struct {
	pool *pgxpool.Pool
}

// NewWatchlistRepo creates a watchlist repository.
func NewWatchlistRepo(pool *pgxpool.Pool) *WatchlistRepo {
	return &WatchlistRepo{pool: pool}
}

// Add inserts a watchlist entry. Adding an already watched ticker is a no-op.
func (r *WatchlistRepo) Add(ctx context.Context, e *contracts.WatchlistEntry) error {
	query := `
		INSERT INTO watchlist (ticker, company_name, sector, target_price, notes, added_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (ticker) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query,
		e.Ticker, e.CompanyName, e.Sector, e.TargetPrice, e.Notes, e.AddedDate)
	if err != nil {
		return fmt.Errorf("add watchlist %s: %w", e.Ticker, err)
	}
	return nil
}

// Remove drops a ticker from the watchlist.
func (r *WatchlistRepo) Remove(ctx context.Context, ticker string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM watchlist WHERE ticker = $1`, ticker)
	if err != nil {
		return fmt.Errorf("remove watchlist %s: %w", ticker, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: watchlist %s", contracts.ErrNotFound, ticker)
	}
	return nil
}

// List returns all watchlist entries ordered by added date.
func (r *WatchlistRepo) List(ctx context.Context) ([]*contracts.WatchlistEntry, error) {
	query := `
		SELECT ticker, company_name, sector, target_price, notes, added_date
		FROM watchlist
		ORDER BY added_date, ticker
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	defer rows.Close()

	var out []*contracts.WatchlistEntry
	for rows.Next() {
		var e contracts.WatchlistEntry
		if err := rows.Scan(&e.Ticker, &e.CompanyName, &e.Sector, &e.TargetPrice, &e.Notes, &e.AddedDate); err != nil {
			return nil, fmt.Errorf("scan watchlist: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
