package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/screenerlabs/equityscreener/internal/contracts"
)

// BacktestRepo implements contracts.BacktestRepository. The per-ticker detail
// list is serialized to JSONB.
type BacktestRepo struct {
	pool *pgxpool.Pool
}

// NewBacktestRepo creates a backtest repository.
func NewBacktestRepo(pool *pgxpool.Pool) *BacktestRepo {
	return &BacktestRepo{pool: pool}
}

// Save appends one backtest record.
func (r *BacktestRepo) Save(ctx context.Context, rec *contracts.BacktestRecord) error {
	details, err := json.Marshal(rec.Details)
	if err != nil {
		return fmt.Errorf("marshal backtest details: %w", err)
	}

	query := `
		INSERT INTO backtests (
			id, screen_name, backtest_date, start_date, end_date, holding_days,
			total_screened, stocks_passed, average_return, median_return,
			max_return, min_return, std_return, winning_stocks, losing_stocks,
			best_performer, worst_performer, details
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err = r.pool.Exec(ctx, query,
		rec.ID, rec.ScreenName, rec.BacktestDate, rec.StartDate, rec.EndDate, rec.HoldingDays,
		rec.TotalScreened, rec.StocksPassed, rec.AverageReturn, rec.MedianReturn,
		rec.MaxReturn, rec.MinReturn, rec.StdReturn, rec.WinningStocks, rec.LosingStocks,
		rec.BestPerformer, rec.WorstPerformer, details)
	if err != nil {
		return fmt.Errorf("save backtest %s: %w", rec.ID, err)
	}
	return nil
}

// List returns all backtest records for a screen, newest first.
func (r *BacktestRepo) List(ctx context.Context, screenName string) ([]*contracts.BacktestRecord, error) {
	query := `
		SELECT id, screen_name, backtest_date, start_date, end_date, holding_days,
		       total_screened, stocks_passed, average_return, median_return,
		       max_return, min_return, std_return, winning_stocks, losing_stocks,
		       COALESCE(best_performer, ''), COALESCE(worst_performer, ''), details
		FROM backtests
		WHERE screen_name = $1
		ORDER BY backtest_date DESC
	`
	rows, err := r.pool.Query(ctx, query, screenName)
	if err != nil {
		return nil, fmt.Errorf("list backtests %s: %w", screenName, err)
	}
	defer rows.Close()

	var out []*contracts.BacktestRecord
	for rows.Next() {
		var rec contracts.BacktestRecord
		var details []byte
		if err := rows.Scan(
			&rec.ID, &rec.ScreenName, &rec.BacktestDate, &rec.StartDate, &rec.EndDate, &rec.HoldingDays,
			&rec.TotalScreened, &rec.StocksPassed, &rec.AverageReturn, &rec.MedianReturn,
			&rec.MaxReturn, &rec.MinReturn, &rec.StdReturn, &rec.WinningStocks, &rec.LosingStocks,
			&rec.BestPerformer, &rec.WorstPerformer, &details); err != nil {
			return nil, fmt.Errorf("scan backtest: %w", err)
		}
		if err := json.Unmarshal(details, &rec.Details); err != nil {
			return nil, fmt.Errorf("unmarshal backtest details %s: %w", rec.ID, err)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}
