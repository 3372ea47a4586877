// Package store provides the PostgreSQL repositories behind the contracts
// interfaces, plus the screen query builder that executes compiled criteria.
package store

import (
	"context"
	"fmt"

	"github.com/screenerlabs/equityscreener/pkg/database"
)

// schema is the full DDL, idempotent so EnsureSchema can run on every start.
// Snapshot tables are append-only; readers always take the max as-of-date row
// per ticker, ties broken by highest id (most recent insert).
const schema = `
CREATE TABLE IF NOT EXISTS companies (
	ticker       TEXT PRIMARY KEY,
	company_name TEXT NOT NULL,
	sector       TEXT,
	industry     TEXT,
	market_cap   DOUBLE PRECISION,
	isin         TEXT,
	exchange     TEXT,
	listing_date DATE,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS fundamentals (
	id                  BIGSERIAL PRIMARY KEY,
	ticker              TEXT NOT NULL REFERENCES companies(ticker) ON DELETE CASCADE,
	as_of_date          TIMESTAMPTZ NOT NULL,
	price               DOUBLE PRECISION,
	book_value          DOUBLE PRECISION,
	market_cap          DOUBLE PRECISION,
	enterprise_value    DOUBLE PRECISION,
	ebitda              DOUBLE PRECISION,
	net_profit          DOUBLE PRECISION,
	total_assets        DOUBLE PRECISION,
	total_equity        DOUBLE PRECISION,
	total_debt          DOUBLE PRECISION,
	current_assets      DOUBLE PRECISION,
	current_liabilities DOUBLE PRECISION,
	revenue             DOUBLE PRECISION,
	operating_profit    DOUBLE PRECISION,
	interest_expense    DOUBLE PRECISION,
	operating_cash_flow DOUBLE PRECISION
);
CREATE INDEX IF NOT EXISTS idx_fundamentals_ticker_date ON fundamentals (ticker, as_of_date DESC, id DESC);

CREATE TABLE IF NOT EXISTS derived_metrics (
	id                BIGSERIAL PRIMARY KEY,
	ticker            TEXT NOT NULL REFERENCES companies(ticker) ON DELETE CASCADE,
	as_of_date        TIMESTAMPTZ NOT NULL,
	price_to_book     DOUBLE PRECISION,
	price_to_earnings DOUBLE PRECISION,
	ev_ebitda         DOUBLE PRECISION,
	roe               DOUBLE PRECISION,
	roce              DOUBLE PRECISION,
	debt_equity       DOUBLE PRECISION,
	current_ratio     DOUBLE PRECISION,
	interest_coverage DOUBLE PRECISION,
	opm               DOUBLE PRECISION,
	npm               DOUBLE PRECISION,
	asset_turnover    DOUBLE PRECISION
);
CREATE INDEX IF NOT EXISTS idx_derived_ticker_date ON derived_metrics (ticker, as_of_date DESC, id DESC);

CREATE TABLE IF NOT EXISTS growth_metrics (
	id              BIGSERIAL PRIMARY KEY,
	ticker          TEXT NOT NULL REFERENCES companies(ticker) ON DELETE CASCADE,
	as_of_date      TIMESTAMPTZ NOT NULL,
	revenue_cagr_3y DOUBLE PRECISION,
	revenue_cagr_5y DOUBLE PRECISION,
	profit_cagr_3y  DOUBLE PRECISION,
	profit_cagr_5y  DOUBLE PRECISION,
	ocf_cagr_3y     DOUBLE PRECISION,
	eps_growth_3y   DOUBLE PRECISION
);
CREATE INDEX IF NOT EXISTS idx_growth_ticker_date ON growth_metrics (ticker, as_of_date DESC, id DESC);

CREATE TABLE IF NOT EXISTS quality_metrics (
	id                 BIGSERIAL PRIMARY KEY,
	ticker             TEXT NOT NULL REFERENCES companies(ticker) ON DELETE CASCADE,
	as_of_date         TIMESTAMPTZ NOT NULL,
	promoter_holding   DOUBLE PRECISION,
	pledged_percentage DOUBLE PRECISION,
	altman_z_score     DOUBLE PRECISION,
	piotroski_score    INTEGER,
	ocf_to_net_profit  DOUBLE PRECISION
);
CREATE INDEX IF NOT EXISTS idx_quality_ticker_date ON quality_metrics (ticker, as_of_date DESC, id DESC);

CREATE TABLE IF NOT EXISTS technical_indicators (
	id               BIGSERIAL PRIMARY KEY,
	ticker           TEXT NOT NULL REFERENCES companies(ticker) ON DELETE CASCADE,
	as_of_date       TIMESTAMPTZ NOT NULL,
	ema_20           DOUBLE PRECISION,
	ema_50           DOUBLE PRECISION,
	macd             DOUBLE PRECISION,
	macd_signal      DOUBLE PRECISION,
	choppiness_index DOUBLE PRECISION,
	atr_14           DOUBLE PRECISION,
	last_close       DOUBLE PRECISION
);
CREATE INDEX IF NOT EXISTS idx_technical_ticker_date ON technical_indicators (ticker, as_of_date DESC, id DESC);

CREATE TABLE IF NOT EXISTS custom_screens (
	name        TEXT PRIMARY KEY,
	description TEXT NOT NULL DEFAULT '',
	criteria    JSONB NOT NULL,
	logic       TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS backtests (
	id              TEXT PRIMARY KEY,
	screen_name     TEXT NOT NULL,
	backtest_date   TIMESTAMPTZ NOT NULL,
	start_date      TIMESTAMPTZ NOT NULL,
	end_date        TIMESTAMPTZ NOT NULL,
	holding_days    INTEGER NOT NULL,
	total_screened  INTEGER NOT NULL,
	stocks_passed   INTEGER NOT NULL,
	average_return  DOUBLE PRECISION,
	median_return   DOUBLE PRECISION,
	max_return      DOUBLE PRECISION,
	min_return      DOUBLE PRECISION,
	std_return      DOUBLE PRECISION,
	winning_stocks  INTEGER NOT NULL,
	losing_stocks   INTEGER NOT NULL,
	best_performer  TEXT,
	worst_performer TEXT,
	details         JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_backtests_screen ON backtests (screen_name, start_date);

CREATE TABLE IF NOT EXISTS portfolio (
	id             BIGSERIAL PRIMARY KEY,
	ticker         TEXT NOT NULL,
	quantity       DOUBLE PRECISION NOT NULL,
	purchase_price DOUBLE PRECISION NOT NULL,
	current_price  DOUBLE PRECISION,
	purchase_date  TIMESTAMPTZ NOT NULL,
	notes          TEXT NOT NULL DEFAULT '',
	UNIQUE (ticker, quantity, purchase_price, purchase_date)
);

CREATE TABLE IF NOT EXISTS watchlist (
	ticker       TEXT PRIMARY KEY,
	company_name TEXT NOT NULL DEFAULT '',
	sector       TEXT NOT NULL DEFAULT '',
	target_price DOUBLE PRECISION,
	notes        TEXT NOT NULL DEFAULT '',
	added_date   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_log (
	id        TEXT PRIMARY KEY,
	ts        TIMESTAMPTZ NOT NULL,
	operation TEXT NOT NULL,
	details   TEXT NOT NULL DEFAULT '',
	username  TEXT NOT NULL DEFAULT 'system',
	status    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_operation_ts ON audit_log (operation, ts DESC);
`

// EnsureSchema creates all tables and indexes when missing.
func EnsureSchema(ctx context.Context, db *database.DB) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
