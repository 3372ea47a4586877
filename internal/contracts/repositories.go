package contracts

import (
	"context"
	"time"
)

// CompanyRepository persists instrument master records.
type CompanyRepository interface {
	Upsert(ctx context.Context, c *Company) error
	Get(ctx context.Context, ticker string) (*Company, error)
	List(ctx context.Context) ([]*Company, error)
	AllTickers(ctx context.Context) ([]string, error)
	Sectors(ctx context.Context) ([]string, error)
}

// SnapshotRepository persists the append-only metric time series. Snapshots
// are never mutated after insert; readers always select the max as-of-date
// row per ticker.
type SnapshotRepository interface {
	AppendFundamentals(ctx context.Context, s *FundamentalSnapshot) error
	AppendDerived(ctx context.Context, s *DerivedSnapshot) error
	AppendGrowth(ctx context.Context, s *GrowthSnapshot) error
	AppendQuality(ctx context.Context, s *QualitySnapshot) error
	AppendTechnical(ctx context.Context, s *TechnicalSnapshot) error

	LatestTechnical(ctx context.Context, ticker string) (*TechnicalSnapshot, error)
	LatestMetrics(ctx context.Context, ticker string) (*ScreenRow, error)
}

// ScreenRepository persists user-named custom screens. Save is an upsert: an
// existing screen with the same name is overwritten and updated_at refreshed.
type ScreenRepository interface {
	Save(ctx context.Context, s *CustomScreen) error
	Get(ctx context.Context, name string) (*CustomScreen, error)
	List(ctx context.Context) ([]*CustomScreen, error)
	Delete(ctx context.Context, name string) error
}

// BacktestRepository persists the append-only backtest audit.
type BacktestRepository interface {
	Save(ctx context.Context, r *BacktestRecord) error
	List(ctx context.Context, screenName string) ([]*BacktestRecord, error)
}

// PortfolioRepository persists holdings. Add fails with ErrDuplicateHolding
// on a (ticker, quantity, purchase price, purchase date) collision.
type PortfolioRepository interface {
	Add(ctx context.Context, h *Holding) error
	Remove(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*Holding, error)
	UpdatePrice(ctx context.Context, ticker string, price float64) error
}

// WatchlistRepository persists watched tickers. Add is a no-op when the
// ticker is already present.
type WatchlistRepository interface {
	Add(ctx context.Context, e *WatchlistEntry) error
	Remove(ctx context.Context, ticker string) error
	List(ctx context.Context) ([]*WatchlistEntry, error)
}

// AuditLogger records operations to the audit trail. Logging never fails the
// operation being audited; implementations swallow and log their own errors.
type AuditLogger interface {
	Log(ctx context.Context, operation, details, status string)
	LastOperation(ctx context.Context, operation string) (*AuditEntry, error)
}

// Clock abstracts time.Now for deterministic tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }
