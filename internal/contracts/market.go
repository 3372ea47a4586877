package contracts

import (
	"context"
	"time"
)

// PriceBar is one daily OHLCV observation.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Quote is a point-in-time price lookup.
type Quote struct {
	Ticker string    `json:"ticker"`
	Price  float64   `json:"price"`
	AsOf   time.Time `json:"as_of"`
}

// CompanyProfile is descriptive data fetched alongside fundamentals.
type CompanyProfile struct {
	Name     string
	Sector   string
	Industry string
}

// AnnualStatement is one fiscal year of statement data, used for growth
// metric computation. Amounts are in crores.
type AnnualStatement struct {
	EndDate           time.Time `json:"end_date"`
	Revenue           *float64  `json:"revenue,omitempty"`
	NetProfit         *float64  `json:"net_profit,omitempty"`
	OperatingCashFlow *float64  `json:"operating_cash_flow,omitempty"`
}

// MarketDataProvider is the external price/fundamentals source. History
// returns bars ordered by date ascending and fails with ErrNoData when the
// ticker is unresolvable or the range is empty. Implementations must bound
// every call with the context deadline so one slow ticker never stalls a
// batch.
type MarketDataProvider interface {
	History(ctx context.Context, ticker string, from, to time.Time) ([]PriceBar, error)
	Quote(ctx context.Context, ticker string) (*Quote, error)
	Profile(ctx context.Context, ticker string) (*CompanyProfile, error)
	Fundamentals(ctx context.Context, ticker string) (*FundamentalSnapshot, error)
}
