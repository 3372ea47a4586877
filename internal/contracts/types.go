package contracts

import (
	"math"
	"time"
)

// Company is the instrument master record. Ticker is the single join key
// across every other entity in the system.
type Company struct {
	Ticker      string     `json:"ticker"`
	CompanyName string     `json:"company_name"`
	Sector      string     `json:"sector,omitempty"`
	Industry    string     `json:"industry,omitempty"`
	MarketCap   *float64   `json:"market_cap,omitempty"` // in crores
	ISIN        string     `json:"isin,omitempty"`
	Exchange    string     `json:"exchange,omitempty"` // NSE or BSE
	ListingDate *time.Time `json:"listing_date,omitempty"`
}

// FundamentalSnapshot is an append-only, as-of-dated record of raw statement
// data. "Latest" always means max as-of-date per ticker.
type FundamentalSnapshot struct {
	Ticker             string    `json:"ticker"`
	AsOfDate           time.Time `json:"as_of_date"`
	Price              *float64  `json:"price,omitempty"`
	BookValue          *float64  `json:"book_value,omitempty"`
	MarketCap          *float64  `json:"market_cap,omitempty"`
	EnterpriseValue    *float64  `json:"enterprise_value,omitempty"`
	EBITDA             *float64  `json:"ebitda,omitempty"`
	NetProfit          *float64  `json:"net_profit,omitempty"`
	TotalAssets        *float64  `json:"total_assets,omitempty"`
	TotalEquity        *float64  `json:"total_equity,omitempty"`
	TotalDebt          *float64  `json:"total_debt,omitempty"`
	CurrentAssets      *float64  `json:"current_assets,omitempty"`
	CurrentLiabilities *float64  `json:"current_liabilities,omitempty"`
	Revenue            *float64  `json:"revenue,omitempty"`
	OperatingProfit    *float64  `json:"operating_profit,omitempty"`
	InterestExpense    *float64  `json:"interest_expense,omitempty"`
	OperatingCashFlow  *float64  `json:"operating_cash_flow,omitempty"`
}

// DerivedSnapshot holds calculated ratios, one row per ticker per refresh.
type DerivedSnapshot struct {
	Ticker           string    `json:"ticker"`
	AsOfDate         time.Time `json:"as_of_date"`
	PriceToBook      *float64  `json:"price_to_book,omitempty"`
	PriceToEarnings  *float64  `json:"price_to_earnings,omitempty"`
	EVEBITDA         *float64  `json:"ev_ebitda,omitempty"`
	ROE              *float64  `json:"roe,omitempty"`
	ROCE             *float64  `json:"roce,omitempty"`
	DebtEquity       *float64  `json:"debt_equity,omitempty"`
	CurrentRatio     *float64  `json:"current_ratio,omitempty"`
	InterestCoverage *float64  `json:"interest_coverage,omitempty"`
	OPM              *float64  `json:"opm,omitempty"`
	NPM              *float64  `json:"npm,omitempty"`
	AssetTurnover    *float64  `json:"asset_turnover,omitempty"`
}

// GrowthSnapshot holds growth metrics, one row per ticker per refresh.
type GrowthSnapshot struct {
	Ticker        string    `json:"ticker"`
	AsOfDate      time.Time `json:"as_of_date"`
	RevenueCAGR3Y *float64  `json:"revenue_cagr_3y,omitempty"`
	RevenueCAGR5Y *float64  `json:"revenue_cagr_5y,omitempty"`
	ProfitCAGR3Y  *float64  `json:"profit_cagr_3y,omitempty"`
	ProfitCAGR5Y  *float64  `json:"profit_cagr_5y,omitempty"`
	OCFCAGR3Y     *float64  `json:"ocf_cagr_3y,omitempty"`
	EPSGrowth3Y   *float64  `json:"eps_growth_3y,omitempty"`
}

// QualitySnapshot holds quality and governance metrics.
type QualitySnapshot struct {
	Ticker          string    `json:"ticker"`
	AsOfDate        time.Time `json:"as_of_date"`
	PromoterHolding *float64  `json:"promoter_holding,omitempty"`
	PledgedPct      *float64  `json:"pledged_percentage,omitempty"`
	AltmanZScore    *float64  `json:"altman_z_score,omitempty"`
	PiotroskiScore  *int      `json:"piotroski_score,omitempty"`
	OCFToNetProfit  *float64  `json:"ocf_to_net_profit,omitempty"`
}

// TechnicalSnapshot holds stored technical indicator values.
type TechnicalSnapshot struct {
	Ticker          string    `json:"ticker"`
	AsOfDate        time.Time `json:"as_of_date"`
	EMA20           *float64  `json:"ema_20,omitempty"`
	EMA50           *float64  `json:"ema_50,omitempty"`
	MACD            *float64  `json:"macd,omitempty"`
	MACDSignal      *float64  `json:"macd_signal,omitempty"`
	ChoppinessIndex *float64  `json:"choppiness_index,omitempty"`
	ATR14           *float64  `json:"atr_14,omitempty"`
	LastClose       *float64  `json:"last_close,omitempty"`
}

// AuditEntry records one operation in the audit trail.
type AuditEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Operation string    `json:"operation"`
	Details   string    `json:"details"`
	User      string    `json:"user"`
	Status    string    `json:"status"` // success, failure, partial
}

// Num converts a computed value into a nullable metric, mapping NaN and
// infinities to absent. Serialized output must never carry non-finite values.
func Num(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Val dereferences a nullable metric, returning NaN when absent.
func Val(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}
