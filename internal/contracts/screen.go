package contracts

import "time"

// ScreenRow is one matched instrument joined to its latest snapshot row per
// metric family. Missing metrics stay nil and are excluded from aggregates.
type ScreenRow struct {
	Ticker      string `json:"ticker"`
	CompanyName string `json:"company_name"`
	Sector      string `json:"sector,omitempty"`
	Industry    string `json:"industry,omitempty"`

	MarketCap *float64 `json:"market_cap,omitempty"`
	Price     *float64 `json:"price,omitempty"`

	PriceToBook      *float64 `json:"price_to_book,omitempty"`
	PriceToEarnings  *float64 `json:"price_to_earnings,omitempty"`
	EVEBITDA         *float64 `json:"ev_ebitda,omitempty"`
	ROE              *float64 `json:"roe,omitempty"`
	ROCE             *float64 `json:"roce,omitempty"`
	DebtEquity       *float64 `json:"debt_equity,omitempty"`
	CurrentRatio     *float64 `json:"current_ratio,omitempty"`
	InterestCoverage *float64 `json:"interest_coverage,omitempty"`
	OPM              *float64 `json:"opm,omitempty"`
	NPM              *float64 `json:"npm,omitempty"`

	RevenueCAGR3Y *float64 `json:"revenue_cagr_3y,omitempty"`
	ProfitCAGR3Y  *float64 `json:"profit_cagr_3y,omitempty"`

	PromoterHolding *float64 `json:"promoter_holding,omitempty"`
	AltmanZScore    *float64 `json:"altman_z_score,omitempty"`
	OCFToNetProfit  *float64 `json:"ocf_to_net_profit,omitempty"`

	EMA20           *float64 `json:"ema_20,omitempty"`
	EMA50           *float64 `json:"ema_50,omitempty"`
	MACD            *float64 `json:"macd,omitempty"`
	ChoppinessIndex *float64 `json:"choppiness_index,omitempty"`
}

// Statistics summarizes a screen result. All aggregates are computed only
// over rows where the underlying metric is present; an empty result yields
// zero values, never an error.
type Statistics struct {
	TotalStocks  int            `json:"total_stocks"`
	Sectors      map[string]int `json:"sectors"`
	AvgROE       *float64       `json:"avg_roe"`
	MedianPB     *float64       `json:"median_pb"`
	MedianDE     *float64       `json:"median_de"`
	AvgMarketCap *float64       `json:"avg_market_cap"`
}

// ScreenResult is the transient outcome of one screen run.
type ScreenResult struct {
	ScreenName  string      `json:"screen_name"`
	Description string      `json:"description,omitempty"`
	Rows        []ScreenRow `json:"results"`
	Stats       Statistics  `json:"stats"`
}

// CustomScreen is a durable, user-named screen definition. Criteria are
// stored as the serialized predicate list plus combination logic.
type CustomScreen struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Criteria    []byte    `json:"-"` // serialized predicates, owned by internal/criteria
	Logic       string    `json:"logic"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AdditionalFilters are ad-hoc instrument-level filters, always AND-combined
// with the compiled screen regardless of the screen's own logic.
type AdditionalFilters struct {
	Sectors      []string `json:"sectors,omitempty"`
	MinMarketCap *float64 `json:"min_market_cap,omitempty"`
}

// Empty reports whether no additional filtering was requested.
func (f AdditionalFilters) Empty() bool {
	return len(f.Sectors) == 0 && f.MinMarketCap == nil
}
