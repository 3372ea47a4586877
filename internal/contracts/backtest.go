package contracts

import "time"

// TickerReturn is the per-ticker detail of one backtest run. Excluded entries
// had insufficient price history and do not contribute to aggregates, but are
// still persisted in the detail list.
type TickerReturn struct {
	Ticker      string   `json:"ticker"`
	CompanyName string   `json:"company_name"`
	BuyPrice    *float64 `json:"buy_price,omitempty"`
	SellPrice   *float64 `json:"sell_price,omitempty"`
	ReturnPct   *float64 `json:"return,omitempty"`
	ScreenDate  string   `json:"screen_date"`
	SellDate    string   `json:"sell_date"`
	Excluded    bool     `json:"excluded,omitempty"`
	Reason      string   `json:"reason,omitempty"`
}

// BacktestRecord is the append-only audit of one backtest run.
type BacktestRecord struct {
	ID             string         `json:"id"`
	ScreenName     string         `json:"screen_name"`
	BacktestDate   time.Time      `json:"backtest_date"`
	StartDate      time.Time      `json:"start_date"`
	EndDate        time.Time      `json:"end_date"`
	HoldingDays    int            `json:"holding_period_days"`
	TotalScreened  int            `json:"total_stocks_screened"` // instrument universe size at run time
	StocksPassed   int            `json:"stocks_passed"`         // screen matches, including later price exclusions
	AverageReturn  *float64       `json:"average_return"`
	MedianReturn   *float64       `json:"median_return"`
	MaxReturn      *float64       `json:"max_return"`
	MinReturn      *float64       `json:"min_return"`
	StdReturn      *float64       `json:"std_return"`
	WinningStocks  int            `json:"winning_stocks"`
	LosingStocks   int            `json:"losing_stocks"`
	BestPerformer  string         `json:"best_performer,omitempty"`
	WorstPerformer string         `json:"worst_performer,omitempty"`
	Details        []TickerReturn `json:"details"`
}

// ScreenComparison aggregates a screen's historical backtest records inside a
// date window, for relative ranking across screens.
type ScreenComparison struct {
	ScreenName      string   `json:"screen_name"`
	AvgReturn       *float64 `json:"avg_return"`
	MedianReturn    *float64 `json:"median_return"`
	NumBacktests    int      `json:"num_backtests"`
	AvgStocksPassed *float64 `json:"avg_stocks_passed"`
}
