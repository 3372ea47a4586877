package contracts

import "time"

// Holding is one portfolio position. No two holdings may share the same
// (ticker, quantity, purchase price, purchase date).
type Holding struct {
	ID            int64     `json:"id"`
	Ticker        string    `json:"ticker"`
	CompanyName   string    `json:"company_name,omitempty"`
	Quantity      float64   `json:"quantity"`
	PurchasePrice float64   `json:"purchase_price"`
	CurrentPrice  *float64  `json:"current_price,omitempty"`
	PurchaseDate  time.Time `json:"purchase_date"`
	Notes         string    `json:"notes,omitempty"`

	// Joined latest metrics, populated on read.
	EVEBITDA        *float64 `json:"ev_ebitda,omitempty"`
	PriceToBook     *float64 `json:"price_to_book,omitempty"`
	EMA20           *float64 `json:"ema_20,omitempty"`
	EMA50           *float64 `json:"ema_50,omitempty"`
	MACD            *float64 `json:"macd,omitempty"`
	ChoppinessIndex *float64 `json:"choppiness_index,omitempty"`
}

// UnrealizedPnL returns the open profit for this holding, nil when the
// current price is unknown.
func (h *Holding) UnrealizedPnL() *float64 {
	if h.CurrentPrice == nil {
		return nil
	}
	v := h.Quantity*(*h.CurrentPrice) - h.Quantity*h.PurchasePrice
	return &v
}

// ReturnPct returns the percentage return for this holding, nil when the
// current price is unknown or the purchase price is zero.
func (h *Holding) ReturnPct() *float64 {
	if h.CurrentPrice == nil || h.PurchasePrice == 0 {
		return nil
	}
	v := (*h.CurrentPrice - h.PurchasePrice) / h.PurchasePrice * 100
	return &v
}

// PortfolioSummary aggregates all holdings.
type PortfolioSummary struct {
	TotalHoldings  int     `json:"total_holdings"`
	TotalInvested  float64 `json:"total_invested"`
	CurrentValue   float64 `json:"current_value"`
	TotalPnL       float64 `json:"total_pnl"`
	TotalReturnPct float64 `json:"total_return_pct"`
	BestPerformer  string  `json:"best_performer,omitempty"`
	WorstPerformer string  `json:"worst_performer,omitempty"`
}

// WatchlistEntry is one watched ticker. Ticker is unique within the list.
type WatchlistEntry struct {
	Ticker      string    `json:"ticker"`
	CompanyName string    `json:"company_name,omitempty"`
	Sector      string    `json:"sector,omitempty"`
	TargetPrice *float64  `json:"target_price,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	AddedDate   time.Time `json:"added_date"`

	CurrentPrice *float64 `json:"current_price,omitempty"`
	UpsidePct    *float64 `json:"upside_pct,omitempty"`
}
