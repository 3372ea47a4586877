// Package signals derives boolean technical signals per ticker from stored
// indicator snapshots, backfilling stale snapshots from the market data
// provider on demand.
package signals

import "strings"

// Choppiness Index regime thresholds. Values strictly between are neither
// trending nor choppy.
const (
	TrendingMax = 38.2
	ChoppyMin   = 61.8
)

// TickerSignals is the derived signal set for one ticker. Indicator values
// default to 0 when unavailable; the booleans are computed from whatever
// values were available.
type TickerSignals struct {
	Ticker      string  `json:"ticker"`
	CompanyName string  `json:"company_name"`
	Price       float64 `json:"price"`

	EMA20           float64 `json:"ema_20"`
	EMA50           float64 `json:"ema_50"`
	MACD            float64 `json:"macd"`
	ChoppinessIndex float64 `json:"choppiness_index"`
	ATR14           float64 `json:"atr_14"`

	EMABullish  bool `json:"ema_bullish"`
	EMABearish  bool `json:"ema_bearish"`
	MACDBullish bool `json:"macd_bullish"`
	MACDBearish bool `json:"macd_bearish"`
	Trending    bool `json:"trending"`
	Choppy      bool `json:"choppy"`
}

// compute fills the boolean signals from the numeric values. A zero
// Choppiness Index is the unavailable default and marks neither regime, so
// Trending requires a strictly positive value.
func (s *TickerSignals) compute() {
	s.EMABullish = s.Price > s.EMA20 && s.EMA20 > s.EMA50
	s.EMABearish = s.Price < s.EMA20 && s.EMA20 < s.EMA50
	s.MACDBullish = s.MACD > 0
	s.MACDBearish = s.MACD < 0
	s.Trending = s.ChoppinessIndex > 0 && s.ChoppinessIndex <= TrendingMax
	s.Choppy = s.ChoppinessIndex >= ChoppyMin
}

// Filter selects signal rows. Each boolean that is set requires the matching
// signal; Query is a case-insensitive substring match on ticker or company
// name.
type Filter struct {
	EMABullish  bool `json:"ema_bullish,omitempty"`
	EMABearish  bool `json:"ema_bearish,omitempty"`
	MACDBullish bool `json:"macd_bullish,omitempty"`
	MACDBearish bool `json:"macd_bearish,omitempty"`
	Trending    bool `json:"trending,omitempty"`
	Choppy      bool `json:"choppy,omitempty"`

	Query string `json:"query,omitempty"`
}

// Matches reports whether a signal row passes the filter.
func (f Filter) Matches(s TickerSignals) bool {
	if f.EMABullish && !s.EMABullish {
		return false
	}
	if f.EMABearish && !s.EMABearish {
		return false
	}
	if f.MACDBullish && !s.MACDBullish {
		return false
	}
	if f.MACDBearish && !s.MACDBearish {
		return false
	}
	if f.Trending && !s.Trending {
		return false
	}
	if f.Choppy && !s.Choppy {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(s.Ticker), q) &&
			!strings.Contains(strings.ToLower(s.CompanyName), q) {
			return false
		}
	}
	return true
}

// Apply filters a signal slice, preserving order.
func Apply(rows []TickerSignals, f Filter) []TickerSignals {
	out := make([]TickerSignals, 0, len(rows))
	for _, row := range rows {
		if f.Matches(row) {
			out = append(out, row)
		}
	}
	return out
}
