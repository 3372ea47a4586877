// Package market implements the Yahoo Finance market data provider for
// Indian equities.
package market

import "strings"

// NormalizeSymbol converts a bare ticker to Yahoo Finance format. NSE is the
// default exchange; an explicit .NS or .BO suffix is respected.
func NormalizeSymbol(ticker string) string {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if strings.HasSuffix(t, ".NS") || strings.HasSuffix(t, ".BO") {
		return t
	}
	return t + ".NS"
}

// ExchangeOf reports the exchange implied by a normalized symbol.
func ExchangeOf(symbol string) string {
	if strings.HasSuffix(strings.ToUpper(symbol), ".BO") {
		return "BSE"
	}
	return "NSE"
}

// BareTicker strips the exchange suffix from a normalized symbol.
func BareTicker(symbol string) string {
	t := strings.ToUpper(strings.TrimSpace(symbol))
	t = strings.TrimSuffix(t, ".NS")
	t = strings.TrimSuffix(t, ".BO")
	return t
}
