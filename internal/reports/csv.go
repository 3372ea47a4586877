package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/screenerlabs/equityscreener/internal/contracts"
)

func csvNum(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', 4, 64)
}

// ExportScreenCSV writes a screen result as CSV, one row per match. Absent
// metrics are left as empty cells rather than zeros.
func ExportScreenCSV(w io.Writer, result *contracts.ScreenResult) error {
	cw := csv.NewWriter(w)

	header := []string{
		"ticker", "company_name", "sector", "industry",
		"market_cap", "price",
		"price_to_book", "price_to_earnings", "ev_ebitda",
		"roe", "roce", "debt_equity", "current_ratio", "interest_coverage",
		"opm", "npm",
		"revenue_cagr_3y", "profit_cagr_3y",
		"altman_z_score", "ocf_to_net_profit",
		"ema_20", "ema_50", "macd", "choppiness_index",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range result.Rows {
		record := []string{
			r.Ticker, r.CompanyName, r.Sector, r.Industry,
			csvNum(r.MarketCap), csvNum(r.Price),
			csvNum(r.PriceToBook), csvNum(r.PriceToEarnings), csvNum(r.EVEBITDA),
			csvNum(r.ROE), csvNum(r.ROCE), csvNum(r.DebtEquity), csvNum(r.CurrentRatio), csvNum(r.InterestCoverage),
			csvNum(r.OPM), csvNum(r.NPM),
			csvNum(r.RevenueCAGR3Y), csvNum(r.ProfitCAGR3Y),
			csvNum(r.AltmanZScore), csvNum(r.OCFToNetProfit),
			csvNum(r.EMA20), csvNum(r.EMA50), csvNum(r.MACD), csvNum(r.ChoppinessIndex),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %s: %w", r.Ticker, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportBacktestCSV writes the per-ticker detail of a backtest run as CSV.
func ExportBacktestCSV(w io.Writer, rec *contracts.BacktestRecord) error {
	cw := csv.NewWriter(w)

	header := []string{"ticker", "company_name", "screen_date", "sell_date", "buy_price", "sell_price", "return_pct", "excluded", "reason"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, d := range rec.Details {
		record := []string{
			d.Ticker, d.CompanyName, d.ScreenDate, d.SellDate,
			csvNum(d.BuyPrice), csvNum(d.SellPrice), csvNum(d.ReturnPct),
			strconv.FormatBool(d.Excluded), d.Reason,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %s: %w", d.Ticker, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
