// Package reports renders core outputs for the CLI: console tables, CSV
// exports and backtest charts.
package reports

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/screenerlabs/equityscreener/internal/contracts"
	"github.com/screenerlabs/equityscreener/internal/signals"
)

func num(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *p)
}

func flag(b bool) string {
	if b {
		return "Y"
	}
	return "-"
}

// WriteScreenResult renders a screen result as an aligned console table
// followed by its summary statistics.
func WriteScreenResult(w io.Writer, result *contracts.ScreenResult) {
	fmt.Fprintf(w, "Screen: %s (%d matches)\n\n", result.ScreenName, len(result.Rows))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TICKER\tCOMPANY\tSECTOR\tMCAP(CR)\tROE\tP/B\tD/E\tEV/EBITDA\tOPM")
	for _, r := range result.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Ticker, r.CompanyName, r.Sector,
			num(r.MarketCap), num(r.ROE), num(r.PriceToBook), num(r.DebtEquity),
			num(r.EVEBITDA), num(r.OPM))
	}
	tw.Flush()

	s := result.Stats
	fmt.Fprintf(w, "\nTotal: %d  Avg ROE: %s  Median P/B: %s  Median D/E: %s  Avg MCap: %s\n",
		s.TotalStocks, num(s.AvgROE), num(s.MedianPB), num(s.MedianDE), num(s.AvgMarketCap))
	for sector, count := range s.Sectors {
		fmt.Fprintf(w, "  %-24s %d\n", sector, count)
	}
}

// WriteBacktest renders one backtest record with its aggregates and the
// per-ticker detail, excluded entries marked.
func WriteBacktest(w io.Writer, rec *contracts.BacktestRecord) {
	fmt.Fprintf(w, "Backtest %s: %s  %s to %s (%d day hold)\n\n",
		rec.ID, rec.ScreenName,
		rec.StartDate.Format("2006-01-02"), rec.EndDate.Format("2006-01-02"), rec.HoldingDays)

	fmt.Fprintf(w, "Screened: %d  In sample: %d  Winners: %d  Losers: %d\n",
		rec.TotalScreened, rec.StocksPassed, rec.WinningStocks, rec.LosingStocks)
	fmt.Fprintf(w, "Avg: %s%%  Median: %s%%  Min: %s%%  Max: %s%%  Stdev: %s\n",
		num(rec.AverageReturn), num(rec.MedianReturn), num(rec.MinReturn), num(rec.MaxReturn), num(rec.StdReturn))
	if rec.BestPerformer != "" {
		fmt.Fprintf(w, "Best: %s  Worst: %s\n", rec.BestPerformer, rec.WorstPerformer)
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TICKER\tBUY\tSELL\tRETURN%\tNOTE")
	for _, d := range rec.Details {
		note := ""
		if d.Excluded {
			note = "excluded: " + d.Reason
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			d.Ticker, num(d.BuyPrice), num(d.SellPrice), num(d.ReturnPct), note)
	}
	tw.Flush()
}

// WriteComparison renders the screen comparison ranking.
func WriteComparison(w io.Writer, rows []contracts.ScreenComparison) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCREEN\tRUNS\tAVG RETURN%\tMEDIAN RETURN%\tAVG PASSED")
	for _, c := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n",
			c.ScreenName, c.NumBacktests, num(c.AvgReturn), num(c.MedianReturn), num(c.AvgStocksPassed))
	}
	tw.Flush()
}

// WriteHoldings renders the portfolio with per-lot P&L.
func WriteHoldings(w io.Writer, holdings []*contracts.Holding) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTICKER\tQTY\tBUY\tCURRENT\tP&L\tRETURN%")
	for _, h := range holdings {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%s\t%s\t%s\n",
			h.ID, h.Ticker, h.Quantity, h.PurchasePrice,
			num(h.CurrentPrice), num(h.UnrealizedPnL()), num(h.ReturnPct()))
	}
	tw.Flush()
}

// WriteWatchlist renders the watchlist with target upside.
func WriteWatchlist(w io.Writer, entries []*contracts.WatchlistEntry) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TICKER\tCOMPANY\tCURRENT\tTARGET\tUPSIDE%\tNOTES")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Ticker, e.CompanyName, num(e.CurrentPrice), num(e.TargetPrice), num(e.UpsidePct), e.Notes)
	}
	tw.Flush()
}

// WriteSignals renders derived technical signals.
func WriteSignals(w io.Writer, rows []signals.TickerSignals) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TICKER\tPRICE\tEMA20\tEMA50\tMACD\tCI\tEMA+\tMACD+\tTREND\tCHOP")
	for _, s := range rows {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%s\t%s\t%s\t%s\n",
			s.Ticker, s.Price, s.EMA20, s.EMA50, s.MACD, s.ChoppinessIndex,
			flag(s.EMABullish), flag(s.MACDBullish), flag(s.Trending), flag(s.Choppy))
	}
	tw.Flush()
}
