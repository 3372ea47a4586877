package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/screenerlabs/equityscreener/internal/reports"
)

var stockCmd = &cobra.Command{
	Use:   "stock <ticker>",
	Short: "Show the latest metrics for one instrument",
	Long: `Prints the company record and the latest snapshot of every metric
family.

Example:
  go run ./cmd/screener stock RELIANCE
  go run ./cmd/screener stock TCS --chart tcs.png`,
	Args: cobra.ExactArgs(1),
	RunE: runStock,
}

var stockChart string

func init() {
	rootCmd.AddCommand(stockCmd)
	stockCmd.Flags().StringVar(&stockChart, "chart", "", "write a one year price chart PNG to this path")
}

func runStock(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	ticker := strings.ToUpper(strings.TrimSpace(args[0]))

	company, err := a.companies.Get(cmd.Context(), ticker)
	if err != nil {
		return err
	}
	row, err := a.snapshots.LatestMetrics(cmd.Context(), ticker)
	if err != nil {
		return err
	}

	fmt.Printf("%s  %s\n", company.Ticker, company.CompanyName)
	fmt.Printf("%s / %s\n\n", company.Sector, company.Industry)

	p := func(label string, v *float64) {
		if v == nil {
			fmt.Printf("  %-20s -\n", label)
			return
		}
		fmt.Printf("  %-20s %.2f\n", label, *v)
	}

	fmt.Println("Valuation")
	p("Market cap (cr)", row.MarketCap)
	p("Price", row.Price)
	p("P/E", row.PriceToEarnings)
	p("P/B", row.PriceToBook)
	p("EV/EBITDA", row.EVEBITDA)

	fmt.Println("Profitability")
	p("ROE", row.ROE)
	p("ROCE", row.ROCE)
	p("OPM", row.OPM)
	p("NPM", row.NPM)

	fmt.Println("Balance sheet")
	p("Debt/Equity", row.DebtEquity)
	p("Current ratio", row.CurrentRatio)
	p("Interest coverage", row.InterestCoverage)

	fmt.Println("Growth")
	p("Revenue CAGR 3Y", row.RevenueCAGR3Y)
	p("Profit CAGR 3Y", row.ProfitCAGR3Y)

	fmt.Println("Quality")
	p("Altman Z", row.AltmanZScore)
	p("OCF/Net profit", row.OCFToNetProfit)

	fmt.Println("Technical")
	p("EMA 20", row.EMA20)
	p("EMA 50", row.EMA50)
	p("MACD", row.MACD)
	p("Choppiness", row.ChoppinessIndex)

	if stockChart != "" {
		to := time.Now()
		from := to.AddDate(-1, 0, 0)
		bars, err := a.market.History(cmd.Context(), ticker, from, to)
		if err != nil {
			return fmt.Errorf("fetch price history: %w", err)
		}
		f, err := os.Create(stockChart)
		if err != nil {
			return fmt.Errorf("create chart: %w", err)
		}
		defer f.Close()
		if err := reports.PriceChart(f, ticker, bars); err != nil {
			return err
		}
		fmt.Printf("\nChart saved as %s\n", stockChart)
	}
	return nil
}
