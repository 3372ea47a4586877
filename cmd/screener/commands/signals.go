package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/screenerlabs/equityscreener/internal/reports"
	"github.com/screenerlabs/equityscreener/internal/signals"
)

var signalsCmd = &cobra.Command{
	Use:   "signals [ticker...]",
	Short: "Derive technical signals",
	Long: `Derives EMA, MACD and choppiness signals from the latest technical
snapshots, backfilling from price history where snapshots are missing.
With no arguments every instrument is evaluated.

Example:
  go run ./cmd/screener signals
  go run ./cmd/screener signals RELIANCE TCS
  go run ./cmd/screener signals --ema-bullish --trending`,
	RunE: runSignals,
}

var (
	signalsEMABullish  bool
	signalsEMABearish  bool
	signalsMACDBullish bool
	signalsMACDBearish bool
	signalsTrending    bool
	signalsChoppy      bool
)

func init() {
	rootCmd.AddCommand(signalsCmd)

	signalsCmd.Flags().BoolVar(&signalsEMABullish, "ema-bullish", false, "price above EMA20 above EMA50")
	signalsCmd.Flags().BoolVar(&signalsEMABearish, "ema-bearish", false, "price below EMA20 below EMA50")
	signalsCmd.Flags().BoolVar(&signalsMACDBullish, "macd-bullish", false, "MACD above zero")
	signalsCmd.Flags().BoolVar(&signalsMACDBearish, "macd-bearish", false, "MACD below zero")
	signalsCmd.Flags().BoolVar(&signalsTrending, "trending", false, "choppiness index below 38.2")
	signalsCmd.Flags().BoolVar(&signalsChoppy, "choppy", false, "choppiness index above 61.8")
}

func runSignals(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	companies, err := a.companies.List(cmd.Context())
	if err != nil {
		return err
	}

	if len(args) > 0 {
		want := make(map[string]bool, len(args))
		for _, arg := range args {
			want[strings.ToUpper(strings.TrimSpace(arg))] = true
		}
		filtered := companies[:0]
		for _, c := range companies {
			if want[c.Ticker] {
				filtered = append(filtered, c)
			}
		}
		companies = filtered
	}
	if len(companies) == 0 {
		fmt.Println("No matching instruments")
		return nil
	}

	rows := a.deriver.ForCompanies(cmd.Context(), companies)
	rows = signals.Apply(rows, signals.Filter{
		EMABullish:  signalsEMABullish,
		EMABearish:  signalsEMABearish,
		MACDBullish: signalsMACDBullish,
		MACDBearish: signalsMACDBearish,
		Trending:    signalsTrending,
		Choppy:      signalsChoppy,
	})

	if len(rows) == 0 {
		fmt.Println("No tickers matched the signal filter")
		return nil
	}
	reports.WriteSignals(os.Stdout, rows)
	return nil
}
