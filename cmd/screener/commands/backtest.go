package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/screenerlabs/equityscreener/internal/backtest"
	"github.com/screenerlabs/equityscreener/internal/criteria"
	"github.com/screenerlabs/equityscreener/internal/reports"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Backtest screen performance",
}

var backtestRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a backtest for one screen",
	Long: `Replays a screen and measures forward returns over the holding window.

Example:
  go run ./cmd/screener backtest run --screen value --from 2023-01-01
  go run ./cmd/screener backtest run --screen quality --from 2023-01-01 --holding 180
  go run ./cmd/screener backtest run --screen value --from 2023-01-01 --chart dist.png`,
	RunE: runBacktestRun,
}

var backtestHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past backtest runs for a screen",
	RunE:  runBacktestHistory,
}

var backtestCompareCmd = &cobra.Command{
	Use:   "compare [screen...]",
	Short: "Compare historical backtest performance across screens",
	Long: `Averages each screen's persisted backtest records inside the date window.
With no arguments every predefined screen is compared.

Example:
  go run ./cmd/screener backtest compare --from 2023-01-01 --to 2023-12-31
  go run ./cmd/screener backtest compare value quality --from 2023-01-01`,
	RunE: runBacktestCompare,
}

var (
	backtestScreen  string
	backtestFrom    string
	backtestTo      string
	backtestHolding int
	backtestChart   string
)

func init() {
	rootCmd.AddCommand(backtestCmd)
	backtestCmd.AddCommand(backtestRunCmd)
	backtestCmd.AddCommand(backtestHistoryCmd)
	backtestCmd.AddCommand(backtestCompareCmd)

	backtestRunCmd.Flags().StringVar(&backtestScreen, "screen", "", "screen name (required)")
	backtestRunCmd.Flags().StringVar(&backtestFrom, "from", "", "start date YYYY-MM-DD (required)")
	backtestRunCmd.Flags().StringVar(&backtestTo, "to", "", "end date YYYY-MM-DD (default: today)")
	backtestRunCmd.Flags().IntVar(&backtestHolding, "holding", backtest.DefaultHoldingDays, "holding period in days")
	backtestRunCmd.Flags().StringVar(&backtestChart, "chart", "", "write a return distribution PNG to this path")
	backtestRunCmd.MarkFlagRequired("screen")
	backtestRunCmd.MarkFlagRequired("from")

	backtestHistoryCmd.Flags().StringVar(&backtestScreen, "screen", "", "screen name (required)")
	backtestHistoryCmd.MarkFlagRequired("screen")

	backtestCompareCmd.Flags().StringVar(&backtestFrom, "from", "", "window start YYYY-MM-DD (required)")
	backtestCompareCmd.Flags().StringVar(&backtestTo, "to", "", "window end YYYY-MM-DD (default: today)")
	backtestCompareCmd.MarkFlagRequired("from")
}

func parseDateFlags() (start, end time.Time, err error) {
	start, err = time.Parse("2006-01-02", backtestFrom)
	if err != nil {
		return start, end, fmt.Errorf("invalid start date: %w", err)
	}
	if backtestTo != "" {
		end, err = time.Parse("2006-01-02", backtestTo)
		if err != nil {
			return start, end, fmt.Errorf("invalid end date: %w", err)
		}
	} else {
		end = time.Now()
	}
	return start, end, nil
}

func runBacktestRun(cmd *cobra.Command, args []string) error {
	start, end, err := parseDateFlags()
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	rec, err := a.backtester.Run(cmd.Context(), backtest.Config{
		ScreenName:  backtestScreen,
		StartDate:   start,
		EndDate:     end,
		HoldingDays: backtestHolding,
	})
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	reports.WriteBacktest(os.Stdout, rec)

	if backtestChart != "" {
		f, err := os.Create(backtestChart)
		if err != nil {
			return fmt.Errorf("create chart: %w", err)
		}
		defer f.Close()
		if err := reports.ReturnDistributionChart(f, rec); err != nil {
			return err
		}
		fmt.Printf("\nChart saved as %s\n", backtestChart)
	}
	return nil
}

func runBacktestHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.backtester.History(cmd.Context(), backtestScreen)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Printf("No backtests recorded for %s\n", backtestScreen)
		return nil
	}
	for _, rec := range records {
		reports.WriteBacktest(os.Stdout, rec)
		fmt.Println()
	}
	return nil
}

func runBacktestCompare(cmd *cobra.Command, args []string) error {
	start, end, err := parseDateFlags()
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	names := args
	if len(names) == 0 {
		names = criteria.PredefinedKeys()
	}

	rows, err := a.backtester.CompareScreens(cmd.Context(), names, start, end)
	if err != nil {
		return err
	}
	reports.WriteComparison(os.Stdout, rows)
	return nil
}
