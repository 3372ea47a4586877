package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update [ticker...]",
	Short: "Refresh fundamental data",
	Long: `Fetches fundamentals, profile and annual statements for each ticker and
recomputes the derived, growth and quality metrics. With no arguments every
instrument in the database is refreshed.

Example:
  go run ./cmd/screener update
  go run ./cmd/screener update RELIANCE TCS INFY`,
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	var tickers []string
	for _, arg := range args {
		tickers = append(tickers, strings.ToUpper(strings.TrimSpace(arg)))
	}

	result, err := a.ingester.Refresh(cmd.Context(), tickers)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	fmt.Printf("Refreshed %d tickers: %d ok, %d failed\n", result.Total, result.Succeeded, result.Failed)
	for _, te := range result.Errors {
		fmt.Printf("  %-12s %s\n", te.Ticker, te.Err)
	}
	return nil
}
