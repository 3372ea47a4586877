// Package commands implements the screener CLI.
package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "NSE/BSE stock screening, portfolio tracking and backtesting",
	Long: `Equity screener for Indian markets.

Screens NSE/BSE listed companies on fundamental, growth, quality and
technical criteria, tracks a portfolio and watchlist, and backtests
screen performance over historical prices.

Usage:
  go run ./cmd/screener [command]

Examples:
  go run ./cmd/screener api
  go run ./cmd/screener update
  go run ./cmd/screener screen run value --sector Energy
  go run ./cmd/screener backtest run --screen value --from 2023-01-01`,
	SilenceUsage: true,
}

// Execute runs the CLI. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}
