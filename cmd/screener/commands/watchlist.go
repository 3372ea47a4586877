package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/screenerlabs/equityscreener/internal/contracts"
	"github.com/screenerlabs/equityscreener/internal/reports"
)

var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Track tickers without holding them",
}

var watchlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the watchlist with current prices and target upside",
	RunE:  runWatchlistList,
}

var watchlistAddCmd = &cobra.Command{
	Use:   "add <ticker> [target-price]",
	Short: "Add a ticker to the watchlist",
	Long: `Adding a ticker that is already watched is a no-op.

Example:
  go run ./cmd/screener watchlist add INFY
  go run ./cmd/screener watchlist add INFY 2000 --notes "await Q4 results"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runWatchlistAdd,
}

var watchlistRemoveCmd = &cobra.Command{
	Use:   "remove <ticker>",
	Short: "Remove a ticker from the watchlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatchlistRemove,
}

var watchlistNotes string

func init() {
	rootCmd.AddCommand(watchlistCmd)
	watchlistCmd.AddCommand(watchlistListCmd)
	watchlistCmd.AddCommand(watchlistAddCmd)
	watchlistCmd.AddCommand(watchlistRemoveCmd)

	watchlistAddCmd.Flags().StringVar(&watchlistNotes, "notes", "", "free-form notes")
}

func runWatchlistList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.watchlist.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("Watchlist is empty")
		return nil
	}
	reports.WriteWatchlist(os.Stdout, entries)
	return nil
}

func runWatchlistAdd(cmd *cobra.Command, args []string) error {
	e := &contracts.WatchlistEntry{
		Ticker: args[0],
		Notes:  watchlistNotes,
	}
	if len(args) == 2 {
		target, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid target price: %w", err)
		}
		e.TargetPrice = &target
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.watchlist.Add(cmd.Context(), e); err != nil {
		return err
	}
	fmt.Printf("Watching %s\n", e.Ticker)
	return nil
}

func runWatchlistRemove(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.watchlist.Remove(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Stopped watching %s\n", args[0])
	return nil
}
