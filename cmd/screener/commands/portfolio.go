package commands

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/screenerlabs/equityscreener/internal/contracts"
	"github.com/screenerlabs/equityscreener/internal/reports"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Track portfolio holdings",
}

var portfolioListCmd = &cobra.Command{
	Use:   "list",
	Short: "List holdings",
	RunE:  runPortfolioList,
}

var portfolioAddCmd = &cobra.Command{
	Use:   "add <ticker> <quantity> <price>",
	Short: "Add a holding",
	Long: `Adds one purchase lot. The same ticker can be held in several lots as
long as quantity, price or date differ.

Example:
  go run ./cmd/screener portfolio add RELIANCE 10 2450.50
  go run ./cmd/screener portfolio add TCS 5 3600 --date 2024-03-15 --notes "long term"`,
	Args: cobra.ExactArgs(3),
	RunE: runPortfolioAdd,
}

var portfolioRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a holding by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runPortfolioRemove,
}

var portfolioRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh current prices for all holdings",
	RunE:  runPortfolioRefresh,
}

var portfolioSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Portfolio-level P&L summary",
	RunE:  runPortfolioSummary,
}

var (
	portfolioDate  string
	portfolioNotes string
)

func init() {
	rootCmd.AddCommand(portfolioCmd)
	portfolioCmd.AddCommand(portfolioListCmd)
	portfolioCmd.AddCommand(portfolioAddCmd)
	portfolioCmd.AddCommand(portfolioRemoveCmd)
	portfolioCmd.AddCommand(portfolioRefreshCmd)
	portfolioCmd.AddCommand(portfolioSummaryCmd)

	portfolioAddCmd.Flags().StringVar(&portfolioDate, "date", "", "purchase date YYYY-MM-DD (default: today)")
	portfolioAddCmd.Flags().StringVar(&portfolioNotes, "notes", "", "free-form notes")
}

func runPortfolioList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	holdings, err := a.tracker.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(holdings) == 0 {
		fmt.Println("Portfolio is empty")
		return nil
	}
	reports.WriteHoldings(os.Stdout, holdings)
	return nil
}

func runPortfolioAdd(cmd *cobra.Command, args []string) error {
	quantity, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid quantity: %w", err)
	}
	price, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid price: %w", err)
	}

	h := &contracts.Holding{
		Ticker:        args[0],
		Quantity:      quantity,
		PurchasePrice: price,
		Notes:         portfolioNotes,
	}
	if portfolioDate != "" {
		h.PurchaseDate, err = time.Parse("2006-01-02", portfolioDate)
		if err != nil {
			return fmt.Errorf("invalid date: %w", err)
		}
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.tracker.Add(cmd.Context(), h); err != nil {
		return err
	}
	fmt.Printf("Added %s x%.2f @ %.2f (id %d)\n", h.Ticker, h.Quantity, h.PurchasePrice, h.ID)
	return nil
}

func runPortfolioRemove(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.tracker.Remove(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Printf("Removed holding %d\n", id)
	return nil
}

func runPortfolioRefresh(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	updated, failed, err := a.tracker.RefreshPrices(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("Prices refreshed: %d updated, %d failed\n", updated, failed)
	return nil
}

func runPortfolioSummary(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := a.tracker.Summary(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Holdings:      %d\n", s.TotalHoldings)
	fmt.Printf("Invested:      %.2f\n", s.TotalInvested)
	fmt.Printf("Current value: %.2f\n", s.CurrentValue)
	fmt.Printf("P&L:           %.2f (%+.2f%%)\n", s.TotalPnL, s.TotalReturnPct)
	if s.BestPerformer != "" {
		fmt.Printf("Best:          %s\n", s.BestPerformer)
		fmt.Printf("Worst:         %s\n", s.WorstPerformer)
	}
	return nil
}
