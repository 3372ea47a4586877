package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/screenerlabs/equityscreener/internal/contracts"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database health and last operations",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()

	dbStatus := "ok"
	if err := a.db.Ping(ctx); err != nil {
		dbStatus = "down"
	}
	fmt.Printf("Database: %s\n", dbStatus)

	tickers, err := a.companies.AllTickers(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Instruments: %d\n\n", len(tickers))

	fmt.Println("Last operations:")
	for _, op := range []string{"data_update", "screen", "backtest"} {
		entry, err := a.audit.LastOperation(ctx, op)
		if errors.Is(err, contracts.ErrNotFound) {
			fmt.Printf("  %-12s never ran\n", op)
			continue
		}
		if err != nil {
			return err
		}
		fmt.Printf("  %-12s %s  %s  %s\n",
			op, entry.Timestamp.Format("2006-01-02 15:04:05"), entry.Status, entry.Details)
	}
	return nil
}
