package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/screenerlabs/equityscreener/internal/contracts"
	"github.com/screenerlabs/equityscreener/internal/criteria"
	"github.com/screenerlabs/equityscreener/internal/reports"
)

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Run and list stock screens",
}

var screenListCmd = &cobra.Command{
	Use:   "list",
	Short: "List predefined and saved screens",
	RunE:  runScreenList,
}

var screenRunCmd = &cobra.Command{
	Use:   "run <name>",
	Short: "Run a screen by name",
	Long: `Runs a predefined screen, falling back to a saved custom screen of the
same name.

Example:
  go run ./cmd/screener screen run value
  go run ./cmd/screener screen run quality --sector "Information Technology"
  go run ./cmd/screener screen run growth --min-mcap 5000 --csv growth.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runScreenRun,
}

var (
	screenSectors []string
	screenMinMcap float64
	screenCSVPath string
)

func init() {
	rootCmd.AddCommand(screenCmd)
	screenCmd.AddCommand(screenListCmd)
	screenCmd.AddCommand(screenRunCmd)

	screenRunCmd.Flags().StringArrayVar(&screenSectors, "sector", nil, "restrict to sector (repeatable)")
	screenRunCmd.Flags().Float64Var(&screenMinMcap, "min-mcap", 0, "minimum market cap in crores")
	screenRunCmd.Flags().StringVar(&screenCSVPath, "csv", "", "also export matches to a CSV file")
}

func runScreenList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Println("Predefined screens:")
	for _, s := range criteria.ListPredefined() {
		fmt.Printf("  %-16s %s\n", s.Key, s.Description)
	}

	saved, err := a.registry.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(saved) > 0 {
		fmt.Println("\nSaved screens:")
		for _, s := range saved {
			fmt.Printf("  %-16s %s\n", s.Name, s.Description)
		}
	}
	return nil
}

func runScreenRun(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	name := args[0]
	filters := contracts.AdditionalFilters{Sectors: screenSectors}
	if screenMinMcap > 0 {
		filters.MinMarketCap = &screenMinMcap
	}

	result, err := a.screens.RunPredefined(cmd.Context(), name, filters)
	if errors.Is(err, contracts.ErrUnknownScreen) {
		saved, gerr := a.registry.Get(cmd.Context(), name)
		if gerr != nil {
			return fmt.Errorf("no predefined or saved screen named %q", name)
		}
		result, err = a.screens.RunCustom(cmd.Context(), saved, filters)
	}
	if err != nil {
		return err
	}

	reports.WriteScreenResult(os.Stdout, result)

	if screenCSVPath != "" {
		f, err := os.Create(screenCSVPath)
		if err != nil {
			return fmt.Errorf("create csv: %w", err)
		}
		defer f.Close()
		if err := reports.ExportScreenCSV(f, result); err != nil {
			return err
		}
		fmt.Printf("\nExported to %s\n", screenCSVPath)
	}
	return nil
}
