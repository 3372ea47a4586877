package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/screenerlabs/equityscreener/internal/api"
	"github.com/screenerlabs/equityscreener/internal/api/handlers"
	"github.com/screenerlabs/equityscreener/internal/scheduler"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Starts the HTTP API server.

Endpoints:
  GET  /health                  - Health check
  GET  /api/screens             - List screens
  POST /api/screens/{key}/run   - Run a predefined screen
  POST /api/screens/run         - Run an ad-hoc screen
  GET  /api/portfolio           - Portfolio holdings
  POST /api/backtest            - Run a backtest
  POST /api/update              - Trigger a data refresh

Example:
  go run ./cmd/screener api
  go run ./cmd/screener api --port 8085`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)
	apiCmd.Flags().StringVar(&apiPort, "port", "", "listen port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	a.log.WithFields(map[string]interface{}{
		"port": a.cfg.Port,
		"env":  a.cfg.Env,
	}).Info("Initializing API server")

	h := handlers.New(handlers.Config{
		Screens:    a.screens,
		Registry:   a.registry,
		Companies:  a.companies,
		Snapshots:  a.snapshots,
		Deriver:    a.deriver,
		Tracker:    a.tracker,
		Watchlist:  a.watchlist,
		Backtester: a.backtester,
		Ingester:   a.ingester,
		Audit:      a.audit,
		DB:         a.db,
		Logger:     a.log,
	})

	router := api.NewRouter(h, a.log)
	server := api.New(a.cfg, a.log, router)

	// Nightly refresh, when enabled
	var sched *scheduler.Scheduler
	if a.cfg.Scheduler.Enabled {
		sched = scheduler.New(a.log)
		job := scheduler.NewRefreshJob(a.ingester, a.cfg.Scheduler.RefreshCron)
		if err := sched.Register(job); err != nil {
			return err
		}
		sched.Start()
	}

	go func() {
		if err := server.Start(); err != nil {
			a.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	a.log.Info("Shutting down server...")

	if sched != nil {
		sched.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
