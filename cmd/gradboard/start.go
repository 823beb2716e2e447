package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/gradboard/internal/scheduler"
	"github.com/amishk599/gradboard/internal/store"
)

// Run records older than this are pruned at startup.
const runRetention = 30 * 24 * time.Hour

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the scheduler daemon",
	Long:  "Start the scheduler daemon; blocks until SIGINT/SIGTERM.",
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"interval", cfg.PollingInterval.String(),
		"sources", len(cfg.EnabledSources()),
		"max_results", cfg.Pipeline.MaxResults,
		"notifier", cfg.Notification.Type,
	)

	sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	if err := sqlStore.Cleanup(runRetention); err != nil {
		logger.Warn("pruning old runs failed", "error", err)
	}

	httpClient := newHTTPClient(cfg)
	n := setupNotifier(cfg, httpClient, logger)
	p := buildPipeline(cfg, sqlStore, httpClient, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler(p, n, cfg.PollingInterval, cfg.LockPath, logger)
	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
