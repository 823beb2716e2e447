package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/gradboard/internal/notifier"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Inspect the digest notifier",
}

var notifyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Deliver a one-posting sample digest",
	Long: `Delivers a sample digest holding a single placeholder posting through the
notifier named in notification.type: a log record, a Slack block digest or
a Discord embed. No sources are fetched.`,
	RunE: runNotifyTest,
}

func init() {
	rootCmd.AddCommand(notifyCmd)
	notifyCmd.AddCommand(notifyTestCmd)
}

func runNotifyTest(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	kind := cfg.Notification.Type
	n := setupNotifier(cfg, newHTTPClient(cfg), logger)
	if err := notifier.SendTestMessage(n); err != nil {
		logger.Error("sample digest not delivered", "notifier", kind, "error", err)
		os.Exit(1)
	}
	logger.Info("sample digest delivered", "notifier", kind)
	return nil
}
