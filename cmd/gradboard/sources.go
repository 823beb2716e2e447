package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/amishk599/gradboard/internal/model"
	"github.com/amishk599/gradboard/internal/store"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured sources and their last run",
	Long:  "Reads the config and the run database and prints a table of all configured sources.",
	RunE:  runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	last := make(map[string]model.SourceRun)
	if _, err := os.Stat(cfg.Store.Path); err == nil {
		sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
			os.Exit(1)
		}
		defer sqlStore.Close()

		runs, err := sqlStore.LatestRuns()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read runs: %v\n", err)
			os.Exit(1)
		}
		for _, r := range runs {
			last[r.Source] = r
		}
	}

	fmt.Printf("%-25s %-40s %-8s %-9s %s\n", "Source", "Document", "History", "Status", "Last run")
	fmt.Println(strings.Repeat("─", 110))

	enabled, disabled := 0, 0
	for _, s := range cfg.Sources {
		status := "enabled"
		if !s.Enabled {
			status = "disabled"
			disabled++
		} else {
			enabled++
		}
		doc := fmt.Sprintf("%s/%s@%s:%s", s.Owner, s.Repo, s.Branch, s.Path)
		fmt.Printf("%-25s %-40s %-8s %-9s %s\n", s.Name, doc, s.History, status, describeRun(last[s.Name]))
	}

	fmt.Printf("\nTotal: %d sources (%d enabled, %d disabled)\n", len(cfg.Sources), enabled, disabled)
	return nil
}

func describeRun(r model.SourceRun) string {
	if r.RanAt.IsZero() {
		return "never"
	}
	when := humanize.Time(r.RanAt)
	if !r.OK {
		return fmt.Sprintf("%s, failed: %s", when, r.Error)
	}
	return fmt.Sprintf("%s, %d rows, %d fresh (%s)", when, r.Rows, r.Accepted, r.Duration.Round(time.Millisecond))
}
