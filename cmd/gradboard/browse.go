package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/gradboard/internal/browse"
	"github.com/amishk599/gradboard/internal/config"
	"github.com/amishk599/gradboard/internal/model"
	"github.com/amishk599/gradboard/internal/pipeline"
	"github.com/amishk599/gradboard/internal/recency"
	"github.com/amishk599/gradboard/internal/store"
	"github.com/amishk599/gradboard/internal/table"
)

const allSourcesLabel = "All sources (full run)"

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse listings interactively (TUI)",
	Long:  "Shows the source picker, then a split-pane view of every row next to what would be delivered.",
	RunE:  runBrowseCmd,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowseCmd(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Any log output while the TUI owns the terminal corrupts the display.
	silent := slog.New(slog.NewTextHandler(io.Discard, nil))
	runBrowse(cfg, newHTTPClient(cfg), silent)
	return nil
}

func runBrowse(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) {
	enabled := cfg.EnabledSources()
	labels := []string{allSourcesLabel}
	for _, s := range enabled {
		labels = append(labels, fmt.Sprintf("%s (%s/%s)", s.Name, s.Owner, s.Repo))
	}

	for {
		choice, err := browse.RunPicker(labels)
		if err != nil {
			fmt.Printf("Picker error: %v\n", err)
			return
		}
		if choice < 0 {
			return
		}

		var load browse.LoadFunc
		if choice == 0 {
			p := buildPipeline(cfg, store.NewNopStore(), httpClient, logger)
			load = fullRunSnapshot(p)
		} else {
			sc := enabled[choice-1]
			load = sourceSnapshot(cfg, buildSource(cfg, sc, httpClient, logger))
		}

		snap, err := browse.RunLoader(labels[choice], load, 2*time.Minute)
		if errors.Is(err, browse.ErrCancelled) {
			return
		}
		if err != nil {
			fmt.Printf("Load failed: %v\n", err)
			continue
		}

		quit, err := browse.RunViewer(snap)
		if err != nil {
			fmt.Printf("Viewer error: %v\n", err)
			return
		}
		if quit {
			return
		}
	}
}

// fullRunSnapshot shows every merged recent row next to the final list.
func fullRunSnapshot(p *pipeline.Pipeline) browse.LoadFunc {
	return func(ctx context.Context) (browse.Snapshot, error) {
		res := p.Run(ctx)
		snap := browse.Snapshot{
			Label:   allSourcesLabel,
			All:     postingItems(res.Merged),
			Kept:    postingItems(res.Postings),
			Summary: fmt.Sprintf("status %s, %d/%d sources failed", res.Status, len(res.Failed()), len(res.Sources)),
			Now:     res.RanAt,
		}
		return snap, nil
	}
}

// sourceSnapshot shows every valid row of one document next to its recent rows.
func sourceSnapshot(cfg *config.Config, src pipeline.Source) browse.LoadFunc {
	return func(ctx context.Context) (browse.Snapshot, error) {
		doc, err := src.Fetcher.FetchDocument(ctx)
		if err != nil {
			return browse.Snapshot{}, err
		}

		now := time.Now()
		classifier := recency.NewClassifier(now, cfg.Pipeline.MaxAgeDays, cfg.Pipeline.HistoryWindow)
		entries, stats := table.NewParser(classifier, cfg.Pipeline.SearchSuffix).Scan(src.Origin, doc)

		snap := browse.Snapshot{Label: src.Name, Now: now}
		for _, e := range entries {
			it := browse.Item{Posting: e.Posting(src.Origin.Source), Signal: e.Verdict.Signal, Recent: e.Verdict.Recent}
			snap.All = append(snap.All, it)
			if it.Recent {
				snap.Kept = append(snap.Kept, it)
			}
		}
		format := stats.Format
		if format == "" {
			format = "no table"
		}
		snap.Summary = fmt.Sprintf("%s, %d rows, %d rejected", format, stats.Rows, stats.Rejected)
		return snap, nil
	}
}

func postingItems(postings []model.Posting) []browse.Item {
	items := make([]browse.Item, 0, len(postings))
	for _, p := range postings {
		items = append(items, browse.Item{Posting: p, Recent: true})
	}
	return items
}
