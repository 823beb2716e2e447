package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/amishk599/gradboard/internal/model"
	"github.com/amishk599/gradboard/internal/pipeline"
	"github.com/amishk599/gradboard/internal/store"
)

var (
	checkJSON   bool
	checkNotify bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the pipeline once, print the result, exit",
	Long:  "One-shot run: reads every enabled source, prints the final list and per-source reports. Does not write to the store.",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the result as JSON")
	checkCmd.Flags().BoolVar(&checkNotify, "notify", false, "also deliver the result through the configured notifier")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("check mode: no runs will be recorded")

	httpClient := newHTTPClient(cfg)
	p := buildPipeline(cfg, store.NewNopStore(), httpClient, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res := p.Run(ctx)

	if checkJSON {
		if err := writeResultJSON(os.Stdout, res); err != nil {
			return err
		}
	} else {
		writeResult(os.Stdout, res)
	}

	if checkNotify {
		n := setupNotifier(cfg, httpClient, logger)
		if err := n.Notify(res.Postings); err != nil {
			logger.Error("notification failed", "error", err)
			os.Exit(1)
		}
	}
	return nil
}

type jsonSource struct {
	Name       string `json:"name"`
	Repo       string `json:"repo"`
	Format     string `json:"format,omitempty"`
	Rows       int    `json:"rows"`
	Rejected   int    `json:"rejected"`
	Accepted   int    `json:"accepted"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

type jsonResult struct {
	Status   string          `json:"status"`
	RanAt    time.Time       `json:"ran_at"`
	Error    string          `json:"error,omitempty"`
	Postings []model.Posting `json:"postings"`
	Sources  []jsonSource    `json:"sources"`
}

func writeResultJSON(w io.Writer, res pipeline.Result) error {
	out := jsonResult{
		Status:   string(res.Status),
		RanAt:    res.RanAt,
		Postings: res.Postings,
		Sources:  make([]jsonSource, 0, len(res.Sources)),
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	for _, s := range res.Sources {
		js := jsonSource{
			Name:       s.Name,
			Repo:       s.Source,
			Format:     s.Format,
			Rows:       s.Rows,
			Rejected:   s.Rejected,
			Accepted:   s.Accepted,
			DurationMS: s.Duration.Milliseconds(),
		}
		if s.Err != nil {
			js.Error = s.Err.Error()
		}
		out.Sources = append(out.Sources, js)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeResult(w io.Writer, res pipeline.Result) {
	fmt.Fprintf(w, "\nStatus: %s\n", res.Status)
	if res.Err != nil {
		fmt.Fprintf(w, "Error:  %v\n", res.Err)
	}

	fmt.Fprintf(w, "\n%-25s %-8s %6s %8s %8s  %s\n", "Source", "Format", "Rows", "Accepted", "Took", "Error")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	for _, s := range res.Sources {
		errText := ""
		if s.Err != nil {
			errText = s.Err.Error()
		}
		format := s.Format
		if format == "" {
			format = "-"
		}
		fmt.Fprintf(w, "%-25s %-8s %6d %8d %8s  %s\n",
			s.Name, format, s.Rows, s.Accepted, s.Duration.Round(time.Millisecond), errText)
	}

	fmt.Fprintf(w, "\n%d postings\n\n", len(res.Postings))
	for i, p := range res.Postings {
		fmt.Fprintf(w, "%2d. %s: %s\n", i+1, p.Company, p.Title)
		fmt.Fprintf(w, "    %s · %s · %s\n", p.Location, p.Source, humanize.RelTime(p.DateAdded, res.RanAt, "ago", "from now"))
		fmt.Fprintf(w, "    %s\n", p.Link)
	}
}
