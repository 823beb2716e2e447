package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/gradboard/internal/model"
	"github.com/amishk599/gradboard/internal/recency"
	"github.com/amishk599/gradboard/internal/table"
)

var (
	parseBaseURL      string
	parseSource       string
	parseSearchSuffix string
	parseRevision     string
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a local listing document and print every row with its verdict",
	Long:  "Offline parser check: finds the listing table in a markdown or HTML file and prints each valid row with its recency verdict. Needs no config.",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseBaseURL, "base-url", "", "URL relative links resolve against")
	parseCmd.Flags().StringVar(&parseSource, "source", "local", "source identifier stamped on postings")
	parseCmd.Flags().StringVar(&parseSearchSuffix, "search-suffix", "new grad software engineer", "suffix of generated search links")
	parseCmd.Flags().StringVar(&parseRevision, "revision", "", "RFC 3339 time of the latest document revision")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	doc := model.Document{Text: string(data), FetchedAt: time.Now()}
	if parseRevision != "" {
		rev, err := time.Parse(time.RFC3339, parseRevision)
		if err != nil {
			return fmt.Errorf("parse --revision: %w", err)
		}
		doc.Revisions = []time.Time{rev}
	}

	classifier := recency.NewClassifier(doc.FetchedAt, recency.DefaultMaxAgeDays, recency.DefaultHistoryWindow)
	parser := table.NewParser(classifier, parseSearchSuffix)
	entries, stats := parser.Scan(table.Origin{Source: parseSource, BaseURL: parseBaseURL}, doc)

	if stats.Format == "" {
		fmt.Println("No listing table found.")
		return nil
	}

	fmt.Printf("%-6s %-8s %-22s %-34s %-20s %s\n", "Keep", "Signal", "Company", "Title", "Location", "Age")
	fmt.Println(strings.Repeat("─", 100))
	recent := 0
	for _, e := range entries {
		keep := "no"
		if e.Verdict.Recent {
			keep = "yes"
			recent++
		}
		fmt.Printf("%-6s %-8s %-22s %-34s %-20s %s\n",
			keep, e.Verdict.Signal, truncate(e.Row.Company, 22), truncate(e.Row.Title, 34), truncate(e.Row.Location, 20), e.Row.Age)
	}

	fmt.Printf("\nFormat: %s  rows: %d  rejected: %d  recent: %d\n", stats.Format, stats.Rows, stats.Rejected, recent)
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
