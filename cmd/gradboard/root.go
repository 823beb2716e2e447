package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/gradboard/internal/config"
	"github.com/amishk599/gradboard/internal/filter"
	"github.com/amishk599/gradboard/internal/model"
	"github.com/amishk599/gradboard/internal/notifier"
	"github.com/amishk599/gradboard/internal/pipeline"
	"github.com/amishk599/gradboard/internal/ratelimit"
	"github.com/amishk599/gradboard/internal/retry"
	"github.com/amishk599/gradboard/internal/source"
	"github.com/amishk599/gradboard/internal/table"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "gradboard",
	Short: "Fresh internship and new-grad openings, daily",
	Long:  "Gradboard reads crowd-maintained job tables on GitHub and delivers the freshest openings.",
	// Default to `start` so that `gradboard` with no args runs the daemon.
	RunE:         runStart,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: GRADBOARD_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > GRADBOARD_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("GRADBOARD_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	case "discord":
		logger.Info("using discord notifier")
		return notifier.NewDiscordNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// newHTTPClient returns the client shared by every source. All GitHub
// requests go through one per-host rate limiter.
func newHTTPClient(cfg *config.Config) *http.Client {
	limiter := ratelimit.NewHostLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	return &http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: ratelimit.NewTransport(http.DefaultTransport, limiter),
	}
}

func newFilter(cfg *config.Config) *filter.TitleAndLocationFilter {
	return filter.NewTitleAndLocationFilter(filter.Criteria{
		TitleKeywords:    cfg.Filters.TitleKeywords,
		TitleExclude:     cfg.Filters.TitleExcludeKeywords,
		Locations:        cfg.Filters.Locations,
		ExcludeLocations: cfg.Filters.ExcludeLocations,
	})
}

func createHistory(cfg *config.Config, sc config.SourceConfig, httpClient *http.Client) source.HistoryFetcher {
	ref := sc.Ref()
	switch sc.History {
	case "atom":
		return source.NewAtomHistory(ref, cfg.GitHub.WebBaseURL, cfg.HistoryDepth, httpClient)
	default:
		return source.NewAPIHistory(ref, cfg.GitHub.APIBaseURL, cfg.GitHub.Token, cfg.HistoryDepth, httpClient)
	}
}

func buildSource(cfg *config.Config, sc config.SourceConfig, httpClient *http.Client, logger *slog.Logger) pipeline.Source {
	ref := sc.Ref()
	var fetcher model.DocumentFetcher = source.NewGitHubSource(
		ref,
		cfg.GitHub.RawBaseURL,
		cfg.GitHub.Token,
		httpClient,
		createHistory(cfg, sc, httpClient),
		logger,
	)
	fetcher = retry.NewRetryFetcher(fetcher, cfg.Retry.MaxRetries, cfg.Retry.BaseDelay, logger)

	return pipeline.Source{
		Name:    sc.Name,
		Fetcher: fetcher,
		Origin: table.Origin{
			Source:  ref.ID(),
			BaseURL: source.BlobBaseURL(cfg.GitHub.WebBaseURL, ref),
		},
	}
}

func buildSources(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) []pipeline.Source {
	var sources []pipeline.Source
	for _, sc := range cfg.EnabledSources() {
		sources = append(sources, buildSource(cfg, sc, httpClient, logger))
		logger.Debug("registered source", "name", sc.Name, "repo", sc.Owner+"/"+sc.Repo, "history", sc.History)
	}
	return sources
}

func pipelineOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		MaxResults:    cfg.Pipeline.MaxResults,
		FreshWindow:   cfg.Pipeline.FreshWindow,
		MaxAgeDays:    cfg.Pipeline.MaxAgeDays,
		HistoryWindow: cfg.Pipeline.HistoryWindow,
		SearchSuffix:  cfg.Pipeline.SearchSuffix,
	}
}

func buildPipeline(cfg *config.Config, rs model.RunStore, httpClient *http.Client, logger *slog.Logger) *pipeline.Pipeline {
	return pipeline.New(buildSources(cfg, httpClient, logger), newFilter(cfg), rs, pipelineOptions(cfg), logger)
}
