package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amishk599/gradboard/internal/model"
)

// Config is the root configuration for gradboard.
type Config struct {
	PollingInterval time.Duration
	HTTPTimeout     time.Duration
	HistoryDepth    int
	LockPath        string
	GitHub          GitHubConfig
	Sources         []SourceConfig
	Pipeline        PipelineConfig
	Filters         FilterConfig
	Notification    NotificationConfig
	RateLimit       RateLimitConfig
	Retry           RetryConfig
	Store           StoreConfig
}

// GitHubConfig points at the GitHub endpoints documents are read from.
type GitHubConfig struct {
	Token      string `yaml:"token"` // expanded from env var by Load
	RawBaseURL string `yaml:"raw_base_url"`
	APIBaseURL string `yaml:"api_base_url"`
	WebBaseURL string `yaml:"web_base_url"`
}

// SourceConfig describes a single listing document to read.
type SourceConfig struct {
	Name    string `yaml:"name"`
	Owner   string `yaml:"owner"`
	Repo    string `yaml:"repo"`
	Branch  string `yaml:"branch"`
	Path    string `yaml:"path"`
	History string `yaml:"history"` // "api" or "atom"
	Enabled bool   `yaml:"enabled"`
}

// Ref returns the document address of the source.
func (s SourceConfig) Ref() model.SourceRef {
	return model.SourceRef{Owner: s.Owner, Repo: s.Repo, Branch: s.Branch, Path: s.Path}
}

// PipelineConfig tunes recency and ranking.
type PipelineConfig struct {
	MaxResults    int
	FreshWindow   time.Duration
	MaxAgeDays    int
	HistoryWindow time.Duration
	SearchSuffix  string
}

// FilterConfig holds keyword and location filter settings.
type FilterConfig struct {
	TitleKeywords        []string `yaml:"title_keywords"`
	TitleExcludeKeywords []string `yaml:"title_exclude_keywords"`
	Locations            []string `yaml:"locations"`
	ExcludeLocations     []string `yaml:"exclude_locations"`
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log", "slack" or "discord"
	WebhookURL string `yaml:"webhook_url"` // required unless type is "log"
}

// RateLimitConfig controls the per-host request rate shared by all sources.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// RetryConfig controls document fetch retries. Zero retries is the default.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// StoreConfig locates the run bookkeeping database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

const (
	defaultRawBaseURL   = "https://raw.githubusercontent.com"
	defaultAPIBaseURL   = "https://api.github.com"
	defaultWebBaseURL   = "https://github.com"
	defaultSearchSuffix = "new grad software engineer"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	PollingInterval string             `yaml:"polling_interval"`
	HTTPTimeout     string             `yaml:"http_timeout"`
	HistoryDepth    int                `yaml:"history_depth"`
	LockPath        string             `yaml:"lock_path"`
	GitHub          GitHubConfig       `yaml:"github"`
	Sources         []SourceConfig     `yaml:"sources"`
	Pipeline        rawPipelineConfig  `yaml:"pipeline"`
	Filters         FilterConfig       `yaml:"filters"`
	Notification    NotificationConfig `yaml:"notification"`
	RateLimit       *RateLimitConfig   `yaml:"rate_limit"`
	Retry           rawRetryConfig     `yaml:"retry"`
	Store           StoreConfig        `yaml:"store"`
}

type rawPipelineConfig struct {
	MaxResults    int    `yaml:"max_results"`
	FreshWindow   string `yaml:"fresh_window"`
	MaxAgeDays    int    `yaml:"max_age_days"`
	HistoryWindow string `yaml:"history_window"`
	SearchSuffix  string `yaml:"search_suffix"`
}

type rawRetryConfig struct {
	MaxRetries int    `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	interval, err := parseDuration("polling_interval", raw.PollingInterval, 24*time.Hour)
	if err != nil {
		return nil, err
	}
	httpTimeout, err := parseDuration("http_timeout", raw.HTTPTimeout, 30*time.Second)
	if err != nil {
		return nil, err
	}
	freshWindow, err := parseDuration("pipeline.fresh_window", raw.Pipeline.FreshWindow, 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	historyWindow, err := parseDuration("pipeline.history_window", raw.Pipeline.HistoryWindow, 72*time.Hour)
	if err != nil {
		return nil, err
	}
	baseDelay, err := parseDuration("retry.base_delay", raw.Retry.BaseDelay, 5*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		PollingInterval: interval,
		HTTPTimeout:     httpTimeout,
		HistoryDepth:    orInt(raw.HistoryDepth, 10),
		LockPath:        orString(raw.LockPath, "gradboard.lock"),
		GitHub: GitHubConfig{
			Token:      raw.GitHub.Token,
			RawBaseURL: strings.TrimRight(orString(raw.GitHub.RawBaseURL, defaultRawBaseURL), "/"),
			APIBaseURL: strings.TrimRight(orString(raw.GitHub.APIBaseURL, defaultAPIBaseURL), "/"),
			WebBaseURL: strings.TrimRight(orString(raw.GitHub.WebBaseURL, defaultWebBaseURL), "/"),
		},
		Sources: make([]SourceConfig, 0, len(raw.Sources)),
		Pipeline: PipelineConfig{
			MaxResults:    orInt(raw.Pipeline.MaxResults, 8),
			FreshWindow:   freshWindow,
			MaxAgeDays:    orInt(raw.Pipeline.MaxAgeDays, 7),
			HistoryWindow: historyWindow,
			SearchSuffix:  orString(raw.Pipeline.SearchSuffix, defaultSearchSuffix),
		},
		Filters: raw.Filters,
		Notification: NotificationConfig{
			Type:       orString(raw.Notification.Type, "log"),
			WebhookURL: raw.Notification.WebhookURL,
		},
		RateLimit: RateLimitConfig{RequestsPerSecond: 2, Burst: 2},
		Retry: RetryConfig{
			MaxRetries: raw.Retry.MaxRetries,
			BaseDelay:  baseDelay,
		},
		Store: StoreConfig{Path: orString(raw.Store.Path, "gradboard.db")},
	}
	if raw.RateLimit != nil {
		cfg.RateLimit = *raw.RateLimit
	}

	for _, s := range raw.Sources {
		s.Branch = orString(s.Branch, "main")
		s.Path = orString(s.Path, "README.md")
		s.History = orString(strings.ToLower(s.History), "api")
		if s.Name == "" {
			s.Name = s.Owner + "/" + s.Repo
		}
		cfg.Sources = append(cfg.Sources, s)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EnabledSources returns the sources with enabled set, in file order.
func (c *Config) EnabledSources() []SourceConfig {
	var out []SourceConfig
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

func validate(cfg *Config) error {
	if cfg.PollingInterval <= 0 {
		return fmt.Errorf("polling_interval must be positive, got %v", cfg.PollingInterval)
	}
	if cfg.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive, got %v", cfg.HTTPTimeout)
	}

	names := make(map[string]bool)
	for i, s := range cfg.Sources {
		if s.Owner == "" || s.Repo == "" {
			return fmt.Errorf("sources[%d]: owner and repo are required", i)
		}
		if s.History != "api" && s.History != "atom" {
			return fmt.Errorf("sources[%d]: history must be \"api\" or \"atom\", got %q", i, s.History)
		}
		if names[s.Name] {
			return fmt.Errorf("sources[%d]: duplicate name %q", i, s.Name)
		}
		names[s.Name] = true
	}
	if len(cfg.EnabledSources()) == 0 {
		return fmt.Errorf("at least one source must be enabled")
	}

	if cfg.Pipeline.MaxResults <= 0 {
		return fmt.Errorf("pipeline.max_results must be positive, got %d", cfg.Pipeline.MaxResults)
	}
	if cfg.Pipeline.MaxAgeDays <= 0 {
		return fmt.Errorf("pipeline.max_age_days must be positive, got %d", cfg.Pipeline.MaxAgeDays)
	}

	switch cfg.Notification.Type {
	case "log":
	case "slack":
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/ when type is \"slack\"")
		}
	case "discord":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"discord\"")
		}
	default:
		return fmt.Errorf("notification.type must be log, slack or discord, got %q", cfg.Notification.Type)
	}

	if cfg.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("rate_limit.requests_per_second must not be negative")
	}
	if cfg.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative, got %d", cfg.Retry.MaxRetries)
	}

	return nil
}

func parseDuration(field, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, value, err)
	}
	return d, nil
}

func orString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
