package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/covid-data-etl/internal/domain"
)

// Default feed endpoints, overridable per-source via env or FEEDS_FILE.
const (
	defaultNYTFeedURL = "https://raw.githubusercontent.com/nytimes/covid-19-data/master/us.csv"
	defaultJHFeedURL  = "https://raw.githubusercontent.com/datasets/covid-19/master/data/time-series-19-covid-combined.csv"
)

// FeedSource describes one feed to fetch: a fixed identifier and its endpoint.
type FeedSource struct {
	ID  domain.SourceID `yaml:"id"`
	URL string          `yaml:"url"`
}

// Config holds all service settings, populated from environment variables.
type Config struct {
	Sources       []FeedSource
	TargetCountry string

	DBPath     string
	ExportPath string

	HTTPAddr  string
	LogLevel  string
	LogFormat string

	FetchTimeout    time.Duration
	ShutdownTimeout time.Duration

	// RunSchedule is a cron expression; empty means run once and exit.
	RunSchedule string

	// Kafka run-report notifications.
	KafkaBrokers     []string
	KafkaNotifyTopic string
	NotifyEnabled    bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	fetchTimeout, err := parseDurationEnv("FETCH_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	sources := []FeedSource{
		{ID: domain.SourceNYT, URL: envOrDefault("NYT_FEED_URL", defaultNYTFeedURL)},
		{ID: domain.SourceJH, URL: envOrDefault("JH_FEED_URL", defaultJHFeedURL)},
	}
	if feedsFile := os.Getenv("FEEDS_FILE"); feedsFile != "" {
		sources, err = loadFeedsFile(feedsFile)
		if err != nil {
			return nil, err
		}
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	notifyEnabled := len(brokers) > 0
	if v := os.Getenv("NOTIFY_ENABLED"); v != "" {
		notifyEnabled = v == "true"
	}

	cfg := &Config{
		Sources:          sources,
		TargetCountry:    envOrDefault("TARGET_COUNTRY", "US"),
		DBPath:           envOrDefault("DB_PATH", "data/covid.db"),
		ExportPath:       envOrDefault("EXPORT_PATH", "data/uscovid19data.csv"),
		HTTPAddr:         envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		LogFormat:        envOrDefault("LOG_FORMAT", "json"),
		FetchTimeout:     fetchTimeout,
		ShutdownTimeout:  shutdownTimeout,
		RunSchedule:      os.Getenv("RUN_SCHEDULE"),
		KafkaBrokers:     brokers,
		KafkaNotifyTopic: envOrDefault("KAFKA_NOTIFY_TOPIC", "covid-etl-run-reports"),
		NotifyEnabled:    notifyEnabled,
	}

	if len(cfg.Sources) != 2 {
		return nil, fmt.Errorf("exactly two feed sources are required, got %d", len(cfg.Sources))
	}
	for _, src := range cfg.Sources {
		if src.ID == "" || src.URL == "" {
			return nil, errors.New("every feed source needs an id and a url")
		}
	}
	if cfg.TargetCountry == "" {
		return nil, errors.New("TARGET_COUNTRY must not be empty")
	}
	if cfg.NotifyEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("NOTIFY_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseBrokers(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
