package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DataDir      string `long:"data-dir" env:"DATA_DIR" default:"./data" description:"Directory for the daily recommendation snapshot"`
	CacheDir     string `long:"cache-dir" env:"CACHE_DIR" default:"./cache" description:"Directory for cached summaries and card scripts"`
	DBPath       string `long:"db-path" env:"DB_PATH" default:"./data/newsdeck.db" description:"Path to the sqlite database file"`
	KeywordsFile string `long:"keywords-file" env:"KEYWORDS_FILE" default:"./keywords.yaml" description:"Path to the keyword configuration file"`

	// External service credentials
	NaverClientID     string `long:"naver-client-id" env:"NAVER_CLIENT_ID" description:"Naver Open API client ID"`
	NaverClientSecret string `long:"naver-client-secret" env:"NAVER_CLIENT_SECRET" description:"Naver Open API client secret"`
	GeminiAPIKey      string `long:"gemini-api-key" env:"GEMINI_API_KEY" description:"Google Gemini API key"`
	SlackWebhookURL   string `long:"slack-webhook-url" env:"SLACK_WEBHOOK_URL" description:"Slack incoming webhook URL for daily notifications (optional)"`
	SlackAppURL       string `long:"slack-app-url" env:"SLACK_APP_URL" description:"Dashboard URL used in Slack message buttons (optional)"`

	// Application configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`
	CrawlAt      string `long:"crawl-at" env:"CRAWL_AT" default:"23:55" description:"Daily crawl time (HH:MM)"`
	NotifyAt     string `long:"notify-at" env:"NOTIFY_AT" default:"00:00" description:"Daily Slack notification time (HH:MM)"`
	WorkerCount  int    `long:"worker-count" env:"WORKER_COUNT" default:"1" description:"Number of background workers for scheduled tasks"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"Asia/Seoul" description:"Timezone for timestamps (e.g., Asia/Seoul, UTC)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validateClock(raw.CrawlAt); err != nil {
		return nil, fmt.Errorf("invalid crawl time: %w", err)
	}
	if err := validateClock(raw.NotifyAt); err != nil {
		return nil, fmt.Errorf("invalid notify time: %w", err)
	}

	cfg := &Cfg{
		DataDir:           raw.DataDir,
		CacheDir:          raw.CacheDir,
		DBPath:            raw.DBPath,
		KeywordsFile:      raw.KeywordsFile,
		NaverClientID:     raw.NaverClientID,
		NaverClientSecret: raw.NaverClientSecret,
		GeminiAPIKey:      raw.GeminiAPIKey,
		SlackWebhookURL:   raw.SlackWebhookURL,
		SlackAppURL:       raw.SlackAppURL,
		Port:              raw.Port,
		APIAccessKey:      raw.APIAccessKey,
		CrawlAt:           raw.CrawlAt,
		NotifyAt:          raw.NotifyAt,
		WorkerCount:       raw.WorkerCount,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func validateClock(value string) error {
	if _, err := time.Parse("15:04", value); err != nil {
		return fmt.Errorf("expected HH:MM, got %q", value)
	}
	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
