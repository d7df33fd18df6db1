package cfg

type Cfg struct {
	// Storage configuration
	DataDir      string
	CacheDir     string
	DBPath       string
	KeywordsFile string

	// External service credentials
	NaverClientID     string
	NaverClientSecret string
	GeminiAPIKey      string
	SlackWebhookURL   string
	SlackAppURL       string

	// Application configuration
	Port         string
	APIAccessKey string
	CrawlAt      string
	NotifyAt     string
	WorkerCount  int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
