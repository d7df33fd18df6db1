package database

// CrawlRecord represents one crawl run in the history table
type CrawlRecord struct {
	ID           int64  `json:"-"`
	Date         string `json:"date"`
	Keyword      string `json:"keyword"`
	ArticleCount int    `json:"article_count"`
	Timestamp    string `json:"timestamp"`
}
