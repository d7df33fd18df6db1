package database

type CrawlHistory interface {
	AddCrawl(keyword string, articleCount int) error
	Crawls(limit int) ([]CrawlRecord, error)
}

var _ CrawlHistory = (*HistoryRepository)(nil)
