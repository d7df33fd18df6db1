package tasks

import (
	"context"
	"fmt"
	"log/slog"
)

const crawlHistoryLabel = "일일 자동 크롤링"

// CrawlTask runs the daily pipeline and persists the resulting
// recommendation snapshot.
type CrawlTask struct {
	Task
	crawler   Crawler
	snapshots Snapshots
	history   History
}

func NewCrawlTask(crawler Crawler, snapshots Snapshots, history History) *CrawlTask {
	return &CrawlTask{
		Task:      NewTask(TaskTypeCrawl, crawlHistoryLabel),
		crawler:   crawler,
		snapshots: snapshots,
		history:   history,
	}
}

func (t *CrawlTask) Execute(ctx context.Context) error {
	articles := t.crawler.Run(ctx)
	if len(articles) == 0 {
		// Keep yesterday's snapshot rather than publishing an empty one.
		slog.Warn("Crawl produced no articles, keeping previous snapshot")
		return nil
	}

	if err := t.snapshots.Save(articles); err != nil {
		return fmt.Errorf("failed to save recommendations: %w", err)
	}

	if err := t.history.AddCrawl(t.Label, len(articles)); err != nil {
		slog.Warn("Failed to record crawl history", "error", err)
	}

	slog.Info("Daily crawl completed", "articles", len(articles), "duration", t.GetDuration().String())
	return nil
}
