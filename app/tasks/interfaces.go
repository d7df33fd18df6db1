package tasks

import (
	"context"

	"github.com/plkim/newsdeck/app/news"
	"github.com/plkim/newsdeck/app/store"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application to manage background task processing.
// Example usage:
//
//	scheduler := NewScheduler(pipeline, recommendationStore, historyRepo, notifier)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewCrawlTask(...))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// Crawler produces the scored daily article ranking
type Crawler interface {
	Run(ctx context.Context) []news.Article
}

// Snapshots persists the daily recommendation snapshot
type Snapshots interface {
	Save(articles []news.Article) error
	Load() (*store.Snapshot, error)
	Date() string
}

// Notifier delivers the daily top picks
type Notifier interface {
	Notify(ctx context.Context, articles []news.Article) error
}

// History records crawl runs
type History interface {
	AddCrawl(keyword string, articleCount int) error
}
