package api

import (
	"context"

	"github.com/plkim/newsdeck/app/cache"
	"github.com/plkim/newsdeck/app/cards"
	"github.com/plkim/newsdeck/app/database"
	"github.com/plkim/newsdeck/app/imageprep"
	"github.com/plkim/newsdeck/app/store"
	"github.com/plkim/newsdeck/app/tasks"
)

// Generator produces summaries and card scripts from article text
type Generator interface {
	Summarize(ctx context.Context, title, body string) (string, error)
	GenerateCardScript(ctx context.Context, title, body string) (string, error)
}

// ContentSource fetches the readable body of an article page
type ContentSource interface {
	ArticleText(ctx context.Context, pageURL string) (string, error)
}

type Handler struct {
	snapshots   *store.RecommendationStore
	historyRepo database.CrawlHistory
	cache       *cache.Store
	generator   Generator
	content     ContentSource
	parser      *cards.Parser
	preparer    *imageprep.Preparer
	scheduler   tasks.TaskSchedulerInterface
	crawlTask   func() tasks.TaskInterface
	dataDir     string
	cacheDir    string
}

type SummaryRequest struct {
	Link        string `json:"link"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Refresh     bool   `json:"refresh"`
}

type CardnewsRequest struct {
	Link        string `json:"link"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Refresh     bool   `json:"refresh"`
}

type ParseRequest struct {
	Script string `json:"script"`
}

type ImagePrepRequest struct {
	Script string `json:"script"`
}
