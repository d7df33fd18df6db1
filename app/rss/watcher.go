// Package rss merges articles from configured watch feeds into the
// daily crawl alongside the search API results.
package rss

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/plkim/newsdeck/app/news"
)

type Watcher struct {
	urls         []string
	httpClient   *http.Client
	gofeedParser *gofeed.Parser
	userAgent    string
}

func NewWatcher(urls []string, userAgent string) *Watcher {
	return &Watcher{
		urls:         urls,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		gofeedParser: gofeed.NewParser(),
		userAgent:    userAgent,
	}
}

// Fetch pulls every configured feed and maps its items to articles.
// A failing feed is logged and skipped so the rest of the crawl
// proceeds.
func (w *Watcher) Fetch(ctx context.Context) []news.Article {
	var articles []news.Article
	for _, feedURL := range w.urls {
		items, err := w.fetchFeed(ctx, feedURL)
		if err != nil {
			slog.Warn("Watch feed fetch failed", "url", feedURL, "error", err)
			continue
		}
		articles = append(articles, items...)
		slog.Debug("Watch feed fetched", "url", feedURL, "articles", len(items))
	}
	return articles
}

func (w *Watcher) fetchFeed(ctx context.Context, feedURL string) ([]news.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", w.userAgent)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	feed, err := w.gofeedParser.Parse(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	articles := make([]news.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		articles = append(articles, newsArticle(item))
	}
	return articles, nil
}

func newsArticle(item *gofeed.Item) news.Article {
	article := news.Article{
		Title:       item.Title,
		Description: item.Description,
		Link:        item.Link,
		PubDate:     item.Published,
	}
	if item.PublishedParsed != nil {
		article.PubDate = item.PublishedParsed.Format(time.RFC3339)
	}
	return article
}
