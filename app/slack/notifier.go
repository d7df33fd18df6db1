// Package slack posts the daily top picks to a Slack incoming webhook
// using Block Kit messages.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/plkim/newsdeck/app/cache"
	"github.com/plkim/newsdeck/app/news"
)

const (
	notifyTop          = 5
	descriptionPreview = 150
	summaryPreview     = 200
)

type block map[string]any

type Notifier struct {
	webhookURL string
	appURL     string
	httpClient *http.Client
	cache      *cache.Store
}

func NewNotifier(webhookURL, appURL string, cacheStore *cache.Store) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		appURL:     appURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cacheStore,
	}
}

// Notify sends the top articles to the configured webhook. A missing
// webhook URL skips the notification without failing the crawl.
func (n *Notifier) Notify(ctx context.Context, articles []news.Article) error {
	if n.webhookURL == "" {
		slog.Warn("Slack webhook URL is not configured, skipping notification")
		return nil
	}

	top := articles
	if len(top) > notifyTop {
		top = top[:notifyTop]
	}

	payload, err := json.Marshal(map[string]any{"blocks": n.buildBlocks(top)})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	slog.Info("Slack notification sent", "articles", len(top))
	return nil
}

func (n *Notifier) buildBlocks(articles []news.Article) []block {
	blocks := []block{
		{
			"type": "header",
			"text": map[string]any{"type": "plain_text", "text": "📰 오늘의 추천 기사"},
		},
		{"type": "divider"},
	}

	for idx, article := range articles {
		rank := idx + 1
		title := news.StripTags(article.Title)
		description := news.StripTags(article.Description)

		blocks = append(blocks, block{
			"type": "section",
			"text": map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*%d. %s*", rank, title)},
		})
		blocks = append(blocks, block{
			"type": "context",
			"elements": []map[string]any{
				{"type": "mrkdwn", "text": fmt.Sprintf("📅 %s  |  📊 관련도: %.1f/10점", news.FormatDateKorean(article.PubDate), article.RelevanceScore)},
			},
		})

		if description != "" {
			blocks = append(blocks, block{
				"type": "section",
				"text": map[string]any{"type": "mrkdwn", "text": truncateRunes(description, descriptionPreview)},
			})
		}

		if summary, ok := n.cache.Summary(article.Identity()); ok {
			blocks = append(blocks, block{
				"type": "section",
				"text": map[string]any{"type": "mrkdwn", "text": "*📄 요약:*\n" + truncateRunes(summary, summaryPreview)},
			})
		}

		if buttons := n.buildButtons(rank, article.Link); len(buttons) > 0 {
			blocks = append(blocks, block{"type": "actions", "elements": buttons})
		}

		if rank < len(articles) {
			blocks = append(blocks, block{"type": "divider"})
		}
	}

	return blocks
}

func (n *Notifier) buildButtons(rank int, link string) []map[string]any {
	var buttons []map[string]any
	if link != "" {
		buttons = append(buttons, map[string]any{
			"type":      "button",
			"text":      map[string]any{"type": "plain_text", "text": "🔗 기사 보기"},
			"url":       link,
			"action_id": fmt.Sprintf("view_article_%d", rank),
		})
	}

	if n.appURL == "" {
		return buttons
	}

	// Deep link into the dashboard with the article preselected.
	target := n.appURL
	if link != "" {
		target = fmt.Sprintf("%s?article_url=%s", n.appURL, url.QueryEscape(link))
	}
	buttons = append(buttons, map[string]any{
		"type":      "button",
		"text":      map[string]any{"type": "plain_text", "text": "📄 요약 보기"},
		"url":       target,
		"action_id": fmt.Sprintf("view_summary_%d", rank),
	})
	buttons = append(buttons, map[string]any{
		"type":      "button",
		"text":      map[string]any{"type": "plain_text", "text": "📝 카드뉴스 생성"},
		"url":       target,
		"action_id": fmt.Sprintf("create_cardnews_%d", rank),
	})
	return buttons
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
