// Package naver wraps the Naver Open API news search endpoint.
package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/plkim/newsdeck/app/news"
	"github.com/plkim/newsdeck/app/retry"
)

const (
	apiURL     = "https://openapi.naver.com/v1/search/news.json"
	maxDisplay = 100
)

type searchResponse struct {
	Total int            `json:"total"`
	Items []news.Article `json:"items"`
}

type Client struct {
	apiURL       string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	policy       retry.Policy
}

func NewClient(clientID, clientSecret string) *Client {
	return &Client{
		apiURL:       apiURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		policy:       retry.Policy{MaxAttempts: 3, Delay: time.Second},
	}
}

// Search queries the news endpoint for a single keyword. Missing
// credentials and request failures degrade to an empty result so one
// keyword cannot sink a whole crawl.
func (c *Client) Search(ctx context.Context, keyword string, display int, sortBy string) []news.Article {
	if c.clientID == "" || c.clientSecret == "" {
		slog.Error("Naver API credentials are not configured")
		return nil
	}
	if display <= 0 || display > maxDisplay {
		display = maxDisplay
	}

	query := url.Values{}
	query.Set("query", keyword)
	query.Set("display", fmt.Sprintf("%d", display))
	query.Set("sort", sortBy)

	var result searchResponse
	err := c.policy.Do(ctx, "naver search", func() (bool, error) {
		return c.doSearch(ctx, query, &result)
	})
	if err != nil {
		slog.Error("Naver search failed", "keyword", keyword, "sort", sortBy, "error", err)
		return nil
	}

	slog.Debug("Naver search completed", "keyword", keyword, "sort", sortBy, "total", result.Total, "returned", len(result.Items))
	return result.Items
}

func (c *Client) doSearch(ctx context.Context, query url.Values, result *searchResponse) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+query.Encode(), nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Naver-Client-Id", c.clientID)
	req.Header.Set("X-Naver-Client-Secret", c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}
	return false, nil
}
