package naver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/plkim/newsdeck/app/retry"
)

func testClient(serverURL string) *Client {
	return &Client{
		apiURL:       serverURL,
		clientID:     "test-id",
		clientSecret: "test-secret",
		httpClient:   &http.Client{Timeout: time.Second},
		policy:       retry.Policy{MaxAttempts: 2, Delay: time.Millisecond},
	}
}

func TestSearch_ReturnsArticles(t *testing.T) {
	var gotID, gotSecret, gotQuery, gotSort string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Naver-Client-Id")
		gotSecret = r.Header.Get("X-Naver-Client-Secret")
		gotQuery = r.URL.Query().Get("query")
		gotSort = r.URL.Query().Get("sort")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total":2,"items":[
			{"title":"충남콘텐츠진흥원 사업 공고","link":"https://news.example/1","pubDate":"2025-08-30"},
			{"title":"천안그린스타트업타운 개소","link":"https://news.example/2","pubDate":"2025-08-29"}
		]}`))
	}))
	defer server.Close()

	articles := testClient(server.URL).Search(context.Background(), "충남콘텐츠진흥원", 100, "date")
	if len(articles) != 2 {
		t.Fatalf("Expected 2 articles, got %d", len(articles))
	}
	if articles[0].Link != "https://news.example/1" {
		t.Errorf("Unexpected first article: %+v", articles[0])
	}
	if gotID != "test-id" || gotSecret != "test-secret" {
		t.Errorf("Expected credential headers, got %q / %q", gotID, gotSecret)
	}
	if gotQuery != "충남콘텐츠진흥원" || gotSort != "date" {
		t.Errorf("Unexpected query parameters: query=%q sort=%q", gotQuery, gotSort)
	}
}

func TestSearch_MissingCredentials(t *testing.T) {
	c := NewClient("", "")
	if articles := c.Search(context.Background(), "충콘진", 100, "sim"); articles != nil {
		t.Errorf("Expected nil without credentials, got %d articles", len(articles))
	}
}

func TestSearch_ServerErrorDegrades(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	if articles := testClient(server.URL).Search(context.Background(), "충콘진", 100, "date"); articles != nil {
		t.Errorf("Expected nil on API error, got %d articles", len(articles))
	}
	if calls != 1 {
		t.Errorf("Non-200 responses must not be retried, got %d calls", calls)
	}
}

func TestSearch_ClampsDisplay(t *testing.T) {
	var gotDisplay string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDisplay = r.URL.Query().Get("display")
		w.Write([]byte(`{"total":0,"items":[]}`))
	}))
	defer server.Close()

	testClient(server.URL).Search(context.Background(), "충콘진", 500, "date")
	if gotDisplay != "100" {
		t.Errorf("Expected display clamped to 100, got %q", gotDisplay)
	}
}
