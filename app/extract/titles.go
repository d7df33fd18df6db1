// Package extract pulls article titles and readable article bodies
// out of news pages.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

const minExtractedTitleLength = 10

// Korean news portals decorate page titles with breadcrumb trails and
// outlet names. The patterns are tried longest trail first.
var (
	breadcrumbPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\s*<\s*[^<]*<\s*[^<]*<\s*[^<]*<\s*기사본문.*$`),
		regexp.MustCompile(`\s*<\s*[^<]*<\s*[^<]*<\s*[^<]*$`),
		regexp.MustCompile(`\s*<\s*[^<]*<\s*[^<]*$`),
		regexp.MustCompile(`\s*<\s*[^<]*$`),
	}
	pipeSuffixPattern = regexp.MustCompile(`\s*\|\s*.*$`)
	dashSuffixPattern = regexp.MustCompile(`\s*-\s*.*$`)
)

// titleSelectors cover the headline markup of the major Korean outlets.
var titleSelectors = []string{
	"h1.article-title",
	"h1.title",
	".article-title",
	".title",
	"#articleTitle",
	".article_headline",
	".headline",
}

type TitleExtractor struct {
	httpClient *http.Client
	userAgent  string
}

func NewTitleExtractor(userAgent string) *TitleExtractor {
	return &TitleExtractor{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		userAgent:  userAgent,
	}
}

// FullTitle fetches the article page and extracts its untruncated
// headline. Search API results cut titles short, so the page itself is
// the only reliable source.
func (e *TitleExtractor) FullTitle(ctx context.Context, pageURL string) (string, error) {
	if pageURL == "" {
		return "", errors.New("empty URL")
	}

	doc, err := e.fetchDocument(ctx, pageURL)
	if err != nil {
		return "", err
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		cleaned := cleanTitle(title)
		if utf8.RuneCountInString(cleaned) > minExtractedTitleLength {
			return cleaned, nil
		}
	}

	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if title := strings.TrimSpace(og); title != "" {
			return cleanTitle(title), nil
		}
	}

	for _, selector := range titleSelectors {
		title := strings.TrimSpace(doc.Find(selector).First().Text())
		if utf8.RuneCountInString(title) > minExtractedTitleLength {
			return cleanTitle(title), nil
		}
	}

	if title := strings.TrimSpace(doc.Find("h1").First().Text()); utf8.RuneCountInString(title) > minExtractedTitleLength {
		return cleanTitle(title), nil
	}

	return "", errors.New("no usable title found")
}

func (e *TitleExtractor) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	// Regional outlets still serve EUC-KR pages.
	if isEUCKR(resp.Header.Get("Content-Type"), body) {
		decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(body), korean.EUCKR.NewDecoder()))
		if err == nil {
			body = decoded
		}
	}

	return goquery.NewDocumentFromReader(bytes.NewReader(body))
}

func isEUCKR(contentType string, body []byte) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "euc-kr") || strings.Contains(ct, "ks_c_5601") {
		return true
	}
	head := strings.ToLower(string(body[:min(len(body), 1024)]))
	return strings.Contains(head, "charset=euc-kr") || strings.Contains(head, `charset="euc-kr"`)
}

func cleanTitle(title string) string {
	for _, pattern := range breadcrumbPatterns {
		title = pattern.ReplaceAllString(title, "")
	}
	title = pipeSuffixPattern.ReplaceAllString(title, "")
	title = dashSuffixPattern.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}
