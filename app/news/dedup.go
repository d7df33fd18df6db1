package news

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Titles shorter than this many characters are treated as noise.
const minTitleLength = 10

// Collapser removes exact, near-exact and cross-query duplicates from a raw
// search result list. Scanning is order-preserving: the first occurrence of
// each duplicate group is the one retained.
type Collapser struct {
	normalizer *Normalizer
	threshold  float64
}

// NewCollapser creates a collapser using the given normalizer and title
// similarity threshold.
func NewCollapser(normalizer *Normalizer, threshold float64) *Collapser {
	return &Collapser{normalizer: normalizer, threshold: threshold}
}

// Run deduplicates articles. Checks run cheapest and most certain first:
// exact link, exact originallink, short-title noise, exact title, normalized
// title, and finally fuzzy title similarity against every accepted article.
func (c *Collapser) Run(articles []Article) []Article {
	if len(articles) == 0 {
		return nil
	}

	seenLinks := make(map[string]struct{}, len(articles))
	seenOriginals := make(map[string]struct{}, len(articles))

	accepted := make([]Article, 0, len(articles))
	acceptedTitles := make([]string, 0, len(articles))
	acceptedNormalized := make([]string, 0, len(articles))

	for _, article := range articles {
		if _, ok := seenLinks[article.Link]; ok {
			continue
		}
		if article.OriginalLink != "" {
			if _, ok := seenOriginals[article.OriginalLink]; ok {
				continue
			}
		}

		title := strings.TrimSpace(article.Title)
		if utf8.RuneCountInString(title) < minTitleLength {
			continue
		}

		normalized := c.normalizer.Run(title)
		if c.isDuplicateTitle(title, normalized, acceptedTitles, acceptedNormalized) {
			continue
		}

		seenLinks[article.Link] = struct{}{}
		if article.OriginalLink != "" {
			seenOriginals[article.OriginalLink] = struct{}{}
		}
		accepted = append(accepted, article)
		acceptedTitles = append(acceptedTitles, title)
		acceptedNormalized = append(acceptedNormalized, normalized)
	}

	return accepted
}

func (c *Collapser) isDuplicateTitle(title, normalized string, titles, normalizedTitles []string) bool {
	for i, existing := range titles {
		if existing == "" {
			continue
		}
		if title == existing {
			slog.Debug("Duplicate dropped", "reason", "exact title", "title", title)
			return true
		}
		if normalized == normalizedTitles[i] {
			slog.Debug("Duplicate dropped", "reason", "normalized title", "title", title, "kept", existing)
			return true
		}
		if similarity := Ratio(normalized, normalizedTitles[i]); similarity >= c.threshold {
			slog.Debug("Duplicate dropped", "reason", "title similarity", "similarity", similarity, "title", title, "kept", existing)
			return true
		}
	}
	return false
}
