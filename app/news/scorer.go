package news

import (
	"strings"
	"time"
)

// Scoring weights and caps. The recency curve (2.0 at day 0 falling to 0.5
// at day 4) is a tuned product constant, kept literally.
const (
	mainTitleWeight  = 2.5
	otherTitleWeight = 0.3
	titleCap         = 5.0

	mainDescWeight  = 1.5
	otherDescWeight = 0.2
	descCap         = 3.0

	recencyWindowDays = 4
	recencyBase       = 2.0
	recencyDecay      = 0.375

	scoreCap = 10.0
)

// Scorer computes a bounded relevance score for one article from the
// configured keyword set. Keywords naming the organization itself carry a
// much higher weight than topical ones.
type Scorer struct {
	mainKeywords  []string
	otherKeywords []string
	now           func() time.Time
}

// NewScorer partitions keywords into main (the organization's own names) and
// other keywords. Keywords listed as main but absent from keywords are still
// scored as main.
func NewScorer(keywords, mainKeywords []string) *Scorer {
	main := make(map[string]struct{}, len(mainKeywords))
	for _, k := range mainKeywords {
		main[k] = struct{}{}
	}

	others := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if _, ok := main[k]; !ok {
			others = append(others, k)
		}
	}

	return &Scorer{
		mainKeywords:  mainKeywords,
		otherKeywords: others,
		now:           time.Now,
	}
}

// WithClock replaces the wall clock, for deterministic recency scoring.
func (s *Scorer) WithClock(now func() time.Time) *Scorer {
	s.now = now
	return s
}

// Score returns the article's relevance in [0, 10]: keyword matches in the
// title (cap 5.0) and description (cap 3.0) plus a recency bonus (cap 2.0).
// The score is always re-derived from scratch; identical inputs under a
// fixed clock yield identical output.
func (s *Scorer) Score(article Article) float64 {
	title := strings.ToLower(article.Title)
	description := strings.ToLower(article.Description)

	score := s.matchScore(title, mainTitleWeight, otherTitleWeight, titleCap)
	score += s.matchScore(description, mainDescWeight, otherDescWeight, descCap)
	score += s.recencyBonus(article.PubDate)

	return clamp(score, 0, scoreCap)
}

func (s *Scorer) matchScore(text string, mainWeight, otherWeight, cap float64) float64 {
	var score float64
	for _, keyword := range s.mainKeywords {
		if strings.Contains(text, strings.ToLower(keyword)) {
			score += mainWeight
		}
	}
	for _, keyword := range s.otherKeywords {
		if strings.Contains(text, strings.ToLower(keyword)) {
			score += otherWeight
		}
	}
	return clamp(score, 0, cap)
}

func (s *Scorer) recencyBonus(pubDate string) float64 {
	now := s.now()
	published, ok := ParsePubDateAt(pubDate, now)
	if !ok {
		return 0
	}

	days := daysBetween(published, now)
	if days < 0 {
		// Future-dated articles count as published today, keeping the
		// bonus inside its cap.
		days = 0
	}
	if days > recencyWindowDays {
		return 0
	}

	return recencyBase - float64(days)*recencyDecay
}

// daysBetween is the whole-day calendar difference from the published date
// up to now.
func daysBetween(published, now time.Time) int {
	pub := time.Date(published.Year(), published.Month(), published.Day(), 0, 0, 0, 0, time.UTC)
	ref := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(ref.Sub(pub).Hours() / 24)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
