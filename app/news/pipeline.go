package news

import (
	"context"
	"log/slog"
	"sort"
	"strings"
)

// Search sort orders offered by the news API.
const (
	SortByDate       = "date"
	SortBySimilarity = "sim"
)

const (
	searchDisplay = 100
	topArticles   = 50
	enrichTop     = 20
)

// Searcher is the outbound news-search collaborator. Implementations return
// an empty slice on any failure and never panic.
type Searcher interface {
	Search(ctx context.Context, keyword string, display int, sort string) []Article
}

// TitleExtractor fetches a higher-fidelity title from an article's source
// page.
type TitleExtractor interface {
	FullTitle(ctx context.Context, url string) (string, error)
}

// WatchSource supplies additional candidate articles from monitored feeds.
type WatchSource interface {
	Fetch(ctx context.Context) []Article
}

// Pipeline runs one full recommendation pass: fan out keyword searches,
// collapse duplicates, score, rank, truncate and enrich.
type Pipeline struct {
	searcher  Searcher
	titles    TitleExtractor
	watchers  []WatchSource
	collapser *Collapser
	scorer    *Scorer
	keywords  []string
}

func NewPipeline(searcher Searcher, titles TitleExtractor, watchers []WatchSource,
	collapser *Collapser, scorer *Scorer, keywords []string) *Pipeline {
	return &Pipeline{
		searcher:  searcher,
		titles:    titles,
		watchers:  watchers,
		collapser: collapser,
		scorer:    scorer,
		keywords:  keywords,
	}
}

// Run executes one recommendation pass and returns the top articles ranked
// by descending relevance. One failing keyword search or title extraction
// degrades the result, it never aborts the run.
func (p *Pipeline) Run(ctx context.Context) (result []Article) {
	// One bad article must not take down the whole pass.
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Recommendation run panicked", "panic", r)
			result = nil
		}
	}()

	var all []Article
	slog.Info("Crawl started", "keywords", len(p.keywords))

	for _, keyword := range p.keywords {
		byDate := p.searcher.Search(ctx, keyword, searchDisplay, SortByDate)
		all = append(all, byDate...)

		bySimilarity := p.searcher.Search(ctx, keyword, searchDisplay, SortBySimilarity)
		all = append(all, bySimilarity...)

		slog.Info("Keyword searched", "keyword", keyword, "by_date", len(byDate), "by_similarity", len(bySimilarity))
	}

	for _, watcher := range p.watchers {
		items := watcher.Fetch(ctx)
		all = append(all, items...)
		if len(items) > 0 {
			slog.Info("Watch feeds fetched", "items", len(items))
		}
	}

	unique := p.collapser.Run(all)
	slog.Info("Duplicates collapsed", "before", len(all), "after", len(unique))

	for i := range unique {
		unique[i].RelevanceScore = p.scorer.Score(unique[i])
	}

	// Stable: ties keep their prior relative order.
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].RelevanceScore > unique[j].RelevanceScore
	})

	if len(unique) > topArticles {
		unique = unique[:topArticles]
	}

	p.enrichTitles(ctx, unique)

	slog.Info("Crawl completed", "selected", len(unique))
	return unique
}

// enrichTitles fetches full titles for the top-ranked articles only, to keep
// wall-clock run time bounded. Failures leave the original title in place.
func (p *Pipeline) enrichTitles(ctx context.Context, articles []Article) {
	if p.titles == nil {
		return
	}

	n := enrichTop
	if len(articles) < n {
		n = len(articles)
	}

	for i := 0; i < n; i++ {
		url := articles[i].SourceURL()
		if url == "" {
			continue
		}

		fullTitle, err := p.titles.FullTitle(ctx, url)
		if err != nil {
			slog.Warn("Full title extraction failed", "url", url, "error", err)
			continue
		}
		if fullTitle = strings.TrimSpace(fullTitle); fullTitle != "" {
			articles[i].FullTitle = fullTitle
		}
	}
}
