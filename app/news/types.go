package news

// Article is one discovered news item. Field names follow the search API
// payload so responses decode directly and snapshots round-trip unchanged.
type Article struct {
	Title          string  `json:"title"`
	FullTitle      string  `json:"full_title,omitempty"`
	Description    string  `json:"description"`
	Link           string  `json:"link"`
	OriginalLink   string  `json:"originallink,omitempty"`
	PubDate        string  `json:"pubDate"`
	RelevanceScore float64 `json:"relevance_score"`
}

// DisplayTitle prefers the full title fetched from the source page.
func (a Article) DisplayTitle() string {
	if a.FullTitle != "" {
		return a.FullTitle
	}
	return a.Title
}

// Identity is the stable key used for caching generated artifacts.
// The redirect link is preferred, the raw title is the fallback.
func (a Article) Identity() string {
	if a.Link != "" {
		return a.Link
	}
	return a.Title
}

// SourceURL returns the publisher's canonical URL when known.
func (a Article) SourceURL() string {
	if a.OriginalLink != "" {
		return a.OriginalLink
	}
	return a.Link
}
