package config

// Keywords describes what the crawler searches for and how titles are
// normalized before deduplication
type Keywords struct {
	Search              []string   `yaml:"search"`
	Main                []string   `yaml:"main"`
	SimilarityThreshold float64    `yaml:"similarity_threshold"`
	Normalizer          Normalizer `yaml:"normalizer"`
	WatchFeeds          []string   `yaml:"watch_feeds"`
}

// Normalizer configures title normalization
type Normalizer struct {
	StripChars   string        `yaml:"strip_chars"`
	Replacements []Replacement `yaml:"replacements"`
}

// Replacement is one ordered synonym folding rule
type Replacement struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Others returns the search keywords that are not main keywords
func (k *Keywords) Others() []string {
	main := make(map[string]struct{}, len(k.Main))
	for _, keyword := range k.Main {
		main[keyword] = struct{}{}
	}

	var others []string
	for _, keyword := range k.Search {
		if _, ok := main[keyword]; !ok {
			others = append(others, keyword)
		}
	}
	return others
}
