// Package config loads the keyword configuration that drives the
// daily crawl.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and validation of the keyword configuration
type Loader struct {
	path string
}

// NewLoader creates a new configuration loader
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads the keyword file. A missing file yields the built-in
// defaults so a fresh deployment works without any configuration.
func (l *Loader) Load() (*Keywords, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info("Keyword file not found, using defaults", "path", l.path)
			keywords := Default()
			return &keywords, nil
		}
		return nil, fmt.Errorf("failed to read keyword file: %w", err)
	}

	var keywords Keywords
	if err := yaml.Unmarshal(data, &keywords); err != nil {
		return nil, fmt.Errorf("failed to parse keyword file: %w", err)
	}

	l.setDefaults(&keywords)

	if err := l.validate(&keywords); err != nil {
		return nil, fmt.Errorf("invalid keyword file %s: %w", l.path, err)
	}

	slog.Info("Keyword configuration loaded", "path", l.path, "keywords", len(keywords.Search))
	return &keywords, nil
}

// setDefaults applies default values to configuration
func (l *Loader) setDefaults(keywords *Keywords) {
	defaults := Default()
	if len(keywords.Search) == 0 {
		keywords.Search = defaults.Search
	}
	if len(keywords.Main) == 0 {
		keywords.Main = defaults.Main
	}
	if keywords.SimilarityThreshold == 0 {
		keywords.SimilarityThreshold = defaults.SimilarityThreshold
	}
	if keywords.Normalizer.StripChars == "" {
		keywords.Normalizer.StripChars = defaults.Normalizer.StripChars
	}
	if len(keywords.Normalizer.Replacements) == 0 {
		keywords.Normalizer.Replacements = defaults.Normalizer.Replacements
	}
}

// validate validates the configuration
func (l *Loader) validate(keywords *Keywords) error {
	if len(keywords.Search) == 0 {
		return fmt.Errorf("at least one search keyword is required")
	}
	if keywords.SimilarityThreshold <= 0 || keywords.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold must be in (0, 1], got %v", keywords.SimilarityThreshold)
	}
	for _, main := range keywords.Main {
		found := false
		for _, search := range keywords.Search {
			if main == search {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("main keyword %q is not a search keyword", main)
		}
	}
	return nil
}

// Default returns the agency's standing keyword configuration.
func Default() Keywords {
	return Keywords{
		Search: []string{
			"충남콘텐츠진흥원",
			"충콘진",
			"천안그린스타트업타운",
			"김곡미",
			"충남콘텐츠코리아랩",
			"충남콘텐츠기업지원센터",
			"충남글로벌게임센터",
			"충남음악창작소",
			"충남 e스포츠",
		},
		Main:                []string{"충남콘텐츠진흥원", "충콘진"},
		SimilarityThreshold: 0.85,
		Normalizer: Normalizer{
			StripChars: "·-,，",
			Replacements: []Replacement{
				{From: "성료", To: "완료"},
				{From: "마무리", To: "완료"},
				{From: "성공적", To: ""},
				{From: "성공", To: ""},
				{From: "한국청소년육성회", To: "청소년육성회"},
				{From: "지역인프라연계", To: ""},
				{From: "인프라연계", To: ""},
				{From: "융복합", To: "융합"},
			},
		},
	}
}
