// Package store persists the daily recommendation snapshot that the
// dashboard and notifier read.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/plkim/newsdeck/app/news"
)

type Snapshot struct {
	Date     string         `json:"date"`
	Articles []news.Article `json:"articles"`
}

type RecommendationStore struct {
	path string
	now  func() time.Time
}

func NewRecommendationStore(path string) (*RecommendationStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &RecommendationStore{path: path, now: time.Now}, nil
}

// Save replaces the snapshot atomically so a concurrent reader never
// observes a partially written file.
func (s *RecommendationStore) Save(articles []news.Article) error {
	snapshot := Snapshot{
		Date:     s.now().Format("2006-01-02"),
		Articles: articles,
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Load returns the current snapshot, or nil when none has been saved.
func (s *RecommendationStore) Load() (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snapshot, nil
}

// Date returns the date of the stored snapshot, or "" when there is
// none. The scheduler uses it to decide whether today's crawl already
// ran.
func (s *RecommendationStore) Date() string {
	snapshot, err := s.Load()
	if err != nil || snapshot == nil {
		return ""
	}
	return snapshot.Date
}
