// Package cache persists generated summaries and card scripts as
// files keyed by article identity. Generation is slow and costs API
// quota, so results survive restarts.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Key derives the cache key for an article identity (link or title).
func Key(articleID string) string {
	sum := sha256.Sum256([]byte(articleID))
	return hex.EncodeToString(sum[:])[:32]
}

func (s *Store) Summary(articleID string) (string, bool) {
	return s.read("summary_" + Key(articleID) + ".txt")
}

func (s *Store) PutSummary(articleID, summary string) error {
	return s.write("summary_"+Key(articleID)+".txt", summary)
}

func (s *Store) Script(articleID string) (string, bool) {
	return s.read("card_script_" + Key(articleID) + ".txt")
}

func (s *Store) PutScript(articleID, script string) error {
	return s.write("card_script_"+Key(articleID)+".txt", script)
}

func (s *Store) read(name string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (s *Store) write(name, value string) error {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(value), 0o644); err != nil {
		return fmt.Errorf("failed to write cache file %s: %w", name, err)
	}
	return nil
}
