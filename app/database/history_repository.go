package database

import (
	"fmt"
	"time"
)

// HistoryRepository handles database operations for crawl history
type HistoryRepository struct {
	db  *DB
	now func() time.Time
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db, now: time.Now}
}

// AddCrawl records one crawl run with its keyword label and result size
func (r *HistoryRepository) AddCrawl(keyword string, articleCount int) error {
	now := r.now()
	_, err := r.db.Exec(`
		INSERT INTO crawl_history (date, keyword, article_count, timestamp)
		VALUES (?, ?, ?, ?)`,
		now.Format("2006-01-02"), keyword, articleCount, now.Format("2006-01-02T15:04:05"))
	if err != nil {
		return fmt.Errorf("failed to insert crawl record: %w", err)
	}
	return nil
}

// Crawls returns the most recent crawl records, newest first
func (r *HistoryRepository) Crawls(limit int) ([]CrawlRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(`
		SELECT id, date, keyword, article_count, timestamp
		FROM crawl_history
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query crawl history: %w", err)
	}
	defer rows.Close()

	records := []CrawlRecord{}
	for rows.Next() {
		var record CrawlRecord
		if err := rows.Scan(&record.ID, &record.Date, &record.Keyword, &record.ArticleCount, &record.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan crawl record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate crawl history: %w", err)
	}

	return records, nil
}
