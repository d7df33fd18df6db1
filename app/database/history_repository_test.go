package database

import (
	"path/filepath"
	"testing"
	"time"
)

func testRepository(t *testing.T) *HistoryRepository {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "newsdeck.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	repo := NewHistoryRepository(db)
	repo.now = func() time.Time {
		return time.Date(2025, 8, 30, 23, 55, 0, 0, time.UTC)
	}
	return repo
}

func TestHistoryRepository_AddAndList(t *testing.T) {
	repo := testRepository(t)

	if err := repo.AddCrawl("일일 자동 크롤링", 42); err != nil {
		t.Fatalf("Failed to add crawl: %v", err)
	}

	records, err := repo.Crawls(50)
	if err != nil {
		t.Fatalf("Failed to list crawls: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}

	record := records[0]
	if record.Keyword != "일일 자동 크롤링" || record.ArticleCount != 42 {
		t.Errorf("Unexpected record: %+v", record)
	}
	if record.Date != "2025-08-30" {
		t.Errorf("Expected date 2025-08-30, got %q", record.Date)
	}
	if record.Timestamp != "2025-08-30T23:55:00" {
		t.Errorf("Expected second precision timestamp, got %q", record.Timestamp)
	}
}

func TestHistoryRepository_NewestFirst(t *testing.T) {
	repo := testRepository(t)

	repo.AddCrawl("첫번째", 10)
	repo.AddCrawl("두번째", 20)

	records, err := repo.Crawls(50)
	if err != nil {
		t.Fatalf("Failed to list crawls: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Keyword != "두번째" || records[1].Keyword != "첫번째" {
		t.Errorf("Expected newest first, got %+v", records)
	}
}

func TestHistoryRepository_Limit(t *testing.T) {
	repo := testRepository(t)

	for i := 0; i < 5; i++ {
		repo.AddCrawl("크롤링", i)
	}

	records, err := repo.Crawls(3)
	if err != nil {
		t.Fatalf("Failed to list crawls: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("Expected 3 records, got %d", len(records))
	}
}

func TestHistoryRepository_EmptyHistory(t *testing.T) {
	repo := testRepository(t)

	records, err := repo.Crawls(50)
	if err != nil {
		t.Fatalf("Failed to list crawls: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "newsdeck.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("First migration run failed: %v", err)
	}
	version, dirty, err := RunMigrations(db)
	if err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}
	if dirty {
		t.Error("Migrations should not leave the database dirty")
	}
	if version != 1 {
		t.Errorf("Expected version 1, got %d", version)
	}
}
