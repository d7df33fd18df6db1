package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/plkim/newsdeck/app/news"
	"github.com/plkim/newsdeck/app/store"
)

type fakeCrawler struct {
	articles []news.Article
}

func (f *fakeCrawler) Run(ctx context.Context) []news.Article {
	return f.articles
}

type fakeSnapshots struct {
	saved    [][]news.Article
	snapshot *store.Snapshot
	saveErr  error
}

func (f *fakeSnapshots) Save(articles []news.Article) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, articles)
	return nil
}

func (f *fakeSnapshots) Load() (*store.Snapshot, error) {
	return f.snapshot, nil
}

func (f *fakeSnapshots) Date() string {
	if f.snapshot == nil {
		return ""
	}
	return f.snapshot.Date
}

type fakeHistory struct {
	records []int
}

func (f *fakeHistory) AddCrawl(keyword string, articleCount int) error {
	f.records = append(f.records, articleCount)
	return nil
}

type fakeNotifier struct {
	notified [][]news.Article
	err      error
}

func (f *fakeNotifier) Notify(ctx context.Context, articles []news.Article) error {
	if f.err != nil {
		return f.err
	}
	f.notified = append(f.notified, articles)
	return nil
}

func TestCrawlTask_SavesAndRecords(t *testing.T) {
	articles := []news.Article{
		{Title: "충남콘텐츠진흥원 기사", Link: "https://news.example/1"},
		{Title: "충남음악창작소 기사", Link: "https://news.example/2"},
	}
	snapshots := &fakeSnapshots{}
	history := &fakeHistory{}

	task := NewCrawlTask(&fakeCrawler{articles: articles}, snapshots, history)
	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(snapshots.saved) != 1 || len(snapshots.saved[0]) != 2 {
		t.Errorf("Expected snapshot with 2 articles, got %+v", snapshots.saved)
	}
	if len(history.records) != 1 || history.records[0] != 2 {
		t.Errorf("Expected history record with count 2, got %v", history.records)
	}
}

func TestCrawlTask_EmptyResultKeepsSnapshot(t *testing.T) {
	snapshots := &fakeSnapshots{}
	history := &fakeHistory{}

	task := NewCrawlTask(&fakeCrawler{}, snapshots, history)
	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Empty crawl must not fail, got %v", err)
	}
	if len(snapshots.saved) != 0 {
		t.Error("Empty crawl must not overwrite the snapshot")
	}
	if len(history.records) != 0 {
		t.Error("Empty crawl must not be recorded")
	}
}

func TestCrawlTask_SaveFailure(t *testing.T) {
	snapshots := &fakeSnapshots{saveErr: errors.New("disk full")}
	task := NewCrawlTask(&fakeCrawler{articles: []news.Article{{Title: "기사"}}}, snapshots, &fakeHistory{})

	if err := task.Execute(context.Background()); err == nil {
		t.Error("Expected error when the snapshot cannot be saved")
	}
}

func TestNotifyTask_SendsSnapshot(t *testing.T) {
	snapshots := &fakeSnapshots{snapshot: &store.Snapshot{
		Date:     "2025-08-30",
		Articles: []news.Article{{Title: "충남콘텐츠진흥원 기사"}},
	}}
	notifier := &fakeNotifier{}

	task := NewNotifyTask(snapshots, notifier)
	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(notifier.notified) != 1 {
		t.Errorf("Expected one notification, got %d", len(notifier.notified))
	}
}

func TestNotifyTask_NoSnapshot(t *testing.T) {
	notifier := &fakeNotifier{}
	task := NewNotifyTask(&fakeSnapshots{}, notifier)

	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Missing snapshot must not fail, got %v", err)
	}
	if len(notifier.notified) != 0 {
		t.Error("Nothing should be sent without a snapshot")
	}
}

func TestNotifyTask_NotifierFailure(t *testing.T) {
	snapshots := &fakeSnapshots{snapshot: &store.Snapshot{
		Date:     "2025-08-30",
		Articles: []news.Article{{Title: "기사"}},
	}}
	task := NewNotifyTask(snapshots, &fakeNotifier{err: errors.New("webhook down")})

	if err := task.Execute(context.Background()); err == nil {
		t.Error("Expected error when notification fails")
	}
}

func TestTask_RetryBookkeeping(t *testing.T) {
	task := NewTask(TaskTypeCrawl, "테스트")
	if !task.CanRetry() {
		t.Error("Fresh task should be retryable")
	}
	for i := 0; i < DefaultMaxRetries; i++ {
		task.IncrementRetryCount()
	}
	if task.CanRetry() {
		t.Error("Task should not retry past the maximum")
	}
	if task.GetRetryCount() != DefaultMaxRetries {
		t.Errorf("Expected retry count %d, got %d", DefaultMaxRetries, task.GetRetryCount())
	}
}

func testScheduler(snapshots *fakeSnapshots, at time.Time) *Scheduler {
	s := &Scheduler{
		crawler:   &fakeCrawler{},
		snapshots: snapshots,
		history:   &fakeHistory{},
		notifier:  &fakeNotifier{},
		crawlAt:   "23:55",
		notifyAt:  "00:00",
		now:       func() time.Time { return at },
		taskQueue: make(chan TaskInterface, 4),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

func drainQueue(s *Scheduler) []TaskInterface {
	var tasks []TaskInterface
	for {
		select {
		case task := <-s.taskQueue:
			tasks = append(tasks, task)
		default:
			return tasks
		}
	}
}

func TestScheduler_EnqueuesCrawlAtConfiguredMinute(t *testing.T) {
	s := testScheduler(&fakeSnapshots{}, time.Date(2025, 8, 30, 23, 55, 0, 0, time.UTC))
	defer s.cancel()

	s.enqueueDueTasks()
	tasks := drainQueue(s)
	if len(tasks) != 1 || tasks[0].GetType() != TaskTypeCrawl {
		t.Errorf("Expected a single crawl task, got %+v", tasks)
	}
}

func TestScheduler_SkipsCrawlWhenSnapshotIsCurrent(t *testing.T) {
	snapshots := &fakeSnapshots{snapshot: &store.Snapshot{Date: "2025-08-30"}}
	s := testScheduler(snapshots, time.Date(2025, 8, 30, 23, 55, 0, 0, time.UTC))
	defer s.cancel()

	s.enqueueDueTasks()
	if tasks := drainQueue(s); len(tasks) != 0 {
		t.Errorf("Crawl should be skipped when today's snapshot exists, got %+v", tasks)
	}
}

func TestScheduler_CrawlFiresOncePerDay(t *testing.T) {
	s := testScheduler(&fakeSnapshots{}, time.Date(2025, 8, 30, 23, 55, 0, 0, time.UTC))
	defer s.cancel()

	s.enqueueDueTasks()
	s.enqueueDueTasks()
	if tasks := drainQueue(s); len(tasks) != 1 {
		t.Errorf("Expected one crawl task per day, got %d", len(tasks))
	}
}

func TestScheduler_EnqueuesNotifyAtConfiguredMinute(t *testing.T) {
	s := testScheduler(&fakeSnapshots{}, time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC))
	defer s.cancel()

	s.enqueueDueTasks()
	tasks := drainQueue(s)
	if len(tasks) != 1 || tasks[0].GetType() != TaskTypeNotify {
		t.Errorf("Expected a single notify task, got %+v", tasks)
	}
}

func TestScheduler_QuietMinuteEnqueuesNothing(t *testing.T) {
	s := testScheduler(&fakeSnapshots{}, time.Date(2025, 8, 30, 12, 30, 0, 0, time.UTC))
	defer s.cancel()

	s.enqueueDueTasks()
	if tasks := drainQueue(s); len(tasks) != 0 {
		t.Errorf("Expected no tasks outside the configured minutes, got %d", len(tasks))
	}
}
