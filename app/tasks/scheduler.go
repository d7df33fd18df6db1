package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/plkim/newsdeck/app/cfg"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	crawler     Crawler
	snapshots   Snapshots
	history     History
	notifier    Notifier
	crawlAt     string
	notifyAt    string
	workerCount int
	now         func() time.Time

	lastCrawlTick  string
	lastNotifyTick string

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	taskQueue chan TaskInterface
}

func NewScheduler(crawler Crawler, snapshots Snapshots, history History, notifier Notifier) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		crawler:     crawler,
		snapshots:   snapshots,
		history:     history,
		notifier:    notifier,
		crawlAt:     cfg.CrawlAt,
		notifyAt:    cfg.NotifyAt,
		workerCount: cfg.WorkerCount,
		now:         time.Now,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 16),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		s.enqueueDueTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueDueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// enqueueDueTasks fires each daily task exactly once when the clock
// reaches its configured minute. The crawl additionally skips when
// today's snapshot already exists, so a restart does not crawl twice.
func (s *Scheduler) enqueueDueTasks() {
	now := s.now()
	minute := now.Format("15:04")
	today := now.Format("2006-01-02")

	if minute == s.crawlAt && s.lastCrawlTick != today {
		s.lastCrawlTick = today
		if s.snapshots.Date() == today {
			slog.Debug("Today's crawl already ran", "date", today)
		} else {
			task := NewCrawlTask(s.crawler, s.snapshots, s.history)
			if err := s.EnqueueTask(task); err != nil {
				slog.Warn("Failed to enqueue CrawlTask", "error", err)
			}
		}
	}

	if minute == s.notifyAt && s.lastNotifyTick != today {
		s.lastNotifyTick = today
		task := NewNotifyTask(s.snapshots, s.notifier)
		if err := s.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue NotifyTask", "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 10*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "label", task.GetLabel(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
