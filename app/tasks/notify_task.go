package tasks

import (
	"context"
	"fmt"
	"log/slog"
)

// NotifyTask sends the current recommendation snapshot to Slack.
type NotifyTask struct {
	Task
	snapshots Snapshots
	notifier  Notifier
}

func NewNotifyTask(snapshots Snapshots, notifier Notifier) *NotifyTask {
	return &NotifyTask{
		Task:      NewTask(TaskTypeNotify, "일일 추천 알림"),
		snapshots: snapshots,
		notifier:  notifier,
	}
}

func (t *NotifyTask) Execute(ctx context.Context) error {
	snapshot, err := t.snapshots.Load()
	if err != nil {
		return fmt.Errorf("failed to load recommendations: %w", err)
	}
	if snapshot == nil || len(snapshot.Articles) == 0 {
		slog.Warn("No recommendations to notify about")
		return nil
	}

	if err := t.notifier.Notify(ctx, snapshot.Articles); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	slog.Info("Daily notification sent", "articles", len(snapshot.Articles), "duration", t.GetDuration().String())
	return nil
}
