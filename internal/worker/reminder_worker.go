package worker

import (
	"context"
	"fmt"
	"time"

	"tasksApp/internal/events"
	"tasksApp/internal/logger"
	"tasksApp/internal/models/task"
	"tasksApp/internal/service"

	"go.uber.org/zap"
)

const (
	defaultInterval  = 5 * time.Minute
	defaultBatchSize = 100
)

type TaskFinder interface {
	FindTasksByStatus(ctx context.Context, open bool) ([]*task.Task, error)
}

// ReminderWorker periodically publishes a reminder event for every open task with a reminder set.
type ReminderWorker struct {
	tasks     TaskFinder
	publisher service.EventPublisher
	interval  time.Duration
	batchSize int
}

func NewReminderWorker(tasks TaskFinder, publisher service.EventPublisher, interval time.Duration) *ReminderWorker {
	if interval <= 0 {
		interval = defaultInterval
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &ReminderWorker{
		tasks:     tasks,
		publisher: publisher,
		interval:  interval,
		batchSize: defaultBatchSize,
	}
}

// Start blocks until ctx is canceled.
func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Worker: reminder worker started", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: reminder worker stopping")
			return
		}
	}
}

// Check runs one scan and returns the number of reminders published.
func (w *ReminderWorker) Check(ctx context.Context) int {
	start := time.Now()

	tasks, err := w.dueReminders(ctx)
	if err != nil {
		logger.Warn("Worker: failed to load tasks", zap.Error(err))
		return 0
	}

	sent := 0
	for _, t := range tasks {
		if ctx.Err() != nil || sent >= w.batchSize {
			break
		}
		w.publisher.Publish(ctx, events.New(events.TaskReminder, t))
		sent++
	}

	logger.Info("Worker: reminder scan finished",
		zap.Duration("ms", time.Since(start)),
		zap.Int("checked", len(tasks)),
		zap.Int("reminded", sent),
	)
	return sent
}

func (w *ReminderWorker) dueReminders(ctx context.Context) ([]*task.Task, error) {
	open, err := w.tasks.FindTasksByStatus(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("find open tasks: %w", err)
	}

	due := make([]*task.Task, 0, len(open))
	for _, t := range open {
		if t.IsReminderSet {
			due = append(due, t)
		}
	}
	return due, nil
}
