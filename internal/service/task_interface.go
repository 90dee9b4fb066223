package service

import (
	"context"

	"tasksApp/internal/events"
	"tasksApp/internal/models/task"
)

// TaskRepository reports a missing id with repository.ErrNotFound and a description
// collision with repository.ErrDuplicate.
type TaskRepository interface {
	FindAll(ctx context.Context) ([]*task.Task, error)
	FindByID(ctx context.Context, id int64) (*task.Task, error)
	FindByOpenStatus(ctx context.Context, open bool) ([]*task.Task, error)
	Save(ctx context.Context, t *task.Task) (*task.Task, error)
	DeleteByID(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

type EventPublisher interface {
	Publish(ctx context.Context, e events.Event)
}
