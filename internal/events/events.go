package events

import (
	"context"
	"time"

	"tasksApp/internal/dto"
	"tasksApp/internal/models/task"

	"github.com/google/uuid"
)

type Type string

const (
	TaskCreated  Type = "task.created"
	TaskUpdated  Type = "task.updated"
	TaskDeleted  Type = "task.deleted"
	TaskReminder Type = "task.reminder"
)

type Event struct {
	ID         string      `json:"id"`
	Type       Type        `json:"type"`
	TaskID     int64       `json:"taskId"`
	OccurredAt time.Time   `json:"occurredAt"`
	Task       dto.TaskDto `json:"task"`
}

func New(eventType Type, t *task.Task) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		TaskID:     t.ID,
		OccurredAt: time.Now().UTC(),
		Task:       dto.ToDto(t),
	}
}

// NoopPublisher drops every event. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) {}

func (NoopPublisher) Close() error { return nil }
