package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"tasksApp/internal/events"
	"tasksApp/internal/logger"
	"tasksApp/internal/models/task"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func sampleTask() *task.Task {
	t := task.New("Buy milk", task.PriorityHigh)
	t.ID = 7
	return t
}

func TestNew(t *testing.T) {
	e := events.New(events.TaskCreated, sampleTask())

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, events.TaskCreated, e.Type)
	assert.Equal(t, int64(7), e.TaskID)
	assert.Equal(t, "Buy milk", e.Task.Description)
	assert.False(t, e.OccurredAt.IsZero())
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := events.NewKafkaPublisherWithWriter(w)

	p.Publish(context.Background(), events.New(events.TaskUpdated, sampleTask()))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "7", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "task.updated", string(msg.Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "task.updated", decoded["type"])
	assert.Equal(t, float64(7), decoded["taskId"])
	payload := decoded["task"].(map[string]any)
	assert.Equal(t, "HIGH", payload["priority"])
	assert.Equal(t, true, payload["isTaskOpen"])
}

func TestKafkaPublisher_WriteErrorIsLoggedNotReturned(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(nil) })

	w := &fakeWriter{err: errors.New("broker down")}
	p := events.NewKafkaPublisherWithWriter(w)

	assert.NotPanics(t, func() {
		p.Publish(context.Background(), events.New(events.TaskDeleted, sampleTask()))
	})
	assert.Equal(t, 1, logs.FilterMessage("Events: failed to publish event").Len())
}

func TestKafkaPublisher_Close(t *testing.T) {
	w := &fakeWriter{}
	require.NoError(t, events.NewKafkaPublisherWithWriter(w).Close())
	assert.True(t, w.closed)
}

func TestNoopPublisher(t *testing.T) {
	var p events.NoopPublisher
	assert.NotPanics(t, func() {
		p.Publish(context.Background(), events.New(events.TaskReminder, sampleTask()))
	})
	assert.NoError(t, p.Close())
}
