package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"tasksApp/internal/config"
	"tasksApp/internal/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer MessageWriter
}

func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		Async:        true,
		Completion:   logDelivery,
	}
	logger.Info("Events: kafka publisher configured",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic))
	return NewKafkaPublisherWithWriter(w)
}

func NewKafkaPublisherWithWriter(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// Publish never fails the caller: marshal and write errors are logged and dropped.
// Messages are keyed by task id so events of one task stay ordered within a partition.
func (p *KafkaPublisher) Publish(ctx context.Context, e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		logger.Error("Events: failed to marshal event", err, zap.String("type", string(e.Type)))
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(e.TaskID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(e.Type)},
		},
	})
	if err != nil {
		logger.Warn("Events: failed to publish event",
			zap.Error(err),
			zap.String("type", string(e.Type)),
			zap.Int64("task_id", e.TaskID))
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func logDelivery(messages []kafka.Message, err error) {
	if err != nil {
		logger.Warn("Events: async delivery failed", zap.Error(err), zap.Int("messages", len(messages)))
	}
}
