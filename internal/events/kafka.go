package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaMirror copies every published event onto a Kafka topic so other
// services can consume the stream. Delivery is best effort from the
// handler's point of view; the broker owns durability.
type KafkaMirror struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewKafkaMirror builds a mirror writing to the given brokers/topic.
// Returns nil when no brokers are configured.
func NewKafkaMirror(brokers []string, topic string, logger *zap.Logger) *KafkaMirror {
	if len(brokers) == 0 || topic == "" {
		logger.Warn("kafka brokers not configured; event mirroring disabled")
		return nil
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
	}
	return &KafkaMirror{writer: writer, logger: logger}
}

// Register subscribes the mirror to the full event stream.
func (m *KafkaMirror) Register(dispatcher Dispatcher) {
	if m == nil || dispatcher == nil {
		return
	}
	for _, eventType := range All() {
		dispatcher.Subscribe(eventType, m.Handle)
	}
}

// Handle serializes the event and writes it to the topic, keyed by
// aggregate id so per-aggregate ordering is preserved.
func (m *KafkaMirror) Handle(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(event.AggregateID),
		Value: value,
	}
	if err := m.writer.WriteMessages(ctx, msg); err != nil {
		m.logger.Error("kafka write failed",
			zap.String("event_type", string(event.Type)),
			zap.String("aggregate_id", event.AggregateID),
			zap.Error(err))
		return err
	}
	return nil
}

// Close releases the underlying writer.
func (m *KafkaMirror) Close() error {
	if m == nil || m.writer == nil {
		return nil
	}
	return m.writer.Close()
}
