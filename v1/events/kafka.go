package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher publishes index-change events to a Kafka topic. Messages
// are keyed by index so all events for one index land on the same partition
// and stay ordered.
type KafkaPublisher struct {
	cfg    KafkaConfig
	writer *kafka.Writer
}

// NewKafkaPublisher creates a Kafka-backed publisher. The writer batches
// internally; Close flushes pending messages.
func NewKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("events: at least one Kafka broker is required")
	}
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}

	return &KafkaPublisher{
		cfg:    cfg,
		writer: writer,
	}, nil
}

// Publish sends one event as a JSON message keyed by index.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	if event.At.IsZero() {
		event.At = time.Now()
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Index),
		Value: body,
		Time:  event.At,
	})
	if err != nil {
		return fmt.Errorf("events: publish to %q: %w", p.cfg.Topic, err)
	}
	return nil
}

// Close flushes and shuts down the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

var _ Publisher = (*KafkaPublisher)(nil)
