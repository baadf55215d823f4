package events

import (
	"encoding/json"
	"testing"
	"time"
)

func TestRoutingKey(t *testing.T) {
	key := routingKey(Event{Type: TypeInvalidate, Index: "articles"})
	if key != "search.articles.invalidate" {
		t.Fatalf("unexpected routing key: %q", key)
	}
}

func TestEventJSONShape(t *testing.T) {
	event := Event{
		Type:  TypeDelete,
		Index: "articles",
		IDs:   []string{"doc-1"},
		At:    time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded["type"] != "delete" || decoded["index"] != "articles" {
		t.Fatalf("unexpected JSON: %s", data)
	}
	if _, ok := decoded["tags"]; ok {
		t.Fatal("empty tags should be omitted")
	}
}

func TestNewPublisherRejectsUnknownType(t *testing.T) {
	if _, err := NewPublisher(Config{Type: "carrier-pigeon"}); err == nil {
		t.Fatal("expected error for unknown publisher type")
	}
}

func TestNewPublisherRejectsNilBackendConfig(t *testing.T) {
	if _, err := NewPublisher(Config{Type: "rabbit"}); err == nil {
		t.Fatal("expected error for nil rabbit config")
	}
	if _, err := NewPublisher(Config{Type: "kafka"}); err == nil {
		t.Fatal("expected error for nil kafka config")
	}
}

func TestKafkaPublisherRequiresBrokers(t *testing.T) {
	if _, err := NewKafkaPublisher(KafkaConfig{}); err == nil {
		t.Fatal("expected error for missing brokers")
	}
}

func TestConfigUnions(t *testing.T) {
	cfg := Rabbit(RabbitConfig{URL: "amqp://localhost"})
	if cfg.Type != "rabbit" || cfg.Rabbit == nil || cfg.Kafka != nil {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	cfg = Kafka(KafkaConfig{Brokers: []string{"localhost:9092"}})
	if cfg.Type != "kafka" || cfg.Kafka == nil || cfg.Rabbit != nil {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}
