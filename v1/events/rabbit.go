package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// routingKey builds the topic routing key "search.<index>.<type>" so
// subscribers can bind to everything ("search.#"), one index
// ("search.articles.*") or one event kind ("search.*.invalidate").
func routingKey(event Event) string {
	return fmt.Sprintf("search.%s.%s", event.Index, event.Type)
}

// RabbitPublisher publishes index-change events to a durable topic exchange.
type RabbitPublisher struct {
	cfg     RabbitConfig
	conn    *amqp.Connection
	channel *amqp.Channel

	mu sync.RWMutex

	closeOnce sync.Once
}

// NewRabbitPublisher connects to RabbitMQ, declares the topic exchange and
// returns a ready publisher.
func NewRabbitPublisher(cfg RabbitConfig) (*RabbitPublisher, error) {
	if cfg.Exchange == "" {
		cfg.Exchange = DefaultExchange
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("events: failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("events: failed to create channel: %w", err)
	}

	if cfg.ConfirmPublish {
		if err := ch.Confirm(false); err != nil {
			conn.Close()
			return nil, fmt.Errorf("events: failed to enable publisher confirms: %w", err)
		}
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange,
		"topic",
		true,  // Durable
		false, // AutoDelete
		false, // Internal
		false, // NoWait
		nil,   // Arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("events: failed to declare exchange %q: %w", cfg.Exchange, err)
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("connected to RabbitMQ event exchange", nil, map[string]interface{}{
			"exchange": cfg.Exchange,
		})
	}

	return &RabbitPublisher{
		cfg:     cfg,
		conn:    conn,
		channel: ch,
	}, nil
}

// Publish sends one event as a persistent JSON message.
func (p *RabbitPublisher) Publish(ctx context.Context, event Event) error {
	if event.At.IsZero() {
		event.At = time.Now()
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal event: %w", err)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	err = p.channel.PublishWithContext(ctx,
		p.cfg.Exchange,
		routingKey(event),
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.At,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("events: publish to %q: %w", p.cfg.Exchange, err)
	}
	return nil
}

// Close shuts down the channel and connection.
func (p *RabbitPublisher) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if cerr := p.channel.Close(); cerr != nil {
			err = cerr
		}
		if cerr := p.conn.Close(); cerr != nil && err == nil {
			err = cerr
		}
	})
	return err
}

// RabbitSubscriber consumes index-change events and dispatches them to a
// handler. Failed handlers nack with requeue.
type RabbitSubscriber struct {
	cfg     RabbitConfig
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// NewRabbitSubscriber connects to RabbitMQ, declares the exchange and a
// bound queue, and returns a subscriber ready to Run.
func NewRabbitSubscriber(cfg RabbitConfig) (*RabbitSubscriber, error) {
	if cfg.Exchange == "" {
		cfg.Exchange = DefaultExchange
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("events: failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("events: failed to create channel: %w", err)
	}

	err = ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("events: failed to declare exchange %q: %w", cfg.Exchange, err)
	}

	durable := cfg.Queue != ""
	queue, err := ch.QueueDeclare(
		cfg.Queue,
		durable,  // Durable
		!durable, // AutoDelete
		!durable, // Exclusive
		false,    // NoWait
		nil,      // Arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("events: failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(queue.Name, "search.#", cfg.Exchange, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("events: failed to bind queue %q: %w", queue.Name, err)
	}

	return &RabbitSubscriber{
		cfg:     cfg,
		conn:    conn,
		channel: ch,
		queue:   queue.Name,
		done:    make(chan struct{}),
	}, nil
}

// Run consumes events until the context is canceled or Close is called.
func (s *RabbitSubscriber) Run(ctx context.Context, handler Handler) error {
	deliveries, err := s.channel.Consume(
		s.queue,
		"",    // Consumer tag
		false, // AutoAck
		false, // Exclusive
		false, // NoLocal
		false, // NoWait
		nil,   // Arguments
	)
	if err != nil {
		return fmt.Errorf("events: failed to start consuming %q: %w", s.queue, err)
	}

	s.wg.Add(1)
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return nil
			}
			s.dispatch(ctx, handler, delivery)
		}
	}
}

func (s *RabbitSubscriber) dispatch(ctx context.Context, handler Handler, delivery amqp.Delivery) {
	var event Event
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		if s.cfg.Logger != nil {
			s.cfg.Logger.Error("dropping malformed event", err, map[string]interface{}{
				"routing_key": delivery.RoutingKey,
			})
		}
		_ = delivery.Nack(false, false)
		return
	}

	if err := handler(ctx, event); err != nil {
		if s.cfg.Logger != nil {
			s.cfg.Logger.Error("event handler failed, requeueing", err, map[string]interface{}{
				"index": event.Index,
				"type":  string(event.Type),
			})
		}
		_ = delivery.Nack(false, true)
		return
	}
	_ = delivery.Ack(false)
}

// Close stops the consume loop and shuts down the connection.
func (s *RabbitSubscriber) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		if cerr := s.channel.Close(); cerr != nil {
			err = cerr
		}
		if cerr := s.conn.Close(); cerr != nil && err == nil {
			err = cerr
		}
		s.wg.Wait()
	})
	return err
}

var _ Publisher = (*RabbitPublisher)(nil)
