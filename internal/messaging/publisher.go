// Package messaging publishes session events to RabbitMQ for consumers outside the process.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	// DefaultExchange is the fanout exchange session events are published to.
	DefaultExchange = "adventure.events"
	publishTimeout  = 5 * time.Second
	appID           = "adventure-server"
)

// Event is the body of every published message.
type Event struct {
	Type       string          `json:"type"`
	Topic      string          `json:"topic"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// EventPublisher publishes controller updates to a fanout exchange. It satisfies
// game.Notifier.
type EventPublisher struct {
	mu       sync.Mutex
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger
	now      func() time.Time
}

// Connect dials RabbitMQ, retrying while the broker comes up.
func Connect(ctx context.Context, url string, logger *zap.Logger) (*amqp.Connection, error) {
	const maxRetries = 5
	retryDelay := 2 * time.Second

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		conn, err := amqp.Dial(url)
		if err == nil {
			logger.Info("Connected to RabbitMQ", zap.Int("attempt", attempt))
			return conn, nil
		}
		lastErr = err
		logger.Warn("RabbitMQ connection failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxRetries),
			zap.Duration("retry_delay", retryDelay),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, fmt.Errorf("failed to connect to rabbitmq after %d attempts: %w", maxRetries, lastErr)
}

// NewEventPublisher opens a channel on conn and declares the durable fanout exchange.
func NewEventPublisher(conn *amqp.Connection, exchange string, logger *zap.Logger) (*EventPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("event publisher: failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("event publisher: failed to declare exchange %q: %w", exchange, err)
	}
	logger = logger.Named("EventPublisher")
	logger.Info("Exchange declared", zap.String("exchange", exchange))
	return &EventPublisher{channel: ch, exchange: exchange, logger: logger, now: time.Now}, nil
}

// Broadcast publishes one event. Failures are logged; events are best effort.
func (p *EventPublisher) Broadcast(messageType, topic string, payload interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := p.Publish(ctx, messageType, topic, payload); err != nil {
		p.logger.Warn("Failed to publish event", zap.String("type", messageType), zap.Error(err))
	}
}

// Publish encodes and publishes one event.
func (p *EventPublisher) Publish(ctx context.Context, messageType, topic string, payload interface{}) error {
	body, err := encodeEvent(messageType, topic, payload, p.now())
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		topic,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Transient,
			Type:         messageType,
			Body:         body,
			Timestamp:    p.now(),
			AppId:        appID,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s to %q: %w", messageType, p.exchange, err)
	}
	return nil
}

// Close closes the channel. The connection stays open.
func (p *EventPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channel.Close()
}

func encodeEvent(messageType, topic string, payload interface{}, at time.Time) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", messageType, err)
	}
	return json.Marshal(Event{Type: messageType, Topic: topic, Payload: raw, OccurredAt: at.UTC()})
}
