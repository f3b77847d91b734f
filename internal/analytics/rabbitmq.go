package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rpggio/streaks/internal/domain/activity"
)

const (
	// DefaultExchangeName is the topic exchange analytics events go to.
	DefaultExchangeName = "streaks.analytics"
	// routingKeyPrefix is joined with the event type, e.g. "activity.tracker_created".
	routingKeyPrefix = "activity."
)

// Channel is the subset of *amqp.Channel the publisher uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends activity entries to a RabbitMQ topic exchange.
type Publisher struct {
	conn     io.Closer
	channel  Channel
	exchange string
	logger   *slog.Logger
}

// Dial connects to RabbitMQ and declares the analytics exchange.
func Dial(amqpURL, exchange string, logger *slog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	p, err := NewPublisher(ch, exchange, logger)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

// NewPublisher wraps an open channel and declares the exchange on it.
func NewPublisher(ch Channel, exchange string, logger *slog.Logger) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchangeName
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{channel: ch, exchange: exchange, logger: logger}, nil
}

// Publish sends entry as a JSON message routed by its event type.
func (p *Publisher) Publish(ctx context.Context, entry activity.Entry) error {
	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	msg := amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
		Timestamp:   entry.CreatedAt,
		Type:        string(entry.Type),
	}
	if entry.ID != 0 {
		msg.MessageId = strconv.FormatInt(entry.ID, 10)
	}

	key := routingKeyPrefix + string(entry.Type)
	if err := p.channel.PublishWithContext(ctx, p.exchange, key, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", entry.Type, err)
	}
	p.logger.Debug("analytics event published", "type", entry.Type, "routing_key", key)
	return nil
}

// Close closes the channel and, when dialed, the connection.
func (p *Publisher) Close() error {
	if err := p.channel.Close(); err != nil {
		return fmt.Errorf("failed to close channel: %w", err)
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}
	return nil
}
