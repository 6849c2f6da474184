// AngelaMos | 2026
// publisher.go

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/carterperez-dev/soundline/internal/config"
)

// Event routing keys. Consumers bind queues per key (email workers,
// webhooks).
const (
	EventAccountApproved  = "account.approved"
	EventAccountRejected  = "account.rejected"
	EventPaymentSubmitted = "payment.submitted"
	EventReleaseSubmitted = "release.submitted"
)

type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"userId"`
	Plan       string    `json:"plan,omitempty"`
	ResourceID string    `json:"resourceId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type amqpPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *slog.Logger
}

// NewPublisher connects to the broker and declares the topic exchange.
// When messaging is disabled it returns a no-op publisher so callers
// never branch.
func NewPublisher(
	cfg config.AMQPConfig,
	logger *slog.Logger,
) (Publisher, error) {
	if !cfg.Enabled {
		return noopPublisher{logger: logger}, nil
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close() //nolint:errcheck // cleanup on failure
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		cfg.Exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = channel.Close() //nolint:errcheck // cleanup on failure
		_ = conn.Close()    //nolint:errcheck // cleanup on failure
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &amqpPublisher{
		conn:     conn,
		channel:  channel,
		exchange: cfg.Exchange,
		logger:   logger,
	}, nil
}

func (p *amqpPublisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		event.Type,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}

	p.logger.Debug("event published",
		"type", event.Type,
		"user_id", event.UserID,
	)
	return nil
}

func (p *amqpPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		return fmt.Errorf("close channel: %w", err)
	}
	if err := p.conn.Close(); err != nil {
		return fmt.Errorf("close connection: %w", err)
	}
	return nil
}

type noopPublisher struct {
	logger *slog.Logger
}

func (n noopPublisher) Publish(_ context.Context, event Event) error {
	n.logger.Debug("event dropped, messaging disabled", "type", event.Type)
	return nil
}

func (n noopPublisher) Close() error { return nil }
