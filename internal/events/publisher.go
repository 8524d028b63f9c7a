package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/umutak/deskmate/internal/notify"
)

const (
	// DefaultExchangeName is the fanout exchange popup events are published to.
	DefaultExchangeName = "deskmate_events"
	// EventPopupActivated is emitted when a due record claims a popup slot.
	EventPopupActivated = "popup_activated"
)

// PopupEvent is the wire format for popup notifications published to AMQP.
// External consumers (desktop notifiers, webhooks) subscribe to the fanout
// exchange and receive one event per activated popup.
type PopupEvent struct {
	Type       string     `json:"type"`
	Category   string     `json:"category"`
	RecordID   string     `json:"record_id"`
	Content    string     `json:"content"`
	DueAt      *time.Time `json:"due_at,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// AMQPPublisher publishes popup events to a RabbitMQ fanout exchange.
// It is optional infrastructure: when RabbitMQ is not configured the server
// runs without a publisher and popups are only visible through the API.
type AMQPPublisher struct {
	conn         *amqp.Connection
	channel      *amqp.Channel
	exchangeName string
	log          *zap.Logger
}

var _ notify.Publisher = (*AMQPPublisher)(nil)

// NewAMQPPublisher connects to RabbitMQ and declares the fanout exchange.
func NewAMQPPublisher(amqpURL string, log *zap.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			_ = closeErr
		}
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		DefaultExchangeName,
		"fanout",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			_ = closeErr
		}
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &AMQPPublisher{
		conn:         conn,
		channel:      ch,
		exchangeName: DefaultExchangeName,
		log:          log,
	}, nil
}

// PopupActivated publishes a popup event. Publish failures are logged and
// swallowed so the notification poller keeps running when the broker is down.
func (p *AMQPPublisher) PopupActivated(ctx context.Context, category notify.Category, record notify.Record) {
	event := PopupEvent{
		Type:       EventPopupActivated,
		Category:   string(category),
		RecordID:   record.ID.String(),
		Content:    record.Content,
		DueAt:      record.DueAt,
		OccurredAt: time.Now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.log.Error("failed_to_marshal_popup_event",
			zap.Error(err),
			zap.String("category", string(category)),
		)
		return
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchangeName,
		"", // fanout ignores the routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    record.ID.String(),
			Timestamp:    event.OccurredAt,
		},
	)
	if err != nil {
		p.log.Error("failed_to_publish_popup_event",
			zap.Error(err),
			zap.String("category", string(category)),
			zap.String("record_id", record.ID.String()),
		)
		return
	}

	p.log.Debug("popup_event_published",
		zap.String("category", string(category)),
		zap.String("record_id", record.ID.String()),
	)
}

// Close closes the channel and connection.
func (p *AMQPPublisher) Close() error {
	var err error
	if p.channel != nil {
		err = p.channel.Close()
	}
	if p.conn != nil {
		if closeErr := p.conn.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}
