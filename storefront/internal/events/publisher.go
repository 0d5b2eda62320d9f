package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/fjod/go_storefront/storefront/domain"
)

const Topic = "order-events"

type EventType string

const (
	OrderCreated EventType = "order_created"
	OrderPaid    EventType = "order_paid"
	OrderDeleted EventType = "order_deleted"
)

// OrderEvent describes one step of an order's lifecycle. Total is a decimal
// string so consumers never see a float rounding of the stored amount.
type OrderEvent struct {
	EventID    string    `json:"event_id"`
	Type       EventType `json:"event_type"`
	OrderID    int64     `json:"order_id"`
	UserEmail  string    `json:"user_email"`
	Total      string    `json:"total,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewOrderEvent(t EventType, order *domain.Order) OrderEvent {
	ev := OrderEvent{
		EventID:    uuid.NewString(),
		Type:       t,
		OrderID:    order.ID,
		UserEmail:  order.UserEmail,
		OccurredAt: time.Now().UTC(),
	}
	if !order.TotalPrice.IsZero() {
		ev.Total = order.TotalPrice.StringFixed(2)
	}
	return ev
}

type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	log    *slog.Logger
}

func NewKafkaPublisher(log *slog.Logger, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  Topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w, log: log}
}

// Publish writes the event keyed by order id so that events of one order stay
// on one partition in order.
func (p *KafkaPublisher) Publish(ctx context.Context, event OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("%d", event.OrderID)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.EventID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.WarnContext(ctx, "order event not published",
			"event_type", event.Type, "order_id", event.OrderID, "error", err)
		return fmt.Errorf("publish order event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops every event. It is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, OrderEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
