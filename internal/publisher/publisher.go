package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fjod/go_pizza/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// Topic receives every order event.
const Topic = "pizza-orders"

type Publisher interface {
	Publish(ctx context.Context, n domain.Notification) error
	Close() error
}

// OrderEvent is the wire payload of an order notification.
type OrderEvent struct {
	EventType  string    `json:"event_type"`
	OrderID    string    `json:"order_id"`
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           10 * time.Second,
		// one event per write; the default 1s batch window would delay
		// every order event
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, n domain.Notification) error {
	msg, err := buildMessage(n)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s for order %s: %w", n.Kind, n.OrderID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func buildMessage(n domain.Notification) (kafka.Message, error) {
	payload, err := json.Marshal(OrderEvent{
		EventType:  string(n.Kind),
		OrderID:    n.OrderID.String(),
		Status:     n.Status.String(),
		Message:    n.Message,
		OccurredAt: n.At,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal order event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(n.OrderID.String()), // order id keeps per-order ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(n.Kind)},
		},
		Time: n.At,
	}, nil
}

// LogPublisher writes events to the application log. Used when no broker is
// configured.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (LogPublisher) Publish(_ context.Context, n domain.Notification) error {
	log.Info().
		Str("event_type", string(n.Kind)).
		Stringer("order_id", n.OrderID).
		Str("status", n.Status.String()).
		Msg(n.Message)
	return nil
}

func (LogPublisher) Close() error {
	return nil
}
