package publisher

import (
	"context"
	"errors"
	"time"

	"github.com/fjod/go_pizza/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	DefaultOutboxSize = 1024

	// PublishTimeout bounds a single publish attempt.
	PublishTimeout = 5 * time.Second
)

var ErrOutboxFull = errors.New("order event outbox is full")

// Outbox decouples callers from the broker. Enqueue never blocks; Run drains
// the buffer into the publisher on its own goroutine.
type Outbox struct {
	pub     Publisher
	events  chan domain.Notification
	timeout time.Duration
}

func NewOutbox(pub Publisher, size int) *Outbox {
	if size <= 0 {
		size = DefaultOutboxSize
	}
	return &Outbox{
		pub:     pub,
		events:  make(chan domain.Notification, size),
		timeout: PublishTimeout,
	}
}

// Enqueue hands n to the publishing loop. It fails with ErrOutboxFull rather
// than wait for room.
func (o *Outbox) Enqueue(n domain.Notification) error {
	select {
	case o.events <- n:
		return nil
	default:
		return ErrOutboxFull
	}
}

// Pending is the number of events not yet handed to the publisher.
func (o *Outbox) Pending() int {
	return len(o.events)
}

// Run publishes queued events until ctx is done, then flushes whatever is
// still buffered.
func (o *Outbox) Run(ctx context.Context) {
	for {
		select {
		case n := <-o.events:
			o.publish(context.WithoutCancel(ctx), n)
		case <-ctx.Done():
			o.flush(context.WithoutCancel(ctx))
			return
		}
	}
}

func (o *Outbox) flush(ctx context.Context) {
	for {
		select {
		case n := <-o.events:
			o.publish(ctx, n)
		default:
			return
		}
	}
}

func (o *Outbox) publish(ctx context.Context, n domain.Notification) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	if err := o.pub.Publish(ctx, n); err != nil {
		log.Error().Err(err).Stringer("order_id", n.OrderID).Str("event_type", string(n.Kind)).Msg("failed to publish order event")
	}
}
