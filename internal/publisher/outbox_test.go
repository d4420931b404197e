package publisher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fjod/go_pizza/internal/domain"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stalledPublisher never completes a publish before its context ends, like a
// broker that accepts connections and never answers.
type stalledPublisher struct {
	mu       sync.RWMutex
	attempts []domain.Notification
}

func (p *stalledPublisher) Publish(ctx context.Context, n domain.Notification) error {
	p.mu.Lock()
	p.attempts = append(p.attempts, n)
	p.mu.Unlock()
	<-ctx.Done()
	return ctx.Err()
}

func (p *stalledPublisher) Close() error { return nil }

func (p *stalledPublisher) count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.attempts)
}

type recordingPublisher struct {
	mu     sync.RWMutex
	events []domain.Notification
}

func (p *recordingPublisher) Publish(_ context.Context, n domain.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, n)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.events)
}

func placed() domain.Notification {
	return domain.Notification{OrderID: uuid.New(), Kind: domain.NotificationPlaced, Status: domain.OrderStatusPreparing}
}

func TestOutbox_RunPublishesInOrder(t *testing.T) {
	pub := &recordingPublisher{}
	o := NewOutbox(pub, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go o.Run(ctx)

	first, second := placed(), placed()
	require.NoError(t, o.Enqueue(first))
	require.NoError(t, o.Enqueue(second))

	require.Eventually(t, func() bool { return pub.count() == 2 }, time.Second, 5*time.Millisecond)
	pub.mu.RLock()
	defer pub.mu.RUnlock()
	assert.Equal(t, first.OrderID, pub.events[0].OrderID)
	assert.Equal(t, second.OrderID, pub.events[1].OrderID)
}

func TestOutbox_EnqueueDoesNotWaitForStalledBroker(t *testing.T) {
	pub := &stalledPublisher{}
	o := NewOutbox(pub, 8)
	o.timeout = 200 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go o.Run(ctx)

	start := time.Now()
	for range 3 {
		require.NoError(t, o.Enqueue(placed()))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)

	require.Eventually(t, func() bool { return pub.count() >= 1 }, time.Second, 5*time.Millisecond)
}

func TestOutbox_FullBufferRejects(t *testing.T) {
	o := NewOutbox(&recordingPublisher{}, 2)

	require.NoError(t, o.Enqueue(placed()))
	require.NoError(t, o.Enqueue(placed()))
	assert.ErrorIs(t, o.Enqueue(placed()), ErrOutboxFull)
	assert.Equal(t, 2, o.Pending())
}

func TestOutbox_FlushesOnShutdown(t *testing.T) {
	pub := &recordingPublisher{}
	o := NewOutbox(pub, 8)
	for range 3 {
		require.NoError(t, o.Enqueue(placed()))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		o.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 3, pub.count())
	assert.Zero(t, o.Pending())
}

func TestNewKafkaPublisher_WritesWithoutBatchDelay(t *testing.T) {
	p := NewKafkaPublisher("localhost:9092")
	t.Cleanup(func() { _ = p.Close() })

	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, 1, w.BatchSize)
	assert.LessOrEqual(t, w.BatchTimeout, 10*time.Millisecond)
	assert.Equal(t, Topic, w.Topic)
}
