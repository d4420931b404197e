package ledger

import (
	"testing"
	"time"

	"github.com/fjod/go_pizza/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testLines() []domain.CartLine {
	return []domain.CartLine{
		{LineItem: domain.LineItem{ID: "1", Name: "Margherita", Price: 450}, Quantity: 2},
	}
}

func menu(id int64) (domain.CatalogItem, bool) {
	items := map[int64]domain.CatalogItem{
		1:  {ID: 1, Name: "Margherita", Price: 450, Category: domain.CategoryPizza},
		2:  {ID: 2, Name: "Pepperoni", Price: 520, Category: domain.CategoryPizza},
		7:  {ID: 7, Name: "Meat", Price: 620, Category: domain.CategoryPizza},
		14: {ID: 14, Name: "Chicken wings", Price: 280, Category: domain.CategorySnack},
		15: {ID: 15, Name: "French fries", Price: 180, Category: domain.CategorySnack},
		19: {ID: 19, Name: "Coca-Cola", Price: 120, Category: domain.CategoryDrink},
	}
	item, ok := items[id]
	return item, ok
}

// onTheWay commits an order and walks it to on-the-way with the given minutes left.
func onTheWay(t *testing.T, l *Ledger, minutes int) uuid.UUID {
	t.Helper()
	o := l.Commit(testLines(), domain.Quote{Subtotal: 900, Total: 900}, "", nil, now)
	_, _, err := l.Advance(o.ID, now)
	require.NoError(t, err)
	_, _, err = l.Advance(o.ID, now)
	require.NoError(t, err)
	l.index[o.ID].EstimatedMinutes = minutes
	return o.ID
}

func TestCommit(t *testing.T) {
	l := New()
	details := &domain.DeliveryDetails{Address: "Lenina 1"}

	first := l.Commit(testLines(), domain.Quote{Subtotal: 900, Total: 900}, "", details, now)
	second := l.Commit(testLines(), domain.Quote{Subtotal: 900, Discount: 180, Total: 720}, "PIZZA20", nil, now.Add(time.Minute))

	assert.Equal(t, domain.OrderStatusPreparing, first.Status)
	assert.Equal(t, EstimatedDelivery, first.EstimatedMinutes)
	assert.Equal(t, "Lenina 1", first.Delivery.Address)

	list := l.List()
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "most recent first")
	assert.Equal(t, "PIZZA20", list[0].PromoCode)
}

func TestCommit_SnapshotIsIsolated(t *testing.T) {
	l := New()
	lines := testLines()
	o := l.Commit(lines, domain.Quote{}, "", nil, now)

	lines[0].Quantity = 99
	o.Lines[0].Quantity = 42

	stored, err := l.Get(o.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Lines[0].Quantity)
}

func TestTick_LastMinuteDelivers(t *testing.T) {
	l := New()
	id := onTheWay(t, l, 1)

	notes := l.Tick(now)

	o, _ := l.Get(id)
	assert.Equal(t, domain.OrderStatusDelivered, o.Status)
	assert.Zero(t, o.EstimatedMinutes)
	require.Len(t, notes, 1)
	assert.Equal(t, domain.NotificationDelivered, notes[0].Kind)
	assert.Equal(t, id, notes[0].OrderID)

	assert.Empty(t, l.Tick(now), "delivered notice is emitted once")
}

func TestTick_CountsDown(t *testing.T) {
	l := New()
	id := onTheWay(t, l, 15)

	assert.Empty(t, l.Tick(now))

	o, _ := l.Get(id)
	assert.Equal(t, 14, o.EstimatedMinutes)
	assert.Equal(t, domain.OrderStatusOnTheWay, o.Status)
}

func TestTick_IgnoresOtherStatuses(t *testing.T) {
	l := New()
	o := l.Commit(testLines(), domain.Quote{}, "", nil, now)

	l.Tick(now)

	got, _ := l.Get(o.ID)
	assert.Equal(t, domain.OrderStatusPreparing, got.Status)
	assert.Equal(t, EstimatedDelivery, got.EstimatedMinutes)
}

func TestAdvance(t *testing.T) {
	l := New()
	o := l.Commit(testLines(), domain.Quote{}, "", nil, now)

	got, note, err := l.Advance(o.ID, now)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCooking, got.Status)
	assert.Equal(t, domain.NotificationStatusChanged, note.Kind)

	got, _, err = l.Advance(o.ID, now)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusOnTheWay, got.Status)
	require.NotNil(t, got.CourierPosition)
	assert.Equal(t, Kitchen, *got.CourierPosition)

	_, _, err = l.Advance(o.ID, now)
	assert.ErrorIs(t, err, ErrIllegalTransition, "delivery only happens via the countdown")

	_, _, err = l.Advance(uuid.New(), now)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCancel(t *testing.T) {
	l := New()
	o := l.Commit(testLines(), domain.Quote{}, "", nil, now)

	got, note, err := l.Cancel(o.ID, now)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, got.Status)
	assert.Equal(t, domain.OrderStatusCancelled, note.Status)

	_, _, err = l.Cancel(o.ID, now)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	_, _, err = l.Advance(o.ID, now)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestCancel_DeliveredIsTerminal(t *testing.T) {
	l := New()
	id := onTheWay(t, l, 1)
	l.Tick(now)

	_, _, err := l.Cancel(id, now)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestSeed(t *testing.T) {
	l := New()
	require.NoError(t, l.Seed(now, menu))

	list := l.List()
	require.Len(t, list, 3)

	current := list[0]
	assert.Equal(t, domain.OrderStatusOnTheWay, current.Status)
	assert.Equal(t, 15, current.EstimatedMinutes)
	assert.Equal(t, now, current.CreatedAt)
	require.NotNil(t, current.CourierPosition)
	assert.Equal(t, int64(800), current.Quote.Subtotal)

	assert.Equal(t, int64(1180), list[1].Quote.Total)
	assert.Equal(t, "2024-01-15", list[1].CreatedAt.Format(time.DateOnly))
	assert.Equal(t, int64(640), list[2].Quote.Total)
}

func TestSeed_UnknownItem(t *testing.T) {
	l := New()
	err := l.Seed(now, func(int64) (domain.CatalogItem, bool) { return domain.CatalogItem{}, false })
	assert.Error(t, err)
}

func TestProgress(t *testing.T) {
	tests := []struct {
		status  domain.OrderStatus
		minutes int
		want    int
	}{
		{domain.OrderStatusOnTheWay, 30, 0},
		{domain.OrderStatusOnTheWay, 15, 50},
		{domain.OrderStatusOnTheWay, 1, 97},
		{domain.OrderStatusOnTheWay, 45, 0},
		{domain.OrderStatusDelivered, 0, 100},
		{domain.OrderStatusPreparing, 30, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Progress(domain.Order{Status: tt.status, EstimatedMinutes: tt.minutes}), "%s/%d", tt.status, tt.minutes)
	}
}
