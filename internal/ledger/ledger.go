package ledger

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/fjod/go_pizza/internal/domain"
	"github.com/google/uuid"
)

const (
	// EstimatedDelivery is the delivery estimate given to a freshly placed order
	EstimatedDelivery = 30

	deliveredMessage = "Your order has been delivered! Enjoy your meal!"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrIllegalTransition = errors.New("illegal order status transition")
)

// Kitchen is where couriers start from.
var Kitchen = domain.GeoPoint{Lat: 55.7558, Lng: 37.6173}

// Ledger is the order history of one session, most recent first.
// It is not safe for concurrent use; the owning session serializes access.
type Ledger struct {
	orders []*domain.Order
	index  map[uuid.UUID]*domain.Order
}

func New() *Ledger {
	return &Ledger{index: make(map[uuid.UUID]*domain.Order)}
}

// Commit records a new order in preparing status and returns it.
func (l *Ledger) Commit(lines []domain.CartLine, quote domain.Quote, promoCode string, details *domain.DeliveryDetails, now time.Time) domain.Order {
	order := &domain.Order{
		ID:               uuid.New(),
		CreatedAt:        now,
		Lines:            copyLines(lines),
		Quote:            quote,
		PromoCode:        promoCode,
		Status:           domain.OrderStatusPreparing,
		EstimatedMinutes: EstimatedDelivery,
	}
	if details != nil {
		d := *details
		order.Delivery = &d
	}
	l.prepend(order)
	return clone(order)
}

// Tick advances the delivery countdown by one minute. Every order on the way
// with time left loses a minute; reaching zero delivers it and yields exactly
// one delivered notification.
func (l *Ledger) Tick(now time.Time) []domain.Notification {
	var out []domain.Notification
	for _, o := range l.orders {
		if o.Status != domain.OrderStatusOnTheWay || o.EstimatedMinutes <= 0 {
			continue
		}
		o.EstimatedMinutes--
		if o.EstimatedMinutes == 0 {
			o.Status = domain.OrderStatusDelivered
			o.CourierPosition = nil
			out = append(out, domain.Notification{
				OrderID: o.ID,
				Kind:    domain.NotificationDelivered,
				Status:  o.Status,
				Message: deliveredMessage,
				At:      now,
			})
		}
	}
	return out
}

// Advance moves an order one step along preparing -> cooking -> on-the-way.
// Delivery itself only happens through Tick.
func (l *Ledger) Advance(id uuid.UUID, now time.Time) (domain.Order, domain.Notification, error) {
	o, ok := l.index[id]
	if !ok {
		return domain.Order{}, domain.Notification{}, ErrOrderNotFound
	}
	next, ok := domain.NextStatus(o.Status)
	if !ok || next == domain.OrderStatusDelivered {
		return domain.Order{}, domain.Notification{}, fmt.Errorf("%w: %s has no manual successor", ErrIllegalTransition, o.Status)
	}
	o.Status = next
	if next == domain.OrderStatusOnTheWay {
		if o.EstimatedMinutes <= 0 {
			o.EstimatedMinutes = EstimatedDelivery
		}
		courier := Kitchen
		o.CourierPosition = &courier
	}
	return clone(o), statusChanged(o, now), nil
}

// Cancel is allowed from any non-terminal status.
func (l *Ledger) Cancel(id uuid.UUID, now time.Time) (domain.Order, domain.Notification, error) {
	o, ok := l.index[id]
	if !ok {
		return domain.Order{}, domain.Notification{}, ErrOrderNotFound
	}
	if !domain.CanTransition(o.Status, domain.OrderStatusCancelled) {
		return domain.Order{}, domain.Notification{}, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, domain.OrderStatusCancelled)
	}
	o.Status = domain.OrderStatusCancelled
	o.EstimatedMinutes = 0
	o.CourierPosition = nil
	return clone(o), statusChanged(o, now), nil
}

func (l *Ledger) Get(id uuid.UUID) (domain.Order, error) {
	o, ok := l.index[id]
	if !ok {
		return domain.Order{}, ErrOrderNotFound
	}
	return clone(o), nil
}

// List returns copies of every order, most recent first.
func (l *Ledger) List() []domain.Order {
	out := make([]domain.Order, 0, len(l.orders))
	for _, o := range l.orders {
		out = append(out, clone(o))
	}
	return out
}

func (l *Ledger) Len() int {
	return len(l.orders)
}

// Progress is the tracking bar fill in percent for an order on the way.
func Progress(o domain.Order) int {
	switch o.Status {
	case domain.OrderStatusDelivered:
		return 100
	case domain.OrderStatusOnTheWay:
		p := math.Round(100 - float64(o.EstimatedMinutes)/EstimatedDelivery*100)
		return int(max(0, min(100, p)))
	default:
		return 0
	}
}

func (l *Ledger) prepend(o *domain.Order) {
	l.orders = append([]*domain.Order{o}, l.orders...)
	l.index[o.ID] = o
}

func statusChanged(o *domain.Order, now time.Time) domain.Notification {
	return domain.Notification{
		OrderID: o.ID,
		Kind:    domain.NotificationStatusChanged,
		Status:  o.Status,
		Message: fmt.Sprintf("Order status changed to %s", o.Status),
		At:      now,
	}
}

func clone(o *domain.Order) domain.Order {
	c := *o
	c.Lines = copyLines(o.Lines)
	if o.Delivery != nil {
		d := *o.Delivery
		c.Delivery = &d
	}
	if o.CourierPosition != nil {
		p := *o.CourierPosition
		c.CourierPosition = &p
	}
	return c
}

func copyLines(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, len(lines))
	copy(out, lines)
	return out
}
