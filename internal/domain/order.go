package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusCooking   OrderStatus = "cooking"
	OrderStatusOnTheWay  OrderStatus = "on-the-way"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPreparing: {OrderStatusCooking, OrderStatusCancelled},
	OrderStatusCooking:   {OrderStatusOnTheWay, OrderStatusCancelled},
	OrderStatusOnTheWay:  {OrderStatusDelivered, OrderStatusCancelled},
}

func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatus returns the happy-path successor of s, if any.
func NextStatus(s OrderStatus) (OrderStatus, bool) {
	switch s {
	case OrderStatusPreparing:
		return OrderStatusCooking, true
	case OrderStatusCooking:
		return OrderStatusOnTheWay, true
	case OrderStatusOnTheWay:
		return OrderStatusDelivered, true
	default:
		return "", false
	}
}

type DeliveryTime string

const (
	DeliveryASAP      DeliveryTime = "asap"
	DeliveryScheduled DeliveryTime = "scheduled"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

type DeliveryDetails struct {
	Address       string        `json:"address" validate:"required"`
	Apartment     string        `json:"apartment,omitempty"`
	Entrance      string        `json:"entrance,omitempty"`
	Floor         string        `json:"floor,omitempty"`
	DeliveryTime  DeliveryTime  `json:"delivery_time" validate:"required,oneof=asap scheduled"`
	ScheduledTime string        `json:"scheduled_time,omitempty" validate:"required_if=DeliveryTime scheduled"`
	Comment       string        `json:"comment,omitempty"`
	PaymentMethod PaymentMethod `json:"payment_method" validate:"required,oneof=cash card"`
}

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Quote is the priced breakdown of a cart at a point in time.
type Quote struct {
	Subtotal      int64 `json:"subtotal"`
	Discount      int64 `json:"discount"`
	BonusRedeemed int64 `json:"bonus_redeemed"`
	Total         int64 `json:"total"`
	BonusEarned   int64 `json:"bonus_earned"`
}

type Order struct {
	ID               uuid.UUID        `json:"id"`
	CreatedAt        time.Time        `json:"created_at"`
	Lines            []CartLine       `json:"lines"`
	Quote            Quote            `json:"quote"`
	PromoCode        string           `json:"promo_code,omitempty"`
	Status           OrderStatus      `json:"status"`
	EstimatedMinutes int              `json:"estimated_minutes"`
	Delivery         *DeliveryDetails `json:"delivery,omitempty"`
	CourierPosition  *GeoPoint        `json:"courier_position,omitempty"`
}

type NotificationKind string

const (
	NotificationPlaced        NotificationKind = "order.placed"
	NotificationStatusChanged NotificationKind = "order.status_changed"
	NotificationDelivered     NotificationKind = "order.delivered"
)

// Notification is a one-time notice surfaced to the session owner and
// published as an order event.
type Notification struct {
	OrderID uuid.UUID        `json:"order_id"`
	Kind    NotificationKind `json:"kind"`
	Status  OrderStatus      `json:"status"`
	Message string           `json:"message"`
	At      time.Time        `json:"at"`
}
