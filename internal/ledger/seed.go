package ledger

import (
	"fmt"
	"time"

	"github.com/fjod/go_pizza/internal/cart"
	"github.com/fjod/go_pizza/internal/domain"
	"github.com/fjod/go_pizza/internal/pricing"
	"github.com/google/uuid"
)

type seedLine struct {
	itemID   int64
	quantity int
}

type seedOrder struct {
	date    string // empty means today
	lines   []seedLine
	status  domain.OrderStatus
	minutes int
	courier bool
}

// demo history every new session starts with
var seedOrders = []seedOrder{
	{date: "2024-01-10", lines: []seedLine{{2, 1}, {19, 1}}, status: domain.OrderStatusDelivered},
	{date: "2024-01-15", lines: []seedLine{{1, 2}, {14, 1}}, status: domain.OrderStatusDelivered},
	{lines: []seedLine{{7, 1}, {15, 1}}, status: domain.OrderStatusOnTheWay, minutes: 15, courier: true},
}

// Seed loads the demo order history. menu resolves catalog ids to items.
func (l *Ledger) Seed(now time.Time, menu func(id int64) (domain.CatalogItem, bool)) error {
	for _, so := range seedOrders {
		createdAt := now
		if so.date != "" {
			t, err := time.ParseInLocation(time.DateOnly, so.date, now.Location())
			if err != nil {
				return fmt.Errorf("parse seed date: %w", err)
			}
			createdAt = t
		}

		lines := make([]domain.CartLine, 0, len(so.lines))
		var subtotal int64
		for _, sl := range so.lines {
			item, ok := menu(sl.itemID)
			if !ok {
				return fmt.Errorf("seed order references unknown menu item %d", sl.itemID)
			}
			line := domain.CartLine{LineItem: cart.Standard{CatalogItem: item}.LineItem(), Quantity: sl.quantity}
			subtotal += line.Total()
			lines = append(lines, line)
		}

		order := &domain.Order{
			ID:               uuid.New(),
			CreatedAt:        createdAt,
			Lines:            lines,
			Quote:            pricing.Compute(subtotal, 0, nil, false),
			Status:           so.status,
			EstimatedMinutes: so.minutes,
		}
		if so.courier {
			courier := Kitchen
			order.CourierPosition = &courier
		}
		l.prepend(order)
	}
	return nil
}
