package cart

import (
	"errors"

	"github.com/fjod/go_pizza/internal/domain"
)

var (
	ErrLineNotFound    = errors.New("item not found in cart")
	ErrInvalidQuantity = errors.New("quantity must not be negative")
)

// Cart is a set of lines keyed by line id. Lines keep insertion order and
// every line present has quantity >= 1.
type Cart struct {
	lines []domain.CartLine
	index map[string]int
}

func New() *Cart {
	return &Cart{index: make(map[string]int)}
}

// Add increments the line for item, creating it with quantity 1 if absent.
func (c *Cart) Add(item Item) {
	li := item.LineItem()
	if i, ok := c.index[li.ID]; ok {
		c.lines[i].Quantity++
		return
	}
	c.index[li.ID] = len(c.lines)
	c.lines = append(c.lines, domain.CartLine{LineItem: li, Quantity: 1})
}

func (c *Cart) Remove(id string) error {
	i, ok := c.index[id]
	if !ok {
		return ErrLineNotFound
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	c.reindex()
	return nil
}

// SetQuantity overwrites the line quantity. Zero removes the line.
func (c *Cart) SetQuantity(id string, q int) error {
	if q < 0 {
		return ErrInvalidQuantity
	}
	i, ok := c.index[id]
	if !ok {
		return ErrLineNotFound
	}
	if q == 0 {
		return c.Remove(id)
	}
	c.lines[i].Quantity = q
	return nil
}

func (c *Cart) Subtotal() int64 {
	var sum int64
	for _, l := range c.lines {
		sum += l.Total()
	}
	return sum
}

func (c *Cart) ItemCount() int {
	var n int
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[string]int)
}

func (c *Cart) reindex() {
	c.index = make(map[string]int, len(c.lines))
	for i, l := range c.lines {
		c.index[l.ID] = i
	}
}
