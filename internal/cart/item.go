package cart

import (
	"strconv"

	"github.com/fjod/go_pizza/internal/domain"
)

// Item is anything that can be put in the cart. The set of variants is
// closed: Standard for menu entries and Custom for constructor pizzas.
type Item interface {
	LineItem() domain.LineItem
	isItem()
}

type Standard struct {
	domain.CatalogItem
}

func (s Standard) LineItem() domain.LineItem {
	return domain.LineItem{
		ID:          LineID(s.ID),
		Name:        s.Name,
		Description: s.Description,
		Emoji:       s.Emoji,
		Price:       s.Price,
	}
}

func (Standard) isItem() {}

type Custom struct {
	domain.CustomPizza
}

func (c Custom) LineItem() domain.LineItem {
	return domain.LineItem{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Emoji:       c.Emoji,
		Price:       c.Price,
	}
}

func (Custom) isItem() {}

// LineID is the cart key of a menu item.
func LineID(catalogID int64) string {
	return strconv.FormatInt(catalogID, 10)
}
