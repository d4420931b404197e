package customizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fjod/go_pizza/internal/domain"
)

var (
	ErrUnknownSize  = errors.New("unknown pizza size")
	ErrUnknownDough = errors.New("unknown dough type")
)

const (
	CustomPizzaName  = "Custom pizza"
	CustomPizzaEmoji = "🎨"
)

// IngredientSet holds selected ingredient ids. At most one sauce is ever
// present.
type IngredientSet struct {
	ids map[string]struct{}
}

func NewIngredientSet(ids ...string) IngredientSet {
	s := IngredientSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if !s.Has(id) {
			s.Toggle(id)
		}
	}
	return s
}

func (s *IngredientSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *IngredientSet) Len() int {
	return len(s.ids)
}

// Toggle deselects id when present, otherwise selects it. Selecting a sauce
// evicts every other sauce first. Unknown ids are ignored.
func (s *IngredientSet) Toggle(id string) {
	ing, ok := Lookup(id)
	if !ok {
		return
	}
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	if s.Has(id) {
		delete(s.ids, id)
		return
	}
	if ing.Category == domain.IngredientSauce {
		for selected := range s.ids {
			if other, _ := Lookup(selected); other.Category == domain.IngredientSauce {
				delete(s.ids, selected)
			}
		}
	}
	s.ids[id] = struct{}{}
}

// Selected returns the chosen ingredients in table order.
func (s *IngredientSet) Selected() []domain.Ingredient {
	out := make([]domain.Ingredient, 0, len(s.ids))
	for _, ing := range Ingredients {
		if s.Has(ing.ID) {
			out = append(out, ing)
		}
	}
	return out
}

// IDs returns the chosen ingredient ids in table order.
func (s *IngredientSet) IDs() []string {
	selected := s.Selected()
	ids := make([]string, len(selected))
	for i, ing := range selected {
		ids[i] = ing.ID
	}
	return ids
}

type Selection struct {
	Size        domain.Size
	Dough       domain.Dough
	Ingredients IngredientSet
}

// NewSelection starts a customization with the constructor defaults.
func NewSelection() *Selection {
	return &Selection{
		Size:        domain.SizeMedium,
		Dough:       domain.DoughThin,
		Ingredients: NewIngredientSet("tomato-sauce", "mozzarella"),
	}
}

func (s *Selection) Toggle(id string) {
	s.Ingredients.Toggle(id)
}

func (s *Selection) SetSize(size domain.Size) error {
	if _, ok := sizeInfo(size); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSize, size)
	}
	s.Size = size
	return nil
}

func (s *Selection) SetDough(dough domain.Dough) error {
	if _, ok := doughInfo(dough); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDough, dough)
	}
	s.Dough = dough
	return nil
}

func (s *Selection) Empty() bool {
	return s.Ingredients.Len() == 0
}

// Total is size base price plus dough surcharge plus every selected
// ingredient.
func Total(sel *Selection) int64 {
	var total int64
	if info, ok := sizeInfo(sel.Size); ok {
		total += info.Price
	}
	if info, ok := doughInfo(sel.Dough); ok {
		total += info.Price
	}
	for _, ing := range sel.Ingredients.Selected() {
		total += ing.Price
	}
	return total
}

// Description joins the selected ingredient names in table order.
func Description(sel *Selection) string {
	selected := sel.Ingredients.Selected()
	names := make([]string, len(selected))
	for i, ing := range selected {
		names[i] = ing.Name
	}
	return strings.Join(names, ", ")
}

// ToDisplayItem derives the cart-ready entry for sel. The caller supplies a
// fresh id so every customization becomes its own cart line.
func ToDisplayItem(sel *Selection, id string) domain.CustomPizza {
	return domain.CustomPizza{
		ID:            id,
		Name:          CustomPizzaName,
		Description:   Description(sel),
		Emoji:         CustomPizzaEmoji,
		Price:         Total(sel),
		Size:          sel.Size,
		Dough:         sel.Dough,
		IngredientIDs: sel.Ingredients.IDs(),
	}
}
