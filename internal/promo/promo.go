package promo

import (
	"errors"
	"strings"

	"github.com/fjod/go_pizza/internal/domain"
	"github.com/shopspring/decimal"
)

var ErrUnknownCode = errors.New("unknown promo code")

// Table is the authoritative promotion table keyed by upper-case code.
var Table = map[string]domain.Promotion{
	"PIZZA20": {Code: "PIZZA20", Discount: 20, Kind: domain.PromotionPercent},
	"NEWUSER": {Code: "NEWUSER", Discount: 300, Kind: domain.PromotionFixed},
}

// Lookup resolves a code case-insensitively. Surrounding whitespace is
// ignored so a pasted " pizza20 " still matches; anything else must match
// the table exactly.
func Lookup(code string) (domain.Promotion, bool) {
	p, ok := Table[strings.ToUpper(strings.TrimSpace(code))]
	return p, ok
}

// Resolver holds at most one applied promotion.
type Resolver struct {
	applied *domain.Promotion
}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Apply replaces the applied promotion on a hit. A miss leaves the current
// state untouched.
func (r *Resolver) Apply(code string) (domain.Promotion, error) {
	p, ok := Lookup(code)
	if !ok {
		return domain.Promotion{}, ErrUnknownCode
	}
	r.applied = &p
	return p, nil
}

func (r *Resolver) Clear() {
	r.applied = nil
}

func (r *Resolver) Applied() (domain.Promotion, bool) {
	if r.applied == nil {
		return domain.Promotion{}, false
	}
	return *r.applied, true
}

// DiscountAmount is the discount of the applied promotion on subtotal, zero
// when nothing is applied.
func (r *Resolver) DiscountAmount(subtotal int64) int64 {
	if r.applied == nil {
		return 0
	}
	return Discount(*r.applied, subtotal)
}

// Discount computes p against subtotal. Percent discounts round half up;
// fixed discounts never exceed the subtotal.
func Discount(p domain.Promotion, subtotal int64) int64 {
	if subtotal <= 0 {
		return 0
	}
	switch p.Kind {
	case domain.PromotionPercent:
		return decimal.NewFromInt(subtotal).
			Mul(decimal.NewFromInt(p.Discount)).
			Div(decimal.NewFromInt(100)).
			Round(0).
			IntPart()
	case domain.PromotionFixed:
		return min(p.Discount, subtotal)
	default:
		return 0
	}
}
