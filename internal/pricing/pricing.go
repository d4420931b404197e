package pricing

import (
	"github.com/fjod/go_pizza/internal/domain"
	"github.com/shopspring/decimal"
)

// BonusRate is the share of the final total credited back as bonus points.
var BonusRate = decimal.NewFromFloat(0.10)

// BonusRedemption is how many bonus points a checkout of subtotal consumes.
// Redemption is measured against the raw subtotal, before any promotion.
func BonusRedemption(user *domain.User, useBonuses bool, subtotal int64) int64 {
	if user == nil || !useBonuses || subtotal <= 0 || user.BonusBalance <= 0 {
		return 0
	}
	return min(user.BonusBalance, subtotal)
}

// FinalTotal is never negative.
func FinalTotal(subtotal, promoDiscount, bonusRedemption int64) int64 {
	return max(0, subtotal-promoDiscount-bonusRedemption)
}

// BonusEarned rounds half up.
func BonusEarned(finalTotal int64) int64 {
	if finalTotal <= 0 {
		return 0
	}
	return decimal.NewFromInt(finalTotal).Mul(BonusRate).Round(0).IntPart()
}

// SettleCheckout returns the user's balance after redeeming and earning in
// the same checkout.
func SettleCheckout(user *domain.User, useBonuses bool, redemption, earned int64) int64 {
	if user == nil {
		return 0
	}
	balance := user.BonusBalance
	if useBonuses {
		balance -= redemption
	}
	return balance + earned
}

// Compute prices a cart with an already resolved promotion discount.
func Compute(subtotal, discount int64, user *domain.User, useBonuses bool) domain.Quote {
	redeemed := BonusRedemption(user, useBonuses, subtotal)
	total := FinalTotal(subtotal, discount, redeemed)
	return domain.Quote{
		Subtotal:      subtotal,
		Discount:      discount,
		BonusRedeemed: redeemed,
		Total:         total,
		BonusEarned:   BonusEarned(total),
	}
}
