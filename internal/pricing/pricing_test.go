package pricing

import (
	"math/rand"
	"testing"

	"github.com/fjod/go_pizza/internal/domain"
	"github.com/fjod/go_pizza/internal/promo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenario_PercentPromo(t *testing.T) {
	r := promo.NewResolver()
	_, err := r.Apply("PIZZA20")
	require.NoError(t, err)

	q := Compute(1000, r.DiscountAmount(1000), nil, false)

	assert.Equal(t, domain.Quote{Subtotal: 1000, Discount: 200, Total: 800, BonusEarned: 80}, q)
}

func TestScenario_FixedPromoCappedAtSubtotal(t *testing.T) {
	r := promo.NewResolver()
	_, err := r.Apply("NEWUSER")
	require.NoError(t, err)

	q := Compute(200, r.DiscountAmount(200), nil, false)

	assert.Equal(t, int64(200), q.Discount)
	assert.Zero(t, q.Total)
	assert.Zero(t, q.BonusEarned)
}

func TestScenario_RedeemWholeBalance(t *testing.T) {
	user := &domain.User{Phone: "79991234567", Name: "Anna", BonusBalance: 450}

	q := Compute(500, 0, user, true)
	require.Equal(t, int64(450), q.BonusRedeemed)
	require.Equal(t, int64(50), q.Total)

	balance := SettleCheckout(user, true, q.BonusRedeemed, q.BonusEarned)
	assert.Equal(t, int64(5), balance)
}

func TestBonusRedemption(t *testing.T) {
	user := &domain.User{BonusBalance: 300}

	tests := []struct {
		name       string
		user       *domain.User
		useBonuses bool
		subtotal   int64
		want       int64
	}{
		{"no user", nil, true, 1000, 0},
		{"flag off", user, false, 1000, 0},
		{"balance below subtotal", user, true, 1000, 300},
		{"balance above subtotal", user, true, 120, 120},
		{"empty cart", user, true, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BonusRedemption(tt.user, tt.useBonuses, tt.subtotal))
		})
	}
}

func TestFinalTotal_NeverNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for range 1000 {
		subtotal := rng.Int63n(5000)
		discount := rng.Int63n(5000)
		bonus := rng.Int63n(5000)
		assert.GreaterOrEqual(t, FinalTotal(subtotal, discount, bonus), int64(0))
	}
}

func TestFinalTotal_PromoPlusBonusExceedsSubtotal(t *testing.T) {
	user := &domain.User{BonusBalance: 450}
	q := Compute(500, 100, user, true)

	assert.Equal(t, int64(450), q.BonusRedeemed)
	assert.Zero(t, q.Total)
}

func TestBonusEarned_RoundsHalfUp(t *testing.T) {
	assert.Equal(t, int64(80), BonusEarned(800))
	assert.Equal(t, int64(5), BonusEarned(45)) // 4.5
	assert.Equal(t, int64(4), BonusEarned(44)) // 4.4
	assert.Equal(t, int64(5), BonusEarned(46)) // 4.6
	assert.Zero(t, BonusEarned(0))
	assert.Zero(t, BonusEarned(4))
}

func TestSettleCheckout(t *testing.T) {
	user := &domain.User{BonusBalance: 100}

	assert.Equal(t, int64(150), SettleCheckout(user, false, 0, 50))
	assert.Equal(t, int64(30), SettleCheckout(user, true, 100, 30))
	assert.Zero(t, SettleCheckout(nil, true, 100, 30))
}
