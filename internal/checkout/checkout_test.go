package checkout

import (
	"testing"

	"github.com/fjod/go_pizza/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepare_Defaults(t *testing.T) {
	got, err := Prepare(domain.DeliveryDetails{Address: "  Lenina 1 ", Comment: " ring twice "})
	require.NoError(t, err)

	want := domain.DeliveryDetails{
		Address:       "Lenina 1",
		Comment:       "ring twice",
		DeliveryTime:  domain.DeliveryASAP,
		PaymentMethod: domain.PaymentCard,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Prepare() mismatch (-want +got):\n%s", diff)
	}
}

func TestPrepare_ASAPDropsScheduledTime(t *testing.T) {
	got, err := Prepare(domain.DeliveryDetails{Address: "Lenina 1", ScheduledTime: "18:30"})
	require.NoError(t, err)
	assert.Empty(t, got.ScheduledTime)
}

func TestPrepare_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   domain.DeliveryDetails
		want error
	}{
		{"empty address", domain.DeliveryDetails{}, ErrAddressRequired},
		{"blank address", domain.DeliveryDetails{Address: "   "}, ErrAddressRequired},
		{
			"scheduled without time",
			domain.DeliveryDetails{Address: "Lenina 1", DeliveryTime: domain.DeliveryScheduled},
			ErrScheduledTimeRequired,
		},
		{
			"scheduled with garbage time",
			domain.DeliveryDetails{Address: "Lenina 1", DeliveryTime: domain.DeliveryScheduled, ScheduledTime: "late"},
			ErrInvalidScheduledTime,
		},
		{
			"unknown delivery time",
			domain.DeliveryDetails{Address: "Lenina 1", DeliveryTime: "tomorrow"},
			ErrInvalidDetails,
		},
		{
			"unknown payment method",
			domain.DeliveryDetails{Address: "Lenina 1", PaymentMethod: "crypto"},
			ErrInvalidDetails,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Prepare(tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPrepare_Scheduled(t *testing.T) {
	got, err := Prepare(domain.DeliveryDetails{
		Address:       "Lenina 1",
		DeliveryTime:  domain.DeliveryScheduled,
		ScheduledTime: "19:45",
		PaymentMethod: domain.PaymentCash,
	})
	require.NoError(t, err)
	assert.Equal(t, "19:45", got.ScheduledTime)
	assert.Equal(t, domain.PaymentCash, got.PaymentMethod)
}
