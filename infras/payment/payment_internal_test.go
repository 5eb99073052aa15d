package payment

import (
	"context"
	"spacebook/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v82"
)

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(3000), ToMinorUnits(30))
	assert.Equal(t, int64(3125), ToMinorUnits(31.25))
	assert.Equal(t, int64(1), ToMinorUnits(0.005))
	assert.Equal(t, int64(0), ToMinorUnits(0))
}

func TestToSession(t *testing.T) {
	got := toSession(&stripe.CheckoutSession{
		ID:                "cs_1",
		URL:               "https://checkout.stripe.com/c/pay/cs_1",
		PaymentStatus:     stripe.CheckoutSessionPaymentStatusPaid,
		Status:            stripe.CheckoutSessionStatusComplete,
		ClientReferenceID: "booking-1",
	})

	assert.Equal(t, Session{ID: "cs_1", URL: "https://checkout.stripe.com/c/pay/cs_1", Paid: true, BookingID: "booking-1"}, got)

	got = toSession(&stripe.CheckoutSession{
		ID:            "cs_2",
		PaymentStatus: stripe.CheckoutSessionPaymentStatusUnpaid,
		Status:        stripe.CheckoutSessionStatusExpired,
		Metadata:      map[string]string{metadataBookingID: "booking-2"},
	})

	assert.False(t, got.Paid)
	assert.True(t, got.Expired)
	assert.Equal(t, "booking-2", got.BookingID)
}

func TestUnconfiguredProvider(t *testing.T) {
	p := New(&config.Config{})

	_, err := p.CreateCheckoutSession(context.Background(), CheckoutRequest{BookingID: "b", Amount: 10})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = p.GetSession(context.Background(), "cs_1")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
