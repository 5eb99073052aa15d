package payment

//go:generate go run go.uber.org/mock/mockgen -source=./payment.go -destination=./mocks/payment_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"math"
	"spacebook/config"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

const (
	metadataBookingID = "booking_id"
	minorUnits        = 100
)

var ErrNotConfigured = errors.New("payment provider is not configured")

// CheckoutRequest describes the single line item charged for a reservation.
type CheckoutRequest struct {
	BookingID     string
	Description   string
	Amount        float64
	CustomerEmail string
}

// Session is the provider-neutral view of a checkout session.
type Session struct {
	ID        string `json:"id"`
	URL       string `json:"url,omitempty"`
	Paid      bool   `json:"paid"`
	Expired   bool   `json:"expired"`
	BookingID string `json:"booking_id,omitempty"`
}

type Payment interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (Session, error)
	GetSession(ctx context.Context, id string) (Session, error)
}

type stripeImpl struct {
	cfg *config.Config
}

func New(cfg *config.Config) Payment {
	if cfg.External.Stripe.SecretKey == "" {
		log.Warn().Msg("No Stripe secret key configured, payment initiation is disabled")
	}

	stripe.Key = cfg.External.Stripe.SecretKey

	return &stripeImpl{cfg: cfg}
}

func (s *stripeImpl) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (Session, error) {
	if s.cfg.External.Stripe.SecretKey == "" {
		return Session{}, ErrNotConfigured
	}

	stripeCfg := s.cfg.External.Stripe

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(req.BookingID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(strings.ToLower(stripeCfg.Currency)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
					UnitAmount: stripe.Int64(ToMinorUnits(req.Amount)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(stripeCfg.SuccessURL),
		CancelURL:  stripe.String(stripeCfg.CancelURL),
		Metadata:   map[string]string{metadataBookingID: req.BookingID},
	}
	params.Context = ctx

	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}

	sess, err := session.New(params)
	if err != nil {
		log.Error().Err(err).Str("booking", req.BookingID).Msg("failed to create checkout session")

		return Session{}, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return toSession(sess), nil
}

func (s *stripeImpl) GetSession(ctx context.Context, id string) (Session, error) {
	if s.cfg.External.Stripe.SecretKey == "" {
		return Session{}, ErrNotConfigured
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := session.Get(id, params)
	if err != nil {
		log.Error().Err(err).Str("session", id).Msg("failed to get checkout session")

		return Session{}, fmt.Errorf("failed to get checkout session: %w", err)
	}

	return toSession(sess), nil
}

// ToMinorUnits converts an amount to cents, rounding half away from zero.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * minorUnits))
}

func toSession(sess *stripe.CheckoutSession) Session {
	bookingID := sess.ClientReferenceID
	if bookingID == "" {
		bookingID = sess.Metadata[metadataBookingID]
	}

	return Session{
		ID:        sess.ID,
		URL:       sess.URL,
		Paid:      sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Expired:   sess.Status == stripe.CheckoutSessionStatusExpired,
		BookingID: bookingID,
	}
}
