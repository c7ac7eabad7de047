package payment

import (
	"context"
	"fmt"
	"math"
	"time"

	"quickshow/internal/usecase"
	"quickshow/pkg/utils"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"
)

// StripeBridge implements usecase.PaymentProvider against Stripe checkout
// sessions. Completion comes back through the webhook, verified here before
// anything reaches the core.
type StripeBridge struct {
	cfg utils.StripeConfig
	log *zap.Logger
}

func NewStripeBridge(cfg utils.StripeConfig, log *zap.Logger) *StripeBridge {
	stripe.Key = cfg.SecretKey

	return &StripeBridge{
		cfg: cfg,
		log: log.With(zap.String("bridge", "stripe")),
	}
}

func (b *StripeBridge) OpenCheckout(ctx context.Context, p usecase.CheckoutParams) (*usecase.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(b.cfg.SuccessURL),
		CancelURL:  stripe.String(b.cfg.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(p.Description),
						Description: stripe.String("Movie ticket booking"),
					},
					UnitAmount: stripe.Int64(int64(math.Floor(p.Amount)) * 100),
				},
				Quantity: stripe.Int64(1),
			},
		},
		ExpiresAt: stripe.Int64(time.Now().Add(b.cfg.SessionExpiry).Unix()),
	}
	params.Context = ctx
	params.AddMetadata("booking_id", p.BookingID)

	sess, err := session.New(params)
	if err != nil {
		b.log.Error("Failed to create checkout session",
			zap.Error(err),
			zap.String("booking_id", p.BookingID),
		)
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	b.log.Info("Checkout session created",
		zap.String("booking_id", p.BookingID),
		zap.String("session_id", sess.ID),
	)

	return &usecase.CheckoutSession{
		SessionID:   sess.ID,
		CheckoutURL: sess.URL,
	}, nil
}

// VerifyEvent checks the webhook signature and decodes the event. Unsigned
// or tampered payloads never reach the booking core.
func (b *StripeBridge) VerifyEvent(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signature, b.cfg.WebhookSecret)
}
