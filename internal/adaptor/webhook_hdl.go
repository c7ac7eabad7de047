package adaptor

import (
	"encoding/json"
	"io"
	"net/http"

	"quickshow/internal/payment"
	"quickshow/internal/usecase"
	"quickshow/pkg/utils"

	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
)

const webhookMaxBody = 64 << 10

type WebhookHandler struct {
	service usecase.BookingService
	stripe  *payment.StripeBridge
	log     *zap.Logger
}

func NewWebhookHandler(service usecase.BookingService, stripe *payment.StripeBridge, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		stripe:  stripe,
		log:     log.With(zap.String("handler", "webhook")),
	}
}

// HandlePaymentWebhook handles POST /api/payments/webhook. Once the
// signature verifies, the provider always gets a success response: internal
// no-ops from retries or the expiry race are not its problem.
func (h *WebhookHandler) HandlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	signature := r.Header.Get("Stripe-Signature")
	if signature == "" {
		utils.ResponseBadRequest(w, "Missing Stripe-Signature header", nil)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, webhookMaxBody))
	if err != nil {
		utils.ResponseBadRequest(w, "Failed to read request body", nil)
		return
	}

	event, err := h.stripe.VerifyEvent(body, signature)
	if err != nil {
		h.log.Warn("Webhook signature verification failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Webhook signature verification failed", nil)
		return
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		h.handleCheckoutCompleted(r, event)

	case stripe.EventTypePaymentIntentPaymentFailed:
		h.log.Warn("Payment failed; expiry will reclaim the seats",
			zap.String("event_id", event.ID))

	default:
		h.log.Debug("Unhandled webhook event type", zap.String("type", string(event.Type)))
	}

	utils.ResponseSuccess(w, "received", nil)
}

func (h *WebhookHandler) handleCheckoutCompleted(r *http.Request, event stripe.Event) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		h.log.Error("Failed to decode checkout session", zap.Error(err), zap.String("event_id", event.ID))
		return
	}

	bookingID := sess.Metadata["booking_id"]
	if bookingID == "" {
		h.log.Error("Checkout session without booking_id metadata", zap.String("session_id", sess.ID))
		return
	}

	paymentRef := ""
	if sess.PaymentIntent != nil {
		paymentRef = sess.PaymentIntent.ID
	}

	if err := h.service.MarkPaid(r.Context(), bookingID, paymentRef); err != nil {
		// Logged only; the provider retries and MarkPaid is idempotent.
		h.log.Error("Failed to mark booking paid from webhook",
			zap.Error(err),
			zap.String("booking_id", bookingID),
		)
	}
}
