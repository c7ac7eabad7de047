package adaptor

import (
	"quickshow/internal/payment"
	"quickshow/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Show    *ShowHandler
	Booking *BookingHandler
	Webhook *WebhookHandler
}

func NewHandler(service *usecase.Service, stripe *payment.StripeBridge, log *zap.Logger) *Handler {
	return &Handler{
		Show:    NewShowHandler(service.Show, log),
		Booking: NewBookingHandler(service.Booking, log),
		Webhook: NewWebhookHandler(service.Booking, stripe, log),
	}
}
