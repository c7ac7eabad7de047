package wire

import (
	"quickshow/internal/adaptor"
	"quickshow/pkg/middleware"
	"quickshow/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	handler *adaptor.Handler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.Auth.JWTSecret, log))

		// POST /api/bookings - Hold seats and open a checkout
		r.Post("/api/bookings", handler.Booking.CreateBooking)

		// GET /api/user/bookings - View booking history
		r.Get("/api/user/bookings", handler.Booking.GetUserBookings)
	})

	// ==================== WEBHOOK ====================
	// Authenticated by signature verification, not by bearer token.
	r.Post("/api/payments/webhook", handler.Webhook.HandlePaymentWebhook)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(config.Auth.JWTSecret, log))
		r.Use(middleware.Admin(log))

		r.Get("/bookings", handler.Booking.GetAllBookings)
		r.Get("/bookings/{id}", handler.Booking.GetBookingByID)
		r.Get("/dashboard", handler.Booking.GetDashboard)
	})
}
