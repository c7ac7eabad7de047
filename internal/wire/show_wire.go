package wire

import (
	"quickshow/internal/adaptor"
	"quickshow/pkg/middleware"
	"quickshow/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireShow(
	r chi.Router,
	handler *adaptor.Handler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/shows", handler.Show.ListShows)
	r.Get("/api/shows/{id}", handler.Show.GetShow)
	r.Get("/api/shows/{id}/occupied-seats", handler.Booking.GetOccupiedSeats)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/shows", func(r chi.Router) {
		r.Use(middleware.Auth(config.Auth.JWTSecret, log))
		r.Use(middleware.Admin(log))

		r.Post("/", handler.Show.AddShows)
		r.Delete("/{id}", handler.Show.DeleteShow)
	})
}
