package usecase

import (
	"quickshow/internal/data/repository"
	"quickshow/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Reservation ReservationService
	Booking     BookingService
	Show        ShowService
}

func NewService(
	repo *repository.Repository,
	payments PaymentProvider,
	scheduler ExpiryScheduler,
	notifier Notifier,
	cache SeatCache,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	reservation := NewReservationService(repo.Show, config.Booking.ReserveMaxRetries, log)

	return &Service{
		Reservation: reservation,
		Booking:     NewBookingService(repo, reservation, payments, scheduler, notifier, cache, config.Booking, log),
		Show:        NewShowService(repo, notifier, log),
	}
}
