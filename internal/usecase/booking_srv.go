package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"quickshow/internal/data/entity"
	"quickshow/internal/data/repository"
	"quickshow/internal/dto/request"
	"quickshow/internal/dto/response"
	"quickshow/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.CreateBookingResponse, error)
	OccupiedSeats(ctx context.Context, showID string) ([]string, error)
	UserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// Payment webhook path
	MarkPaid(ctx context.Context, bookingID, paymentRef string) error

	// Expiry worker path
	ExpireBooking(ctx context.Context, bookingID string) error

	// Admin endpoints
	GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	AllBookings(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	Dashboard(ctx context.Context) (*response.DashboardResponse, error)
}

type bookingService struct {
	repo        *repository.Repository
	reservation ReservationService
	payments    PaymentProvider
	scheduler   ExpiryScheduler
	notifier    Notifier
	cache       SeatCache
	cfg         utils.BookingConfig
	log         *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	reservation ReservationService,
	payments PaymentProvider,
	scheduler ExpiryScheduler,
	notifier Notifier,
	cache SeatCache,
	cfg utils.BookingConfig,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:        repo,
		reservation: reservation,
		payments:    payments,
		scheduler:   scheduler,
		notifier:    notifier,
		cache:       cache,
		cfg:         cfg,
		log:         log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.CreateBookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	showID, err := uuid.Parse(req.ShowID)
	if err != nil {
		return nil, fmt.Errorf("invalid show ID format %s: %w", req.ShowID, err)
	}

	seats := utils.NormalizeSeats(req.Seats)
	if len(seats) == 0 {
		return nil, fmt.Errorf("validation failed: empty seat list")
	}
	if len(seats) > s.cfg.MaxSeatsPerBooking {
		return nil, fmt.Errorf("validation failed: at most %d seats per booking", s.cfg.MaxSeatsPerBooking)
	}

	show, err := s.repo.Show.FindByID(ctx, showID)
	if err != nil {
		return nil, fmt.Errorf("load show: %w", err)
	}
	if show == nil {
		return nil, fmt.Errorf("show %s: %w", req.ShowID, repository.ErrNotFound)
	}
	if show.ShowDateTime.Before(time.Now()) {
		return nil, fmt.Errorf("validation failed: show has already started")
	}

	// Hold the seats first. On conflict the caller gets the exact seat list
	// and no booking exists.
	if err := s.reservation.Reserve(ctx, showID, seats, userID); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, showID)

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:       userID,
		ShowID:       showID,
		BookedSeats:  seats,
		Amount:       show.Price * float64(len(seats)),
		PaymentState: entity.PaymentStateUnpaid,
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		s.rollbackHold(ctx, showID, seats, uuid.Nil)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	description := "Movie ticket booking"
	if movie, err := s.repo.Movie.FindByID(ctx, show.MovieID); err == nil && movie != nil {
		description = movie.Title
	}

	checkout, err := s.payments.OpenCheckout(ctx, CheckoutParams{
		BookingID:   booking.ID.String(),
		Description: description,
		Amount:      booking.Amount,
	})
	if err != nil {
		// A hold without a path to payment must not survive.
		s.log.Error("Checkout failed, rolling back hold",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		s.rollbackHold(ctx, showID, seats, booking.ID)
		return nil, fmt.Errorf("%w: %v", ErrPaymentUpstream, err)
	}

	if err := s.repo.Booking.SetPaymentSession(ctx, booking.ID, checkout.SessionID); err != nil {
		// The checkout still references the booking through its metadata;
		// log and keep going.
		s.log.Warn("Failed to store payment session on booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
	}

	if err := s.scheduler.ScheduleExpiry(ctx, booking.ID, s.cfg.HoldTimeout); err != nil {
		// Without the expiry task an unpaid hold would block the seats
		// forever, so the whole attempt is undone.
		s.log.Error("Failed to arm expiry, rolling back hold",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		s.rollbackHold(ctx, showID, seats, booking.ID)
		return nil, fmt.Errorf("schedule booking expiry: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("user_id", userID),
		zap.String("show_id", showID.String()),
		zap.Strings("seats", seats),
		zap.Float64("amount", booking.Amount),
	)

	return &response.CreateBookingResponse{
		BookingID:   booking.ID.String(),
		CheckoutURL: checkout.CheckoutURL,
	}, nil
}

// rollbackHold undoes a partially created booking attempt: seats released,
// booking row removed when one was written. Release is idempotent, so a
// repeat rollback is harmless.
func (s *bookingService) rollbackHold(ctx context.Context, showID uuid.UUID, seats []string, bookingID uuid.UUID) {
	if err := s.reservation.Release(ctx, showID, seats); err != nil {
		s.log.Error("Rollback seat release failed",
			zap.Error(err),
			zap.String("show_id", showID.String()),
			zap.Strings("seats", seats),
		)
	}
	if bookingID != uuid.Nil {
		if err := s.repo.Booking.Delete(ctx, bookingID); err != nil {
			s.log.Error("Rollback booking delete failed",
				zap.Error(err),
				zap.String("booking_id", bookingID.String()),
			)
		}
	}
	s.cache.Invalidate(ctx, showID)
}

func (s *bookingService) OccupiedSeats(ctx context.Context, showID string) ([]string, error) {
	id, err := uuid.Parse(showID)
	if err != nil {
		return nil, fmt.Errorf("invalid show ID format %s: %w", showID, err)
	}

	if seats, ok := s.cache.Get(ctx, id); ok {
		return seats, nil
	}

	// Payment state does not matter here: an unpaid hold that has not
	// expired still blocks its seats.
	occupied, _, err := s.repo.Show.GetSeatMap(ctx, id)
	if err != nil {
		return nil, err
	}

	seats := make([]string, 0, len(occupied))
	for seat := range occupied {
		seats = append(seats, seat)
	}
	sort.Strings(seats)

	s.cache.Set(ctx, id, seats)
	return seats, nil
}

func (s *bookingService) UserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindByUserID(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = s.buildBookingResponse(ctx, booking)
	}

	// Metadata reports the clamped page size actually used for the query.
	return response.NewPaginatedResponse(bookingResponses, req.Page, req.Limit(), total), nil
}

func (s *bookingService) MarkPaid(ctx context.Context, bookingID, paymentRef string) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	updated, err := s.repo.Booking.MarkPaid(ctx, id, paymentRef)
	if err != nil {
		return fmt.Errorf("mark booking paid: %w", err)
	}
	if !updated {
		// Webhook retry, or the expiry won the race. Either way this is
		// settled; seats are untouched.
		s.log.Info("MarkPaid on already-resolved booking",
			zap.String("booking_id", bookingID),
		)
		return nil
	}

	s.log.Info("Booking paid",
		zap.String("booking_id", bookingID),
		zap.String("payment_ref", paymentRef),
	)

	s.notifier.Notify(ctx, "booking.confirmed", map[string]any{
		"booking_id":  bookingID,
		"payment_ref": paymentRef,
	})

	return nil
}

func (s *bookingService) ExpireBooking(ctx context.Context, bookingID string) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		// Transient read failure; surface so the task is retried.
		return fmt.Errorf("load booking for expiry: %w", err)
	}
	if booking == nil {
		s.log.Info("Expiry fired for missing booking", zap.String("booking_id", bookingID))
		return nil
	}
	if booking.PaymentState == entity.PaymentStatePaid {
		s.log.Info("Expiry fired for paid booking, seats stay held",
			zap.String("booking_id", bookingID),
		)
		return nil
	}

	expired, err := s.repo.Booking.ExpireUnpaid(ctx, id)
	if err != nil {
		return fmt.Errorf("expire booking %s: %w", bookingID, err)
	}
	if expired {
		s.cache.Invalidate(ctx, booking.ShowID)
		s.log.Info("Booking expired, seats released",
			zap.String("booking_id", bookingID),
			zap.String("show_id", booking.ShowID.String()),
			zap.Strings("seats", booking.BookedSeats),
		)
	}

	return nil
}

// ==================== ADMIN METHODS ====================

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, repository.ErrNotFound)
	}

	resp := s.buildBookingResponse(ctx, booking)
	return &resp, nil
}

func (s *bookingService) AllBookings(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	total, err := s.repo.Booking.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = s.buildBookingResponse(ctx, booking)
	}

	return response.NewPaginatedResponse(bookingResponses, req.Page, req.Limit(), total), nil
}

func (s *bookingService) Dashboard(ctx context.Context) (*response.DashboardResponse, error) {
	paidCount, revenue, err := s.repo.Booking.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("booking stats: %w", err)
	}

	activeShows, err := s.repo.Show.CountUpcoming(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("count active shows: %w", err)
	}

	return &response.DashboardResponse{
		TotalBookings: paidCount,
		TotalRevenue:  revenue,
		ActiveShows:   activeShows,
	}, nil
}

// ==================== HELPER METHODS ====================

func (s *bookingService) buildBookingResponse(ctx context.Context, booking *entity.Booking) response.BookingResponse {
	resp := response.BookingResponse{
		ID:           booking.ID.String(),
		UserID:       booking.UserID,
		ShowID:       booking.ShowID.String(),
		Seats:        booking.BookedSeats,
		Amount:       booking.Amount,
		PaymentState: booking.PaymentState,
		CreatedAt:    booking.CreatedAt,
	}

	// Show detail is re-fetched at confirmation time; a deleted show leaves
	// the booking intact with just its reference.
	show, _ := s.repo.Show.FindByID(ctx, booking.ShowID)
	if show != nil {
		resp.ShowDateTime = show.ShowDateTime
		movie, _ := s.repo.Movie.FindByID(ctx, show.MovieID)
		if movie != nil {
			resp.MovieTitle = movie.Title
		}
	}

	return resp
}
