package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"quickshow/internal/usecase"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Server consumes the deferred tasks. Handlers are idempotent: asynq
// guarantees at-least-once delivery and retries on error, so a duplicate
// expiry fire must land on an already-resolved booking as a no-op.
type Server struct {
	srv     *asynq.Server
	booking usecase.BookingService
	log     *zap.Logger
}

func NewServer(redisOpt asynq.RedisClientOpt, booking usecase.BookingService, log *zap.Logger) *Server {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				QueueCritical: 6,
				QueueDefault:  3,
				QueueLow:      1,
			},
		},
	)

	return &Server{
		srv:     srv,
		booking: booking,
		log:     log.With(zap.String("worker", "server")),
	}
}

// Run blocks serving tasks until Shutdown.
func (s *Server) Run() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingExpire, s.handleBookingExpire)
	mux.HandleFunc(TypeNotifyEvent, s.handleNotifyEvent)

	return s.srv.Run(mux)
}

func (s *Server) Shutdown() {
	s.srv.Shutdown()
}

func (s *Server) handleBookingExpire(ctx context.Context, t *asynq.Task) error {
	var payload BookingExpirePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode expiry payload: %w", err)
	}

	// Returning the error hands the task back to asynq for retry; the
	// release-and-delete inside ExpireBooking is idempotent, so a partial
	// failure followed by a retry is safe.
	if err := s.booking.ExpireBooking(ctx, payload.BookingID); err != nil {
		s.log.Warn("Booking expiry failed, will retry",
			zap.Error(err),
			zap.String("booking_id", payload.BookingID),
		)
		return err
	}

	return nil
}

func (s *Server) handleNotifyEvent(ctx context.Context, t *asynq.Task) error {
	var payload NotifyEventPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode notification payload: %w", err)
	}

	// Delivery transport (mail, push) lives outside this service; this is
	// the hand-off point.
	s.log.Info("Notification dispatched",
		zap.String("kind", payload.Kind),
		zap.Any("payload", payload.Payload),
	)

	return nil
}
