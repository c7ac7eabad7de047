package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrPaymentUpstream wraps payment-provider failures. A booking whose
// checkout could not be opened is always rolled back before this surfaces.
var ErrPaymentUpstream = errors.New("payment session could not be created")

// ConflictError reports exactly which requested seats were already taken at
// commit time.
type ConflictError struct {
	Seats []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("seats already taken: %s", strings.Join(e.Seats, ", "))
}

type CheckoutParams struct {
	BookingID   string
	Description string
	Amount      float64
}

type CheckoutSession struct {
	SessionID   string
	CheckoutURL string
}

// PaymentProvider opens a checkout for a booking. Completion arrives later
// through the webhook boundary, never through this interface.
type PaymentProvider interface {
	OpenCheckout(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
}

// ExpiryScheduler arms the durable deferred task that reconciles an unpaid
// booking after the hold timeout. Delivery is at-least-once; the handler is
// idempotent.
type ExpiryScheduler interface {
	ScheduleExpiry(ctx context.Context, bookingID uuid.UUID, delay time.Duration) error
}

// Notifier is fire-and-forget; failures are logged by implementations and
// never propagate into booking flows.
type Notifier interface {
	Notify(ctx context.Context, kind string, payload map[string]any)
}

// SeatCache fronts the occupied-seats read path. Implementations treat every
// failure as a miss.
type SeatCache interface {
	Get(ctx context.Context, showID uuid.UUID) ([]string, bool)
	Set(ctx context.Context, showID uuid.UUID, seats []string)
	Invalidate(ctx context.Context, showID uuid.UUID)
}
