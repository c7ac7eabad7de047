package entity

import (
	"github.com/google/uuid"
)

type PaymentState string

const (
	PaymentStateUnpaid PaymentState = "unpaid"
	PaymentStatePaid   PaymentState = "paid"
)

// Booking records one user's attempt to buy a specific seat set on a show.
// It is created the moment the seats are held and either transitions to paid
// via the payment webhook or is deleted by the expiry worker. BookedSeats is
// always a subset of the seats held by UserID on the show while the booking
// exists.
type Booking struct {
	Base
	UserID          string       `db:"user_id"`
	ShowID          uuid.UUID    `db:"show_id"`
	BookedSeats     []string     `db:"booked_seats"`
	Amount          float64      `db:"amount"`
	PaymentState    PaymentState `db:"payment_state"`
	SessionID       *string      `db:"session_id"`
	PaymentIntentID *string      `db:"payment_intent_id"`
}
