package response

import (
	"time"

	"quickshow/internal/data/entity"
)

type CreateBookingResponse struct {
	BookingID   string `json:"booking_id"`
	CheckoutURL string `json:"checkout_url"`
}

type ConflictResponse struct {
	ConflictingSeats []string `json:"conflicting_seats"`
}

type BookingResponse struct {
	ID           string              `json:"id"`
	UserID       string              `json:"user_id"`
	ShowID       string              `json:"show_id"`
	MovieTitle   string              `json:"movie_title,omitempty"`
	ShowDateTime time.Time           `json:"show_datetime,omitempty"`
	Seats        []string            `json:"seats"`
	Amount       float64             `json:"amount"`
	PaymentState entity.PaymentState `json:"payment_state"`
	CreatedAt    time.Time           `json:"created_at"`
}

type OccupiedSeatsResponse struct {
	OccupiedSeats []string `json:"occupied_seats"`
}

type DashboardResponse struct {
	TotalBookings int64   `json:"total_bookings"`
	TotalRevenue  float64 `json:"total_revenue"`
	ActiveShows   int64   `json:"active_shows"`
}
