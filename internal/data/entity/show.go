package entity

import (
	"time"

	"github.com/google/uuid"
)

// Show is a single screening. OccupiedSeats maps a seat label (e.g. "A3")
// to the holder's user identifier; a missing key means the seat is free.
// Version guards every seat-map write: a write only commits if the stored
// version still matches the one read, so concurrent holds cannot clobber
// each other.
type Show struct {
	Base
	MovieID       uuid.UUID         `db:"movie_id"`
	TheaterID     uuid.UUID         `db:"theater_id"`
	Screen        string            `db:"screen"`
	Format        string            `db:"format"`
	ShowDateTime  time.Time         `db:"show_datetime"`
	Price         float64           `db:"price"`
	OccupiedSeats map[string]string `db:"occupied_seats"`
	Version       int64             `db:"version"`
}
