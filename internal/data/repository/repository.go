package repository

import (
	"quickshow/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Movie   MovieRepository
	Theater TheaterRepository
	Show    ShowRepository
	Booking BookingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Movie:   NewMovieRepository(db, log),
		Theater: NewTheaterRepository(db, log),
		Show:    NewShowRepository(db, log),
		Booking: NewBookingRepository(db, log),
	}
}
