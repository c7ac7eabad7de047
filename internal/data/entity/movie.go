package entity

import (
	"time"
)

// Movie is read-only catalog data. Ingestion and admin CRUD happen outside
// this service; bookings only need the title and basic detail for responses.
type Movie struct {
	Base
	Title             string    `db:"title"`
	Description       *string   `db:"description"`
	PosterURL         *string   `db:"poster_url"`
	Rating            float64   `db:"rating"`
	ReleaseDate       time.Time `db:"release_date"`
	DurationInMinutes int       `db:"duration_in_minutes"`
}
