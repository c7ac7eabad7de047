package response

import (
	"time"
)

type ShowResponse struct {
	ID            string    `json:"id"`
	MovieID       string    `json:"movie_id"`
	MovieTitle    string    `json:"movie_title,omitempty"`
	TheaterID     string    `json:"theater_id"`
	TheaterName   string    `json:"theater_name,omitempty"`
	Screen        string    `json:"screen"`
	Format        string    `json:"format"`
	ShowDateTime  time.Time `json:"show_datetime"`
	Price         float64   `json:"price"`
	OccupiedCount int       `json:"occupied_count"`
}
