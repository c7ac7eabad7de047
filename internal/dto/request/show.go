package request

// AddShowsRequest schedules one screening per datetime, all at the same
// price. Datetimes are RFC3339.
type AddShowsRequest struct {
	MovieID       string   `json:"movie_id" validate:"required,uuid4"`
	TheaterID     string   `json:"theater_id" validate:"required,uuid4"`
	Screen        string   `json:"screen" validate:"required"`
	Format        string   `json:"format" validate:"required,oneof=2D 3D IMAX"`
	Price         float64  `json:"price" validate:"required,gt=0"`
	ShowDateTimes []string `json:"show_datetimes" validate:"required,min=1,dive,required"`
}
