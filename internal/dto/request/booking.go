package request

type CreateBookingRequest struct {
	ShowID string   `json:"show_id" validate:"required,uuid4"`
	Seats  []string `json:"seats" validate:"required,min=1,dive,required"`
}
