package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quickshow/internal/dto/request"
	"quickshow/internal/dto/response"
	"quickshow/internal/usecase"
	"quickshow/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type stubBookingService struct {
	usecase.BookingService

	createResp    *response.CreateBookingResponse
	createErr     error
	occupiedSeats []string
	occupiedErr   error
}

func (s *stubBookingService) CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.CreateBookingResponse, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.createResp, nil
}

func (s *stubBookingService) OccupiedSeats(ctx context.Context, showID string) ([]string, error) {
	if s.occupiedErr != nil {
		return nil, s.occupiedErr
	}
	return s.occupiedSeats, nil
}

func newBookingRequest(t *testing.T, body string, userID string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
	if userID != "" {
		req = req.WithContext(utils.SetUserContext(req.Context(), userID, "customer"))
	}
	return req
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var envelope utils.Response
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope
}

func TestCreateBookingHandler(t *testing.T) {
	validBody := `{"show_id":"a57894a1-91c5-4d94-9f0b-efcb31a31fcf","seats":["A1","A2"]}`

	tests := []struct {
		name       string
		stub       *stubBookingService
		body       string
		userID     string
		wantStatus int
	}{
		{
			name: "created",
			stub: &stubBookingService{createResp: &response.CreateBookingResponse{
				BookingID:   "b1",
				CheckoutURL: "https://checkout.example.com/b1",
			}},
			body:       validBody,
			userID:     "user-1",
			wantStatus: http.StatusCreated,
		},
		{
			name:       "no identity",
			stub:       &stubBookingService{},
			body:       validBody,
			userID:     "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed body",
			stub:       &stubBookingService{},
			body:       `{"show_id":`,
			userID:     "user-1",
			wantStatus: http.StatusBadRequest,
		},
		{
			// Input validation lives in the service; the handler only maps
			// the resulting error.
			name:       "service rejects input",
			stub:       &stubBookingService{createErr: errors.New("validation failed: Seats: Minimum is 1")},
			body:       `{"show_id":"a57894a1-91c5-4d94-9f0b-efcb31a31fcf","seats":[]}`,
			userID:     "user-1",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "seat conflict",
			stub:       &stubBookingService{createErr: &usecase.ConflictError{Seats: []string{"A2"}}},
			body:       validBody,
			userID:     "user-1",
			wantStatus: http.StatusConflict,
		},
		{
			name:       "payment upstream down",
			stub:       &stubBookingService{createErr: usecase.ErrPaymentUpstream},
			body:       validBody,
			userID:     "user-1",
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewBookingHandler(tt.stub, zap.NewNop())
			rec := httptest.NewRecorder()

			handler.CreateBooking(rec, newBookingRequest(t, tt.body, tt.userID))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestCreateBookingConflictBody(t *testing.T) {
	stub := &stubBookingService{createErr: &usecase.ConflictError{Seats: []string{"A2", "B5"}}}
	handler := NewBookingHandler(stub, zap.NewNop())
	rec := httptest.NewRecorder()

	body := `{"show_id":"a57894a1-91c5-4d94-9f0b-efcb31a31fcf","seats":["A2","B5"]}`
	handler.CreateBooking(rec, newBookingRequest(t, body, "user-1"))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}

	var envelope struct {
		Status bool                       `json:"status"`
		Errors response.ConflictResponse `json:"errors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Status {
		t.Error("status = true, want false")
	}
	if len(envelope.Errors.ConflictingSeats) != 2 || envelope.Errors.ConflictingSeats[0] != "A2" {
		t.Errorf("conflicting seats = %v, want [A2 B5]", envelope.Errors.ConflictingSeats)
	}
}

func TestGetOccupiedSeatsHandler(t *testing.T) {
	stub := &stubBookingService{occupiedSeats: []string{"A1", "C4"}}
	handler := NewBookingHandler(stub, zap.NewNop())

	router := chi.NewRouter()
	router.Get("/api/shows/{id}/occupied-seats", handler.GetOccupiedSeats)

	req := httptest.NewRequest(http.MethodGet, "/api/shows/a57894a1-91c5-4d94-9f0b-efcb31a31fcf/occupied-seats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if !envelope.Status {
		t.Error("status = false, want true")
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok {
		t.Fatalf("data is %T, want object", envelope.Data)
	}
	seats, ok := data["occupied_seats"].([]any)
	if !ok || len(seats) != 2 {
		t.Errorf("occupied_seats = %v, want two entries", data["occupied_seats"])
	}
}
