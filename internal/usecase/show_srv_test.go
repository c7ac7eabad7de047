package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"quickshow/internal/data/entity"
	"quickshow/internal/data/repository"
	"quickshow/internal/dto/request"
	"quickshow/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type showFixture struct {
	svc       usecase.ShowService
	shows     *fakeShowRepo
	notifier  *fakeNotifier
	movieID   uuid.UUID
	theaterID uuid.UUID
}

func newShowFixture(t *testing.T) *showFixture {
	t.Helper()

	shows := newFakeShowRepo()
	notifier := &fakeNotifier{}
	movieID := uuid.New()
	theaterID := uuid.New()

	repo := &repository.Repository{
		Movie:   &fakeMovieRepo{movies: map[uuid.UUID]*entity.Movie{movieID: {Title: "Dune"}}},
		Theater: &fakeTheaterRepo{theaters: map[uuid.UUID]*entity.Theater{theaterID: {Name: "Grand Cinema"}}},
		Show:    shows,
		Booking: newFakeBookingRepo(shows),
	}

	return &showFixture{
		svc:       usecase.NewShowService(repo, notifier, zap.NewNop()),
		shows:     shows,
		notifier:  notifier,
		movieID:   movieID,
		theaterID: theaterID,
	}
}

func (fx *showFixture) addRequest() *request.AddShowsRequest {
	return &request.AddShowsRequest{
		MovieID:   fx.movieID.String(),
		TheaterID: fx.theaterID.String(),
		Screen:    "Screen 1",
		Format:    "IMAX",
		Price:     75,
		ShowDateTimes: []string{
			time.Now().Add(24 * time.Hour).Format(time.RFC3339),
			time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		},
	}
}

func TestAddShowsCreatesOnePerDatetime(t *testing.T) {
	fx := newShowFixture(t)

	created, err := fx.svc.AddShows(context.Background(), fx.addRequest())
	if err != nil {
		t.Fatalf("AddShows: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("created = %d shows, want 2", len(created))
	}
	for _, show := range created {
		if show.MovieTitle != "Dune" || show.TheaterName != "Grand Cinema" {
			t.Errorf("show detail = %q/%q, want Dune/Grand Cinema", show.MovieTitle, show.TheaterName)
		}
		if show.Price != 75 || show.OccupiedCount != 0 {
			t.Errorf("price/occupied = %v/%d, want 75/0", show.Price, show.OccupiedCount)
		}
	}

	if n, _ := fx.shows.CountUpcoming(context.Background(), time.Now()); n != 2 {
		t.Errorf("upcoming shows = %d, want 2", n)
	}
	if len(fx.notifier.events) != 1 || fx.notifier.events[0] != "show.added" {
		t.Errorf("events = %v, want [show.added]", fx.notifier.events)
	}
}

func TestAddShowsRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *request.AddShowsRequest)
		wantSub string
	}{
		{
			name:    "unknown movie",
			mutate:  func(req *request.AddShowsRequest) { req.MovieID = uuid.New().String() },
			wantSub: "not found",
		},
		{
			name:    "unknown theater",
			mutate:  func(req *request.AddShowsRequest) { req.TheaterID = uuid.New().String() },
			wantSub: "not found",
		},
		{
			name:    "bad datetime",
			mutate:  func(req *request.AddShowsRequest) { req.ShowDateTimes = []string{"tomorrow at noon"} },
			wantSub: "invalid show datetime",
		},
		{
			name:    "bad format",
			mutate:  func(req *request.AddShowsRequest) { req.Format = "4DX" },
			wantSub: "validation failed",
		},
		{
			name:    "zero price",
			mutate:  func(req *request.AddShowsRequest) { req.Price = 0 },
			wantSub: "validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newShowFixture(t)
			req := fx.addRequest()
			tt.mutate(req)

			_, err := fx.svc.AddShows(context.Background(), req)
			if err == nil || !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("AddShows error = %v, want containing %q", err, tt.wantSub)
			}
			if n, _ := fx.shows.CountUpcoming(context.Background(), time.Now()); n != 0 {
				t.Errorf("shows created despite rejection: %d", n)
			}
		})
	}
}

func TestGetShowNotFound(t *testing.T) {
	fx := newShowFixture(t)

	_, err := fx.svc.GetShow(context.Background(), uuid.New().String())
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("GetShow error = %v, want not found", err)
	}
}
