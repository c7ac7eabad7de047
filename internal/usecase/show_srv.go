package usecase

import (
	"context"
	"fmt"
	"time"

	"quickshow/internal/data/entity"
	"quickshow/internal/data/repository"
	"quickshow/internal/dto/request"
	"quickshow/internal/dto/response"
	"quickshow/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ShowService interface {
	ListShows(ctx context.Context) ([]response.ShowResponse, error)
	GetShow(ctx context.Context, showID string) (*response.ShowResponse, error)

	// Admin endpoints
	AddShows(ctx context.Context, req *request.AddShowsRequest) ([]response.ShowResponse, error)
	DeleteShow(ctx context.Context, showID string) error
}

type showService struct {
	repo     *repository.Repository
	notifier Notifier
	log      *zap.Logger
}

func NewShowService(repo *repository.Repository, notifier Notifier, log *zap.Logger) ShowService {
	return &showService{
		repo:     repo,
		notifier: notifier,
		log:      log.With(zap.String("service", "show")),
	}
}

func (s *showService) ListShows(ctx context.Context) ([]response.ShowResponse, error) {
	shows, err := s.repo.Show.ListUpcoming(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}

	responses := make([]response.ShowResponse, len(shows))
	for i, show := range shows {
		responses[i] = s.buildShowResponse(ctx, show)
	}

	return responses, nil
}

func (s *showService) GetShow(ctx context.Context, showID string) (*response.ShowResponse, error) {
	id, err := uuid.Parse(showID)
	if err != nil {
		return nil, fmt.Errorf("invalid show ID format %s: %w", showID, err)
	}

	show, err := s.repo.Show.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if show == nil {
		return nil, fmt.Errorf("show %s: %w", showID, repository.ErrNotFound)
	}

	resp := s.buildShowResponse(ctx, show)
	return &resp, nil
}

// ==================== ADMIN METHODS ====================

func (s *showService) AddShows(ctx context.Context, req *request.AddShowsRequest) ([]response.ShowResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Add shows validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return nil, fmt.Errorf("invalid movie ID format %s: %w", req.MovieID, err)
	}
	theaterID, err := uuid.Parse(req.TheaterID)
	if err != nil {
		return nil, fmt.Errorf("invalid theater ID format %s: %w", req.TheaterID, err)
	}

	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, fmt.Errorf("movie %s: %w", req.MovieID, repository.ErrNotFound)
	}

	theater, err := s.repo.Theater.FindByID(ctx, theaterID)
	if err != nil {
		return nil, err
	}
	if theater == nil {
		return nil, fmt.Errorf("theater %s: %w", req.TheaterID, repository.ErrNotFound)
	}

	now := time.Now()
	shows := make([]*entity.Show, len(req.ShowDateTimes))
	for i, raw := range req.ShowDateTimes {
		showDateTime, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("validation failed: invalid show datetime %q", raw)
		}

		shows[i] = &entity.Show{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			MovieID:       movieID,
			TheaterID:     theaterID,
			Screen:        req.Screen,
			Format:        req.Format,
			ShowDateTime:  showDateTime,
			Price:         req.Price,
			OccupiedSeats: map[string]string{},
			Version:       0,
		}
	}

	if err := s.repo.Show.CreateBatch(ctx, shows); err != nil {
		return nil, fmt.Errorf("create shows: %w", err)
	}

	s.log.Info("Shows scheduled",
		zap.String("movie_id", req.MovieID),
		zap.String("movie_title", movie.Title),
		zap.Int("count", len(shows)),
	)

	s.notifier.Notify(ctx, "show.added", map[string]any{
		"movie_id":    req.MovieID,
		"movie_title": movie.Title,
		"show_count":  len(shows),
	})

	responses := make([]response.ShowResponse, len(shows))
	for i, show := range shows {
		resp := s.buildShowResponse(ctx, show)
		resp.MovieTitle = movie.Title
		resp.TheaterName = theater.Name
		responses[i] = resp
	}

	return responses, nil
}

func (s *showService) DeleteShow(ctx context.Context, showID string) error {
	id, err := uuid.Parse(showID)
	if err != nil {
		return fmt.Errorf("invalid show ID format %s: %w", showID, err)
	}

	// Bookings referencing the show are left alone; their history must
	// survive the deletion.
	if err := s.repo.Show.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("Show deleted by admin", zap.String("show_id", showID))
	return nil
}

// ==================== HELPER METHODS ====================

func (s *showService) buildShowResponse(ctx context.Context, show *entity.Show) response.ShowResponse {
	resp := response.ShowResponse{
		ID:            show.ID.String(),
		MovieID:       show.MovieID.String(),
		TheaterID:     show.TheaterID.String(),
		Screen:        show.Screen,
		Format:        show.Format,
		ShowDateTime:  show.ShowDateTime,
		Price:         show.Price,
		OccupiedCount: len(show.OccupiedSeats),
	}

	movie, _ := s.repo.Movie.FindByID(ctx, show.MovieID)
	if movie != nil {
		resp.MovieTitle = movie.Title
	}

	theater, _ := s.repo.Theater.FindByID(ctx, show.TheaterID)
	if theater != nil {
		resp.TheaterName = theater.Name
	}

	return resp
}
