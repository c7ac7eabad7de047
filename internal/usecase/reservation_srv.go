package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"quickshow/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReservationService interface {
	// CheckAvailability is advisory: it reports current best knowledge of
	// the seat map and guarantees nothing about a later Reserve.
	CheckAvailability(ctx context.Context, showID uuid.UUID, seats []string) (bool, []string, error)

	// Reserve marks every seat in seats as held by holderID, all or nothing.
	// The write is guarded by the seat-map version read in the same attempt,
	// so two overlapping reservations can never both commit.
	Reserve(ctx context.Context, showID uuid.UUID, seats []string, holderID string) error

	// Release frees the given seats regardless of holder. Releasing a free
	// seat, or seats on a deleted show, is a no-op.
	Release(ctx context.Context, showID uuid.UUID, seats []string) error
}

type reservationService struct {
	shows      repository.ShowRepository
	maxRetries int
	log        *zap.Logger
}

func NewReservationService(shows repository.ShowRepository, maxRetries int, log *zap.Logger) ReservationService {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &reservationService{
		shows:      shows,
		maxRetries: maxRetries,
		log:        log.With(zap.String("service", "reservation")),
	}
}

func conflictingSeats(occupied map[string]string, seats []string) []string {
	var conflicts []string
	for _, seat := range seats {
		if _, taken := occupied[seat]; taken {
			conflicts = append(conflicts, seat)
		}
	}
	sort.Strings(conflicts)
	return conflicts
}

func (s *reservationService) CheckAvailability(ctx context.Context, showID uuid.UUID, seats []string) (bool, []string, error) {
	if len(seats) == 0 {
		return false, nil, fmt.Errorf("validation failed: empty seat list")
	}

	occupied, _, err := s.shows.GetSeatMap(ctx, showID)
	if err != nil {
		return false, nil, err
	}

	conflicts := conflictingSeats(occupied, seats)
	return len(conflicts) == 0, conflicts, nil
}

func (s *reservationService) Reserve(ctx context.Context, showID uuid.UUID, seats []string, holderID string) error {
	if len(seats) == 0 {
		return fmt.Errorf("validation failed: empty seat list")
	}
	if holderID == "" {
		return fmt.Errorf("validation failed: missing holder")
	}

	var lastErr error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		occupied, version, err := s.shows.GetSeatMap(ctx, showID)
		if err != nil {
			return err
		}

		// Availability is re-checked on every attempt; an earlier
		// CheckAvailability means nothing here.
		if conflicts := conflictingSeats(occupied, seats); len(conflicts) > 0 {
			return &ConflictError{Seats: conflicts}
		}

		next := make(map[string]string, len(occupied)+len(seats))
		for seat, holder := range occupied {
			next[seat] = holder
		}
		for _, seat := range seats {
			next[seat] = holderID
		}

		err = s.shows.WriteSeatMap(ctx, showID, version, next)
		if err == nil {
			s.log.Info("Seats reserved",
				zap.String("show_id", showID.String()),
				zap.String("holder_id", holderID),
				zap.Strings("seats", seats),
				zap.Int("attempt", attempt+1),
			)
			return nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return err
		}

		// Lost the write race; re-read and try again.
		lastErr = err
	}

	s.log.Warn("Reserve gave up after guarded-write retries",
		zap.String("show_id", showID.String()),
		zap.Int("attempts", s.maxRetries),
	)
	return fmt.Errorf("reserve seats on show %s: %w", showID.String(), lastErr)
}

func (s *reservationService) Release(ctx context.Context, showID uuid.UUID, seats []string) error {
	if len(seats) == 0 {
		return nil
	}

	var lastErr error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		occupied, version, err := s.shows.GetSeatMap(ctx, showID)
		if errors.Is(err, repository.ErrNotFound) {
			// Show already removed; nothing left to free.
			return nil
		}
		if err != nil {
			return err
		}

		next := make(map[string]string, len(occupied))
		for seat, holder := range occupied {
			next[seat] = holder
		}
		changed := false
		for _, seat := range seats {
			if _, held := next[seat]; held {
				delete(next, seat)
				changed = true
			}
		}
		if !changed {
			return nil
		}

		err = s.shows.WriteSeatMap(ctx, showID, version, next)
		if err == nil {
			s.log.Info("Seats released",
				zap.String("show_id", showID.String()),
				zap.Strings("seats", seats),
			)
			return nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return err
		}

		lastErr = err
	}

	return fmt.Errorf("release seats on show %s: %w", showID.String(), lastErr)
}
