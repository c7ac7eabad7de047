package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"quickshow/internal/data/entity"
	"quickshow/internal/data/repository"
	"quickshow/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// fakeShowRepo is an in-memory ShowRepository whose WriteSeatMap does a
// real compare-and-swap on the version, so it races the same way the SQL
// guarded update does.
type fakeShowRepo struct {
	mu       sync.Mutex
	shows    map[uuid.UUID]*entity.Show
	seats    map[uuid.UUID]map[string]string
	versions map[uuid.UUID]int64

	// when > 0, the next writeFails calls to WriteSeatMap return
	// ErrVersionConflict regardless of the guard version
	writeFails int
}

func newFakeShowRepo() *fakeShowRepo {
	return &fakeShowRepo{
		shows:    make(map[uuid.UUID]*entity.Show),
		seats:    make(map[uuid.UUID]map[string]string),
		versions: make(map[uuid.UUID]int64),
	}
}

func (f *fakeShowRepo) addShow(show *entity.Show) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shows[show.ID] = show
	occupied := make(map[string]string)
	for seat, holder := range show.OccupiedSeats {
		occupied[seat] = holder
	}
	f.seats[show.ID] = occupied
	f.versions[show.ID] = show.Version
}

func (f *fakeShowRepo) seatMap(id uuid.UUID) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.seats[id]))
	for seat, holder := range f.seats[id] {
		out[seat] = holder
	}
	return out
}

func (f *fakeShowRepo) Create(ctx context.Context, show *entity.Show) error {
	f.addShow(show)
	return nil
}

func (f *fakeShowRepo) CreateBatch(ctx context.Context, shows []*entity.Show) error {
	for _, show := range shows {
		f.addShow(show)
	}
	return nil
}

func (f *fakeShowRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Show, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shows[id], nil
}

func (f *fakeShowRepo) ListUpcoming(ctx context.Context, from time.Time) ([]*entity.Show, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Show
	for _, show := range f.shows {
		if show.ShowDateTime.After(from) {
			out = append(out, show)
		}
	}
	return out, nil
}

func (f *fakeShowRepo) CountUpcoming(ctx context.Context, from time.Time) (int64, error) {
	shows, _ := f.ListUpcoming(ctx, from)
	return int64(len(shows)), nil
}

func (f *fakeShowRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.shows, id)
	delete(f.seats, id)
	delete(f.versions, id)
	return nil
}

func (f *fakeShowRepo) GetSeatMap(ctx context.Context, id uuid.UUID) (map[string]string, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	occupied, ok := f.seats[id]
	if !ok {
		return nil, 0, fmt.Errorf("show %s: %w", id, repository.ErrNotFound)
	}
	out := make(map[string]string, len(occupied))
	for seat, holder := range occupied {
		out[seat] = holder
	}
	return out, f.versions[id], nil
}

func (f *fakeShowRepo) WriteSeatMap(ctx context.Context, id uuid.UUID, guardVersion int64, seats map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.seats[id]; !ok {
		return fmt.Errorf("show %s: %w", id, repository.ErrNotFound)
	}
	if f.writeFails > 0 {
		f.writeFails--
		return repository.ErrVersionConflict
	}
	if f.versions[id] != guardVersion {
		return repository.ErrVersionConflict
	}
	next := make(map[string]string, len(seats))
	for seat, holder := range seats {
		next[seat] = holder
	}
	f.seats[id] = next
	f.versions[id] = guardVersion + 1
	return nil
}

func testShow(t *testing.T, occupied map[string]string) (*fakeShowRepo, uuid.UUID) {
	t.Helper()
	repo := newFakeShowRepo()
	show := &entity.Show{
		Base:          entity.Base{ID: uuid.New()},
		ShowDateTime:  time.Now().Add(24 * time.Hour),
		Price:         50,
		OccupiedSeats: occupied,
	}
	repo.addShow(show)
	return repo, show.ID
}

func TestReserveMarksSeatsForHolder(t *testing.T) {
	repo, showID := testShow(t, nil)
	svc := usecase.NewReservationService(repo, 3, zap.NewNop())

	if err := svc.Reserve(context.Background(), showID, []string{"A1", "A2"}, "user-1"); err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	want := map[string]string{"A1": "user-1", "A2": "user-1"}
	if got := repo.seatMap(showID); !reflect.DeepEqual(got, want) {
		t.Errorf("seat map = %v, want %v", got, want)
	}
}

func TestReserveReportsConflictingSeats(t *testing.T) {
	repo, showID := testShow(t, map[string]string{"A2": "user-1", "B5": "user-1"})
	svc := usecase.NewReservationService(repo, 3, zap.NewNop())

	err := svc.Reserve(context.Background(), showID, []string{"A1", "B5", "A2"}, "user-2")

	var conflict *usecase.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Reserve error = %v, want ConflictError", err)
	}
	if want := []string{"A2", "B5"}; !reflect.DeepEqual(conflict.Seats, want) {
		t.Errorf("conflicting seats = %v, want %v", conflict.Seats, want)
	}
	// Nothing was written, A1 included.
	if _, held := repo.seatMap(showID)["A1"]; held {
		t.Error("A1 was held despite the conflict")
	}
}

func TestReserveValidation(t *testing.T) {
	repo, showID := testShow(t, nil)
	svc := usecase.NewReservationService(repo, 3, zap.NewNop())

	tests := []struct {
		name   string
		seats  []string
		holder string
	}{
		{"empty seat list", nil, "user-1"},
		{"missing holder", []string{"A1"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.Reserve(context.Background(), showID, tt.seats, tt.holder); err == nil {
				t.Error("Reserve succeeded, want validation error")
			}
		})
	}
}

func TestReserveRetriesOnVersionConflict(t *testing.T) {
	repo, showID := testShow(t, nil)
	repo.writeFails = 2
	svc := usecase.NewReservationService(repo, 3, zap.NewNop())

	if err := svc.Reserve(context.Background(), showID, []string{"C3"}, "user-1"); err != nil {
		t.Fatalf("Reserve after retries: %v", err)
	}
	if got := repo.seatMap(showID)["C3"]; got != "user-1" {
		t.Errorf("C3 holder = %q, want user-1", got)
	}
}

func TestReserveGivesUpAfterMaxRetries(t *testing.T) {
	repo, showID := testShow(t, nil)
	repo.writeFails = 3
	svc := usecase.NewReservationService(repo, 3, zap.NewNop())

	err := svc.Reserve(context.Background(), showID, []string{"C3"}, "user-1")
	if !errors.Is(err, repository.ErrVersionConflict) {
		t.Fatalf("Reserve error = %v, want ErrVersionConflict", err)
	}
}

func TestConcurrentDisjointReservesBothCommit(t *testing.T) {
	repo, showID := testShow(t, nil)
	svc := usecase.NewReservationService(repo, 5, zap.NewNop())

	var wg sync.WaitGroup
	errs := make([]error, 2)
	seatSets := [][]string{{"A1", "A2"}, {"B1", "B2"}}
	for i := range seatSets {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.Reserve(context.Background(), showID, seatSets[i], fmt.Sprintf("user-%d", i))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("reserve %d: %v", i, err)
		}
	}
	if got := len(repo.seatMap(showID)); got != 4 {
		t.Errorf("held seats = %d, want 4", got)
	}
}

func TestConcurrentOverlappingReservesExactlyOneWins(t *testing.T) {
	const contenders = 8

	repo, showID := testShow(t, nil)
	svc := usecase.NewReservationService(repo, contenders+1, zap.NewNop())

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.Reserve(context.Background(), showID, []string{"D4"}, fmt.Sprintf("user-%d", i))
		}(i)
	}
	wg.Wait()

	wins := 0
	for i, err := range errs {
		if err == nil {
			wins++
			continue
		}
		var conflict *usecase.ConflictError
		if !errors.As(err, &conflict) {
			t.Errorf("reserve %d failed with %v, want ConflictError", i, err)
		}
	}
	if wins != 1 {
		t.Fatalf("winners = %d, want exactly 1", wins)
	}
	if _, held := repo.seatMap(showID)["D4"]; !held {
		t.Error("D4 is not held by anyone")
	}
}

func TestReleaseFreesSeatsAndIsIdempotent(t *testing.T) {
	repo, showID := testShow(t, map[string]string{"A1": "user-1", "A2": "user-1", "B1": "user-2"})
	svc := usecase.NewReservationService(repo, 3, zap.NewNop())

	if err := svc.Release(context.Background(), showID, []string{"A1", "A2"}); err != nil {
		t.Fatalf("Release: %v", err)
	}
	want := map[string]string{"B1": "user-2"}
	if got := repo.seatMap(showID); !reflect.DeepEqual(got, want) {
		t.Errorf("seat map = %v, want %v", got, want)
	}

	version := repo.versions[showID]
	if err := svc.Release(context.Background(), showID, []string{"A1", "A2"}); err != nil {
		t.Fatalf("repeat Release: %v", err)
	}
	if repo.versions[showID] != version {
		t.Error("no-op release bumped the seat-map version")
	}
}

func TestReleaseOnDeletedShowIsNoop(t *testing.T) {
	repo := newFakeShowRepo()
	svc := usecase.NewReservationService(repo, 3, zap.NewNop())

	if err := svc.Release(context.Background(), uuid.New(), []string{"A1"}); err != nil {
		t.Fatalf("Release on missing show: %v", err)
	}
}

func TestCheckAvailability(t *testing.T) {
	repo, showID := testShow(t, map[string]string{"A2": "user-1"})
	svc := usecase.NewReservationService(repo, 3, zap.NewNop())

	ok, conflicts, err := svc.CheckAvailability(context.Background(), showID, []string{"A1", "A2"})
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if ok {
		t.Error("available = true, want false")
	}
	if want := []string{"A2"}; !reflect.DeepEqual(conflicts, want) {
		t.Errorf("conflicts = %v, want %v", conflicts, want)
	}

	ok, conflicts, err = svc.CheckAvailability(context.Background(), showID, []string{"A1", "A3"})
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if !ok || len(conflicts) != 0 {
		t.Errorf("available = %v conflicts = %v, want true and none", ok, conflicts)
	}
}
