package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quickshow/internal/data/entity"
	"quickshow/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ShowRepository interface {
	Create(ctx context.Context, show *entity.Show) error
	CreateBatch(ctx context.Context, shows []*entity.Show) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Show, error)
	ListUpcoming(ctx context.Context, from time.Time) ([]*entity.Show, error)
	CountUpcoming(ctx context.Context, from time.Time) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Seat-map primitives. GetSeatMap returns the occupied map together with
	// the row version; WriteSeatMap only commits if the stored version still
	// equals guardVersion and returns ErrVersionConflict otherwise.
	GetSeatMap(ctx context.Context, id uuid.UUID) (map[string]string, int64, error)
	WriteSeatMap(ctx context.Context, id uuid.UUID, guardVersion int64, seats map[string]string) error
}

type showRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewShowRepository(db database.PgxIface, log *zap.Logger) ShowRepository {
	return &showRepository{
		db:  db,
		log: log.With(zap.String("repository", "show")),
	}
}

const showColumns = `id, movie_id, theater_id, screen, format, show_datetime, price, occupied_seats, version, created_at, updated_at`

func scanShow(row pgx.Row) (*entity.Show, error) {
	var show entity.Show
	var occupied []byte
	err := row.Scan(
		&show.ID,
		&show.MovieID,
		&show.TheaterID,
		&show.Screen,
		&show.Format,
		&show.ShowDateTime,
		&show.Price,
		&occupied,
		&show.Version,
		&show.CreatedAt,
		&show.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	show.OccupiedSeats = map[string]string{}
	if len(occupied) > 0 {
		if err := json.Unmarshal(occupied, &show.OccupiedSeats); err != nil {
			return nil, fmt.Errorf("decode occupied seats: %w", err)
		}
	}
	return &show, nil
}

func (r *showRepository) Create(ctx context.Context, show *entity.Show) error {
	occupied, err := json.Marshal(show.OccupiedSeats)
	if err != nil {
		return fmt.Errorf("encode occupied seats: %w", err)
	}

	query := `
		INSERT INTO shows (id, movie_id, theater_id, screen, format, show_datetime, price, occupied_seats, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = r.db.Exec(ctx, query,
		show.ID,
		show.MovieID,
		show.TheaterID,
		show.Screen,
		show.Format,
		show.ShowDateTime,
		show.Price,
		occupied,
		show.Version,
		show.CreatedAt,
		show.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create show",
			zap.Error(err),
			zap.String("show_id", show.ID.String()),
			zap.String("movie_id", show.MovieID.String()),
		)
		return fmt.Errorf("create show %s: %w", show.ID.String(), err)
	}

	return nil
}

func (r *showRepository) CreateBatch(ctx context.Context, shows []*entity.Show) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create shows: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO shows (id, movie_id, theater_id, screen, format, show_datetime, price, occupied_seats, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for _, show := range shows {
		occupied, err := json.Marshal(show.OccupiedSeats)
		if err != nil {
			return fmt.Errorf("encode occupied seats: %w", err)
		}

		_, err = tx.Exec(ctx, query,
			show.ID,
			show.MovieID,
			show.TheaterID,
			show.Screen,
			show.Format,
			show.ShowDateTime,
			show.Price,
			occupied,
			show.Version,
			show.CreatedAt,
			show.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to create show in batch",
				zap.Error(err),
				zap.String("show_id", show.ID.String()),
			)
			return fmt.Errorf("create show %s: %w", show.ID.String(), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create shows: %w", err)
	}

	return nil
}

func (r *showRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Show, error) {
	query := `SELECT ` + showColumns + ` FROM shows WHERE id = $1`

	show, err := scanShow(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find show by ID",
			zap.Error(err),
			zap.String("show_id", id.String()),
		)
		return nil, fmt.Errorf("find show by ID %s: %w", id.String(), err)
	}

	return show, nil
}

func (r *showRepository) ListUpcoming(ctx context.Context, from time.Time) ([]*entity.Show, error) {
	query := `SELECT ` + showColumns + ` FROM shows WHERE show_datetime >= $1 ORDER BY show_datetime`

	rows, err := r.db.Query(ctx, query, from)
	if err != nil {
		r.log.Error("Failed to list upcoming shows", zap.Error(err))
		return nil, fmt.Errorf("list upcoming shows: %w", err)
	}
	defer rows.Close()

	var shows []*entity.Show
	for rows.Next() {
		show, err := scanShow(rows)
		if err != nil {
			r.log.Error("Failed to scan show row", zap.Error(err))
			return nil, fmt.Errorf("scan show row: %w", err)
		}
		shows = append(shows, show)
	}

	return shows, nil
}

func (r *showRepository) CountUpcoming(ctx context.Context, from time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM shows WHERE show_datetime >= $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, from).Scan(&count); err != nil {
		r.log.Error("Failed to count upcoming shows", zap.Error(err))
		return 0, fmt.Errorf("count upcoming shows: %w", err)
	}

	return count, nil
}

func (r *showRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Bookings keep their show_id reference; history referencing a removed
	// show stays intact.
	query := `DELETE FROM shows WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete show",
			zap.Error(err),
			zap.String("show_id", id.String()),
		)
		return fmt.Errorf("delete show %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete show %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Show deleted", zap.String("show_id", id.String()))
	return nil
}

func (r *showRepository) GetSeatMap(ctx context.Context, id uuid.UUID) (map[string]string, int64, error) {
	query := `SELECT occupied_seats, version FROM shows WHERE id = $1`

	var occupied []byte
	var version int64
	err := r.db.QueryRow(ctx, query, id).Scan(&occupied, &version)
	if err == pgx.ErrNoRows {
		return nil, 0, fmt.Errorf("show %s: %w", id.String(), ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to read seat map",
			zap.Error(err),
			zap.String("show_id", id.String()),
		)
		return nil, 0, fmt.Errorf("read seat map for show %s: %w", id.String(), err)
	}

	seats := map[string]string{}
	if len(occupied) > 0 {
		if err := json.Unmarshal(occupied, &seats); err != nil {
			return nil, 0, fmt.Errorf("decode occupied seats: %w", err)
		}
	}

	return seats, version, nil
}

func (r *showRepository) WriteSeatMap(ctx context.Context, id uuid.UUID, guardVersion int64, seats map[string]string) error {
	occupied, err := json.Marshal(seats)
	if err != nil {
		return fmt.Errorf("encode occupied seats: %w", err)
	}

	query := `
		UPDATE shows
		SET occupied_seats = $2, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $3
	`

	result, err := r.db.Exec(ctx, query, id, occupied, guardVersion)
	if err != nil {
		r.log.Error("Failed to write seat map",
			zap.Error(err),
			zap.String("show_id", id.String()),
			zap.Int64("guard_version", guardVersion),
		)
		return fmt.Errorf("write seat map for show %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		// Either the version moved under us or the show is gone; the caller
		// re-reads to find out which.
		return fmt.Errorf("write seat map for show %s: %w", id.String(), ErrVersionConflict)
	}

	return nil
}
