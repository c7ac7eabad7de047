package repository

import (
	"context"
	"fmt"

	"quickshow/internal/data/entity"
	"quickshow/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID string) (int64, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Booking, error)
	CountAll(ctx context.Context) (int64, error)
	SetPaymentSession(ctx context.Context, id uuid.UUID, sessionID string) error
	Delete(ctx context.Context, id uuid.UUID) error

	// MarkPaid transitions the booking from unpaid to paid and records the
	// payment reference. Returns false when the booking was already paid or
	// no longer exists; webhook retries and the expiry race both land here
	// as safe no-ops.
	MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string) (bool, error)

	// ExpireUnpaid releases the booking's seats and deletes the booking in
	// one transaction, but only while it is still unpaid. Returns false when
	// the booking was already paid or already gone.
	ExpireUnpaid(ctx context.Context, id uuid.UUID) (bool, error)

	// Stats returns the paid booking count and total revenue (sum of paid
	// amounts).
	Stats(ctx context.Context) (int64, float64, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, user_id, show_id, booked_seats, amount, payment_state, session_id, payment_intent_id, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ShowID,
		&booking.BookedSeats,
		&booking.Amount,
		&booking.PaymentState,
		&booking.SessionID,
		&booking.PaymentIntentID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, user_id, show_id, booked_seats, amount, payment_state, session_id, payment_intent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.UserID,
		booking.ShowID,
		booking.BookedSeats,
		booking.Amount,
		booking.PaymentState,
		booking.SessionID,
		booking.PaymentIntentID,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("user_id", booking.UserID),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID.String(), err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID, err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func (r *bookingRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func (r *bookingRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return 0, fmt.Errorf("count bookings by user ID %s: %w", userID, err)
	}

	return count, nil
}

func (r *bookingRepository) SetPaymentSession(ctx context.Context, id uuid.UUID, sessionID string) error {
	query := `UPDATE bookings SET session_id = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, sessionID)
	if err != nil {
		r.log.Error("Failed to set payment session",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("set payment session for booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s: %w", id.String(), ErrNotFound)
	}

	return nil
}

func (r *bookingRepository) MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string) (bool, error) {
	// The state check in the WHERE clause is the arbitration point between
	// the webhook and the expiry worker: only an existing unpaid booking can
	// transition, and the first accepted payment reference is retained.
	query := `
		UPDATE bookings
		SET payment_state = $2, payment_intent_id = $3, updated_at = NOW()
		WHERE id = $1 AND payment_state = $4
	`

	result, err := r.db.Exec(ctx, query, id, entity.PaymentStatePaid, paymentRef, entity.PaymentStateUnpaid)
	if err != nil {
		r.log.Error("Failed to mark booking paid",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return false, fmt.Errorf("mark booking %s paid: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM bookings WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("delete booking %s: %w", id.String(), err)
	}

	return nil
}

func (r *bookingRepository) ExpireUnpaid(ctx context.Context, id uuid.UUID) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin expire booking %s: %w", id.String(), err)
	}
	defer tx.Rollback(ctx)

	// Lock the booking row while it is still unpaid. A concurrent MarkPaid
	// blocks on the lock and then matches zero rows once we delete.
	var showID uuid.UUID
	var seats []string
	err = tx.QueryRow(ctx,
		`SELECT show_id, booked_seats FROM bookings WHERE id = $1 AND payment_state = $2 FOR UPDATE`,
		id, entity.PaymentStateUnpaid,
	).Scan(&showID, &seats)
	if err == pgx.ErrNoRows {
		// Already paid or already removed.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lock unpaid booking %s: %w", id.String(), err)
	}

	// Dropping keys from the map is idempotent; bumping the version makes
	// any in-flight guarded reserve re-read before committing.
	_, err = tx.Exec(ctx,
		`UPDATE shows SET occupied_seats = occupied_seats - $2::text[], version = version + 1, updated_at = NOW() WHERE id = $1`,
		showID, seats,
	)
	if err != nil {
		return false, fmt.Errorf("release seats for show %s: %w", showID.String(), err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id); err != nil {
		return false, fmt.Errorf("delete expired booking %s: %w", id.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit expire booking %s: %w", id.String(), err)
	}

	r.log.Info("Unpaid booking expired",
		zap.String("booking_id", id.String()),
		zap.String("show_id", showID.String()),
		zap.Strings("released_seats", seats),
	)

	return true, nil
}

func (r *bookingRepository) Stats(ctx context.Context) (int64, float64, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(amount), 0)
		FROM bookings
		WHERE payment_state = $1
	`

	var count int64
	var revenue float64
	if err := r.db.QueryRow(ctx, query, entity.PaymentStatePaid).Scan(&count, &revenue); err != nil {
		r.log.Error("Failed to read booking stats", zap.Error(err))
		return 0, 0, fmt.Errorf("read booking stats: %w", err)
	}

	return count, revenue, nil
}
