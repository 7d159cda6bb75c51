package crdb

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/robertarktes/lumiere-hotel/internal/domain"
)

const bookingColumns = `id, user_id, room_id, room_name, room_image, check_in, check_out, guests, total_price, status, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (domain.Booking, error) {
	var b domain.Booking
	var status string
	err := row.Scan(&b.ID, &b.UserID, &b.RoomID, &b.RoomName, &b.RoomImage,
		&b.CheckIn, &b.CheckOut, &b.Guests, &b.TotalPrice, &status, &b.CreatedAt)
	b.Status = domain.BookingStatus(status)
	return b, err
}

// CreateBooking stores b and its booking.created event in one transaction.
func (r *Repository) CreateBooking(ctx context.Context, b domain.Booking) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO bookings (`+bookingColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, b.ID, b.UserID, b.RoomID, b.RoomName, b.RoomImage, b.CheckIn, b.CheckOut, b.Guests, b.TotalPrice, string(b.Status), b.CreatedAt)
		if err != nil {
			return errors.Wrap(err, "insert booking")
		}
		return r.insertBookingEvent(ctx, tx, "booking.created", b)
	})
}

func (r *Repository) GetBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	b, err := scanBooking(r.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) ListBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// CancelBooking cancels a confirmed or pending booking owned by userID.
func (r *Repository) CancelBooking(ctx context.Context, userID string, id uuid.UUID) (*domain.Booking, error) {
	var out domain.Booking
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		b, err := scanBooking(tx.QueryRow(ctx, `
			SELECT `+bookingColumns+`
			FROM bookings WHERE id = $1 AND user_id = $2 FOR UPDATE
		`, id, userID))
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		if !b.Status.Upcoming() {
			return domain.ErrConflict
		}

		b.Status = domain.BookingCancelled
		if _, err := tx.Exec(ctx, `UPDATE bookings SET status = $2 WHERE id = $1`, id, string(b.Status)); err != nil {
			return err
		}
		out = b
		return r.insertBookingEvent(ctx, tx, "booking.cancelled", b)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteFinishedStays marks confirmed bookings whose check-out is at or
// before now as completed and queues a booking.completed event for each.
func (r *Repository) CompleteFinishedStays(ctx context.Context, now time.Time) ([]domain.Booking, error) {
	var done []domain.Booking
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		done = done[:0]
		rows, err := tx.Query(ctx, `
			UPDATE bookings SET status = 'completed'
			WHERE status = 'confirmed' AND check_out <= $1
			RETURNING `+bookingColumns, now)
		if err != nil {
			return err
		}
		for rows.Next() {
			b, err := scanBooking(rows)
			if err != nil {
				rows.Close()
				return err
			}
			done = append(done, b)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, b := range done {
			if err := r.insertBookingEvent(ctx, tx, "booking.completed", b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return done, nil
}

func (r *Repository) insertBookingEvent(ctx context.Context, tx pgx.Tx, eventType string, b domain.Booking) error {
	payload, err := json.Marshal(b)
	if err != nil {
		return errors.Wrap(err, "encode booking event")
	}
	return r.InsertOutbox(ctx, tx, OutboxRecord{
		ID:            uuid.New(),
		AggregateType: "booking",
		AggregateID:   b.ID,
		EventType:     eventType,
		Payload:       payload,
		DedupeKey:     eventType + ":" + b.ID.String(),
	})
}
