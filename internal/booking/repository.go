package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Omarzahran17/gym-flow-sub000/internal/db"

	"github.com/jmoiron/sqlx"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrAlreadyBooked   = errors.New("already booked")
)

const bookingColumns = `id, schedule_id, member_id, to_char(booking_date, 'YYYY-MM-DD') AS booking_date, status, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Create inserts a confirmed booking. The partial unique index on
// (schedule_id, member_id, booking_date) turns a duplicate into ErrAlreadyBooked.
func (r *repository) Create(ctx context.Context, memberID, scheduleID int, bookingDate string) (*Booking, error) {
	query := `
		INSERT INTO class_bookings (schedule_id, member_id, booking_date, status)
		VALUES ($1, $2, $3, 'confirmed')
		RETURNING ` + bookingColumns

	var b Booking
	err := db.Conn(ctx, r.db).GetContext(ctx, &b, query, scheduleID, memberID, bookingDate)
	if db.IsUniqueViolation(err) {
		return nil, ErrAlreadyBooked
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	return &b, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM class_bookings WHERE id = $1`

	var b Booking
	err := db.Conn(ctx, r.db).GetContext(ctx, &b, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Delete removes the booking row; cancellation has no status of its own.
func (r *repository) Delete(ctx context.Context, id int) error {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM class_bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *repository) CountConfirmed(ctx context.Context, scheduleID int, bookingDate string) (int, error) {
	var n int
	err := db.Conn(ctx, r.db).GetContext(ctx, &n, `
		SELECT COUNT(*)
		FROM class_bookings
		WHERE schedule_id = $1 AND booking_date = $2 AND status = 'confirmed'
	`, scheduleID, bookingDate)
	return n, err
}

func (r *repository) CountConfirmedBetween(ctx context.Context, from, to string) ([]OccurrenceCount, error) {
	query := `
		SELECT schedule_id, to_char(booking_date, 'YYYY-MM-DD') AS booking_date, COUNT(*) AS count
		FROM class_bookings
		WHERE status = 'confirmed' AND booking_date BETWEEN $1 AND $2
		GROUP BY schedule_id, booking_date
	`

	counts := []OccurrenceCount{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &counts, query, from, to); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *repository) MemberHasBooking(ctx context.Context, memberID, scheduleID int, bookingDate string) (bool, error) {
	return db.Exists(ctx, r.db, `
		SELECT EXISTS(
			SELECT 1 FROM class_bookings
			WHERE member_id = $1 AND schedule_id = $2 AND booking_date = $3 AND status = 'confirmed'
		)
	`, memberID, scheduleID, bookingDate)
}

func (r *repository) MemberBookingsBetween(ctx context.Context, memberID int, from, to string) ([]Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM class_bookings
		WHERE member_id = $1 AND status = 'confirmed' AND booking_date BETWEEN $2 AND $3
	`

	bookings := []Booking{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &bookings, query, memberID, from, to); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) ListByMember(ctx context.Context, memberID int, from string) ([]BookingWithSchedule, error) {
	query := `
		SELECT
			b.id, b.schedule_id, b.member_id, to_char(b.booking_date, 'YYYY-MM-DD') AS booking_date, b.status, b.created_at,
			s.id AS "schedule.id",
			s.day_of_week AS "schedule.day_of_week",
			to_char(s.start_time, 'HH24:MI') AS "schedule.start_time",
			s.room AS "schedule.room",
			c.id AS "schedule.class_id",
			c.name AS "schedule.class_name",
			c.color AS "schedule.color",
			c.duration_minutes AS "schedule.duration_minutes",
			u.name AS "schedule.trainer_name"
		FROM class_bookings b
		JOIN class_schedules s ON s.id = b.schedule_id
		JOIN classes c ON c.id = s.class_id
		LEFT JOIN users u ON u.id = c.trainer_id
		WHERE b.member_id = $1 AND b.status = 'confirmed' AND b.booking_date >= $2
		ORDER BY b.booking_date, s.start_time, b.id
	`

	bookings := []BookingWithSchedule{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &bookings, query, memberID, from); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) ListByOccurrence(ctx context.Context, scheduleID int, bookingDate string) ([]BookingWithMember, error) {
	query := `
		SELECT
			b.id, b.schedule_id, b.member_id, to_char(b.booking_date, 'YYYY-MM-DD') AS booking_date, b.status, b.created_at,
			u.name AS member_name,
			u.email AS member_email
		FROM class_bookings b
		JOIN users u ON u.id = b.member_id
		WHERE b.schedule_id = $1 AND b.booking_date = $2 AND b.status = 'confirmed'
		ORDER BY b.created_at
	`

	bookings := []BookingWithMember{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &bookings, query, scheduleID, bookingDate); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) CountByDay(ctx context.Context, from, to string) ([]ReportRow, error) {
	query := `
		SELECT
			to_char(booking_date, 'YYYY-MM-DD') AS key,
			to_char(booking_date, 'Dy DD Mon') AS label,
			COUNT(*) AS count
		FROM class_bookings
		WHERE status = 'confirmed' AND booking_date BETWEEN $1 AND $2
		GROUP BY booking_date
		ORDER BY booking_date
	`

	rows := []ReportRow{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CountByClass(ctx context.Context, from, to string) ([]ReportRow, error) {
	query := `
		SELECT
			c.id::text AS key,
			c.name AS label,
			COUNT(*) AS count
		FROM class_bookings b
		JOIN class_schedules s ON s.id = b.schedule_id
		JOIN classes c ON c.id = s.class_id
		WHERE b.status = 'confirmed' AND b.booking_date BETWEEN $1 AND $2
		GROUP BY c.id, c.name
		ORDER BY count DESC, c.name
	`

	rows := []ReportRow{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, err
	}
	return rows, nil
}
