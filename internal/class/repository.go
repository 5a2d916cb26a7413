package class

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Omarzahran17/gym-flow-sub000/internal/db"

	"github.com/jmoiron/sqlx"
)

var (
	ErrClassNotFound    = errors.New("class not found")
	ErrScheduleNotFound = errors.New("schedule not found")
)

const classColumns = `id, name, description, trainer_id, max_capacity, duration_minutes, color, image_key, created_at`

const scheduleColumns = `id, class_id, day_of_week, to_char(start_time, 'HH24:MI') AS start_time, room, created_at`

const scheduleDetailsQuery = `
	SELECT s.id AS schedule_id, s.day_of_week, to_char(s.start_time, 'HH24:MI') AS start_time, s.room,
	       c.id AS class_id, c.name AS class_name, c.description, c.max_capacity,
	       c.duration_minutes, c.color, c.trainer_id, u.name AS trainer_name
	FROM class_schedules s
	JOIN classes c ON c.id = s.class_id
	LEFT JOIN users u ON u.id = c.trainer_id
`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateClass(ctx context.Context, c Class) (*Class, error) {
	query := `
		INSERT INTO classes (name, description, trainer_id, max_capacity, duration_minutes, color)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + classColumns

	var out Class
	err := db.Conn(ctx, r.db).GetContext(ctx, &out, query,
		c.Name, c.Description, c.TrainerID, c.MaxCapacity, c.DurationMinutes, c.Color)
	if err != nil {
		return nil, fmt.Errorf("failed to create class: %w", err)
	}
	return &out, nil
}

func (r *repository) UpdateClass(ctx context.Context, c Class) (*Class, error) {
	query := `
		UPDATE classes
		SET name = $2, description = $3, trainer_id = $4, max_capacity = $5, duration_minutes = $6, color = $7
		WHERE id = $1
		RETURNING ` + classColumns

	var out Class
	err := db.Conn(ctx, r.db).GetContext(ctx, &out, query,
		c.ID, c.Name, c.Description, c.TrainerID, c.MaxCapacity, c.DurationMinutes, c.Color)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update class: %w", err)
	}
	return &out, nil
}

func (r *repository) DeleteClass(ctx context.Context, id int) error {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrClassNotFound
	}
	return nil
}

func (r *repository) GetClass(ctx context.Context, id int) (*Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes WHERE id = $1`

	var c Class
	err := db.Conn(ctx, r.db).GetContext(ctx, &c, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) ListClasses(ctx context.Context) ([]Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes ORDER BY name ASC`

	classes := []Class{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &classes, query); err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *repository) SetImageKey(ctx context.Context, id int, key string) error {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, `UPDATE classes SET image_key = $2 WHERE id = $1`, id, key)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrClassNotFound
	}
	return nil
}

func (r *repository) HasSchedules(ctx context.Context, classID int) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM class_schedules WHERE class_id = $1)`, classID)
}

func (r *repository) TrainerExists(ctx context.Context, trainerID int) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND role = 'trainer')`, trainerID)
}

func (r *repository) CreateSchedule(ctx context.Context, s Schedule) (*Schedule, error) {
	query := `
		INSERT INTO class_schedules (class_id, day_of_week, start_time, room)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + scheduleColumns

	var out Schedule
	if err := db.Conn(ctx, r.db).GetContext(ctx, &out, query, s.ClassID, s.DayOfWeek, s.StartTime, s.Room); err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}
	return &out, nil
}

func (r *repository) DeleteSchedule(ctx context.Context, id int) error {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM class_schedules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

func (r *repository) ListSchedules(ctx context.Context, classID int) ([]Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM class_schedules
		WHERE class_id = $1
		ORDER BY day_of_week, start_time
	`

	schedules := []Schedule{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &schedules, query, classID); err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *repository) ListScheduleDetails(ctx context.Context) ([]ScheduleDetails, error) {
	query := scheduleDetailsQuery + ` ORDER BY s.day_of_week, s.start_time, s.id`

	details := []ScheduleDetails{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &details, query); err != nil {
		return nil, err
	}
	return details, nil
}

func (r *repository) GetScheduleDetails(ctx context.Context, scheduleID int, forUpdate bool) (*ScheduleDetails, error) {
	query := scheduleDetailsQuery + ` WHERE s.id = $1`
	if forUpdate {
		query += ` FOR UPDATE OF s`
	}

	var d ScheduleDetails
	err := db.Conn(ctx, r.db).GetContext(ctx, &d, query, scheduleID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}
