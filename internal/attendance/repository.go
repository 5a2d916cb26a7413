package attendance

import (
	"context"
	"fmt"

	"github.com/Omarzahran17/gym-flow-sub000/internal/db"

	"github.com/jmoiron/sqlx"
)

const defaultListLimit = 30

const attendanceColumns = `id, member_id, to_char(check_in_date, 'YYYY-MM-DD') AS check_in_date, checked_in_at, checked_in_by, method`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, a Attendance) (*Attendance, error) {
	query := `
		INSERT INTO attendance (member_id, check_in_date, checked_in_by, method)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + attendanceColumns

	var out Attendance
	err := db.Conn(ctx, r.db).GetContext(ctx, &out, query, a.MemberID, a.CheckInDate, a.CheckedInBy, a.Method)
	if err != nil {
		return nil, fmt.Errorf("failed to record check-in: %w", err)
	}
	return &out, nil
}

func (r *repository) ListForMember(ctx context.Context, memberID, limit int) ([]Attendance, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance
		WHERE member_id = $1
		ORDER BY checked_in_at DESC
		LIMIT $2
	`

	records := []Attendance{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &records, query, memberID, limit); err != nil {
		return nil, err
	}
	return records, nil
}
