package attendance

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var attendanceCols = []string{"id", "member_id", "check_in_date", "checked_in_at", "checked_in_by", "method"}

func setupMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return sqlx.NewDb(conn, "sqlmock"), mock
}

func TestRepository_Insert(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewRepository(db)
	staff := 3

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO attendance (member_id, check_in_date, checked_in_by, method)")).
		WithArgs(7, "2024-03-13", &staff, MethodQR).
		WillReturnRows(sqlmock.NewRows(attendanceCols).AddRow(1, 7, "2024-03-13", time.Now(), 3, MethodQR))

	rec, err := repo.Insert(context.Background(), Attendance{MemberID: 7, CheckInDate: "2024-03-13", CheckedInBy: &staff, Method: MethodQR})

	require.NoError(t, err)
	assert.Equal(t, "2024-03-13", rec.CheckInDate)
	require.NotNil(t, rec.CheckedInBy)
	assert.Equal(t, 3, *rec.CheckedInBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListForMember_DefaultLimit(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY checked_in_at DESC LIMIT $2")).
		WithArgs(7, defaultListLimit).
		WillReturnRows(sqlmock.NewRows(attendanceCols).AddRow(1, 7, "2024-03-13", time.Now(), nil, MethodSelf))

	records, err := repo.ListForMember(context.Background(), 7, 0)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].CheckedInBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}
