package leave

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newSQLRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(nil, db), mock
}

func newGormRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return NewRepository(gdb, db), mock
}

func TestAcquireQuotaLock(t *testing.T) {
	repo, mock := newSQLRepo(t)

	mock.ExpectExec("pg_advisory_xact_lock").
		WithArgs("leave_quota:u1:t1:2026").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.AcquireQuotaLock(context.Background(), "leave_quota:u1:t1:2026")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSumApprovedDays(t *testing.T) {
	repo, mock := newSQLRepo(t)

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs("u1", "t1", 2026).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(6.5))

	sum, err := repo.SumApprovedDays(context.Background(), "u1", "t1", 2026)
	require.NoError(t, err)
	assert.Equal(t, 6.5, sum)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertLeaveRequest(t *testing.T) {
	repo, mock := newSQLRepo(t)

	lr := &LeaveRequest{
		ID:          uuid.New(),
		RequestCode: "A1B2C3D4E5F60718",
		UserID:      uuid.New(),
		LeaveTypeID: uuid.New(),
		ProxyUserID: uuid.New(),
		StartDate:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC),
		DaysCount:   3,
		Reason:      "family matters",
		Status:      StatusPending,
	}

	mock.ExpectExec("INSERT INTO leave_requests").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Insert(context.Background(), lr)
	require.NoError(t, err)
	assert.False(t, lr.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDecision(t *testing.T) {
	repo, mock := newSQLRepo(t)

	mock.ExpectExec("UPDATE leave_requests").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateDecision(context.Background(), uuid.NewString(), StatusApproved, uuid.New(), time.Now().UTC(), nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrdersByStartDateDescending(t *testing.T) {
	repo, mock := newGormRepo(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "leave_requests"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`ORDER BY start_date DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, total, err := repo.List(context.Background(), ListFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDateRangeBoundsEndDate(t *testing.T) {
	repo, mock := newGormRepo(t)

	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "leave_requests" WHERE start_date >= \$1 AND end_date <= \$2`).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`WHERE start_date >= \$1 AND end_date <= \$2 ORDER BY start_date DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := repo.List(context.Background(), ListFilter{StartFrom: from, EndTo: to, Limit: 10})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewRequestCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := newRequestCode()
		require.NoError(t, err)
		assert.Regexp(t, `^[0-9A-F]{16}$`, code)
		assert.False(t, seen[code])
		seen[code] = true
	}
}
