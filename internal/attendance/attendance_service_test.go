package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeAttendanceRepo struct {
	records map[string]*AttendanceRecord
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]*AttendanceRecord)}
}

func key(userID string, date time.Time) string {
	return userID + "|" + date.Format("2006-01-02")
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, rec *AttendanceRecord) error {
	f.records[key(rec.UserID.String(), rec.WorkDate)] = rec
	return nil
}

func (f *fakeAttendanceRepo) Update(ctx context.Context, rec *AttendanceRecord) error {
	f.records[key(rec.UserID.String(), rec.WorkDate)] = rec
	return nil
}

func (f *fakeAttendanceRepo) FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*AttendanceRecord, error) {
	rec, ok := f.records[key(userID, date)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return rec, nil
}

func (f *fakeAttendanceRepo) ListByUser(ctx context.Context, userID string, from, to time.Time, offset, limit int) ([]AttendanceRecord, int64, error) {
	var out []AttendanceRecord
	for _, rec := range f.records {
		if rec.UserID.String() != userID {
			continue
		}
		if !from.IsZero() && rec.WorkDate.Before(from) {
			continue
		}
		if !to.IsZero() && rec.WorkDate.After(to) {
			continue
		}
		out = append(out, *rec)
	}
	return out, int64(len(out)), nil
}

func newTestService(repo Repository, now time.Time) Service {
	return &service{
		repo:   repo,
		now:    func() time.Time { return now },
		logger: zap.NewNop(),
	}
}

func TestClockInOnTime(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo, time.Date(2026, 6, 1, 8, 30, 0, 0, time.UTC))

	resp, err := svc.ClockIn(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, StatusPresent, resp.Status)
	assert.Equal(t, "2026-06-01", resp.WorkDate)
}

func TestClockInLate(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo, time.Date(2026, 6, 1, 9, 15, 0, 0, time.UTC))

	resp, err := svc.ClockIn(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, StatusLate, resp.Status)
}

func TestClockInTwice(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo, time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC))

	userID := uuid.NewString()
	_, err := svc.ClockIn(context.Background(), userID)
	require.NoError(t, err)

	_, err = svc.ClockIn(context.Background(), userID)
	assert.ErrorIs(t, err, ErrAlreadyClockedIn)
}

func TestClockOut(t *testing.T) {
	repo := newFakeAttendanceRepo()
	morning := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	userID := uuid.NewString()

	_, err := newTestService(repo, morning).ClockIn(context.Background(), userID)
	require.NoError(t, err)

	evening := time.Date(2026, 6, 1, 17, 0, 0, 0, time.UTC)
	resp, err := newTestService(repo, evening).ClockOut(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, resp.ClockOutAt)
	assert.Equal(t, evening, *resp.ClockOutAt)
}

func TestClockOutWithoutClockIn(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo, time.Date(2026, 6, 1, 17, 0, 0, 0, time.UTC))

	_, err := svc.ClockOut(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotClockedIn)
}

func TestClockOutTwice(t *testing.T) {
	repo := newFakeAttendanceRepo()
	userID := uuid.NewString()

	_, err := newTestService(repo, time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)).ClockIn(context.Background(), userID)
	require.NoError(t, err)

	svc := newTestService(repo, time.Date(2026, 6, 1, 17, 0, 0, 0, time.UTC))
	_, err = svc.ClockOut(context.Background(), userID)
	require.NoError(t, err)

	_, err = svc.ClockOut(context.Background(), userID)
	assert.ErrorIs(t, err, ErrAlreadyClockedOut)
}

func TestListOwnDateFilter(t *testing.T) {
	repo := newFakeAttendanceRepo()
	userID := uuid.NewString()

	for day := 1; day <= 5; day++ {
		svc := newTestService(repo, time.Date(2026, 6, day, 8, 0, 0, 0, time.UTC))
		_, err := svc.ClockIn(context.Background(), userID)
		require.NoError(t, err)
	}

	svc := newTestService(repo, time.Date(2026, 6, 6, 8, 0, 0, 0, time.UTC))
	items, total, _, _, err := svc.ListOwn(context.Background(), userID, ListQuery{
		From: "2026-06-02",
		To:   "2026-06-04",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 3)
}

func TestListOwnBadDateFilter(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo, time.Now().UTC())

	_, _, _, _, err := svc.ListOwn(context.Background(), uuid.NewString(), ListQuery{From: "June 1"})
	assert.Error(t, err)
}
