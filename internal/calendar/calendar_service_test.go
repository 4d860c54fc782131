package calendar

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-lams/internal/leave"
	"go-lams/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeaveRepo struct {
	approved []leave.LeaveRequest
}

func (f *fakeLeaveRepo) WithTx(tx *sql.Tx) leave.Repository { return f }
func (f *fakeLeaveRepo) AcquireQuotaLock(ctx context.Context, key string) error {
	return nil
}
func (f *fakeLeaveRepo) SumApprovedDays(ctx context.Context, userID, leaveTypeID string, year int) (float64, error) {
	return 0, nil
}
func (f *fakeLeaveRepo) Insert(ctx context.Context, lr *leave.LeaveRequest) error { return nil }
func (f *fakeLeaveRepo) FindByIDForUpdate(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	return nil, sql.ErrNoRows
}
func (f *fakeLeaveRepo) UpdateDecision(ctx context.Context, id, status string, approverID uuid.UUID, approvedAt time.Time, rejectionReason *string) error {
	return nil
}
func (f *fakeLeaveRepo) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	return nil, sql.ErrNoRows
}
func (f *fakeLeaveRepo) List(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, int64, error) {
	return nil, 0, nil
}
func (f *fakeLeaveRepo) FindApprovedByUserTypeYear(ctx context.Context, userID, leaveTypeID string, year int) ([]leave.LeaveRequest, error) {
	return nil, nil
}

func (f *fakeLeaveRepo) FindApprovedOverlapping(ctx context.Context, userIDs []uuid.UUID, first, last time.Time) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, lr := range f.approved {
		if !lr.StartDate.After(last) && !lr.EndDate.Before(first) {
			out = append(out, lr)
		}
	}
	return out, nil
}

type fakeResolver struct {
	members []uuid.UUID
}

func (f *fakeResolver) ManagerOf(ctx context.Context, userID string) (*uuid.UUID, error) {
	return nil, nil
}
func (f *fakeResolver) TeamMemberIDs(ctx context.Context, managerID string) ([]uuid.UUID, error) {
	return f.members, nil
}
func (f *fakeResolver) IsDirectReport(ctx context.Context, managerID, userID string) (bool, error) {
	return false, nil
}
func (f *fakeResolver) AssignManager(ctx context.Context, userID, managerID string) error {
	return nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTeamCalendarClampsToMonth(t *testing.T) {
	member := uuid.New()
	repo := &fakeLeaveRepo{
		approved: []leave.LeaveRequest{
			{
				ID:        uuid.New(),
				UserID:    member,
				StartDate: day(2026, time.May, 30),
				EndDate:   day(2026, time.June, 2),
				Status:    leave.StatusApproved,
				User:      &leave.UserRef{ID: member, FirstName: "Ana", LastName: "Silva"},
				LeaveType: &leave.LeaveTypeRef{Name: "Annual Leave", ColorCode: "#3366FF"},
			},
		},
	}
	svc := NewService(repo, &fakeResolver{members: []uuid.UUID{member}})

	// June shows only the two June days.
	resp, err := svc.TeamCalendar(context.Background(), uuid.NewString(), 2026, 6)
	require.NoError(t, err)
	require.Len(t, resp.Days, 2)
	assert.Equal(t, "2026-06-01", resp.Days[0].Date)
	assert.Equal(t, "2026-06-02", resp.Days[1].Date)
	require.Len(t, resp.Days[0].MembersOnLeave, 1)
	assert.Equal(t, "Ana", resp.Days[0].MembersOnLeave[0].FirstName)
	assert.Equal(t, "Annual Leave", resp.Days[0].MembersOnLeave[0].LeaveType)

	// May shows only the two May days.
	resp, err = svc.TeamCalendar(context.Background(), uuid.NewString(), 2026, 5)
	require.NoError(t, err)
	require.Len(t, resp.Days, 2)
	assert.Equal(t, "2026-05-30", resp.Days[0].Date)
	assert.Equal(t, "2026-05-31", resp.Days[1].Date)
}

func TestTeamCalendarGroupsMembersPerDay(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	repo := &fakeLeaveRepo{
		approved: []leave.LeaveRequest{
			{
				ID:        uuid.New(),
				UserID:    alice,
				StartDate: day(2026, time.June, 10),
				EndDate:   day(2026, time.June, 11),
				Status:    leave.StatusApproved,
				User:      &leave.UserRef{ID: alice, FirstName: "Ana"},
				LeaveType: &leave.LeaveTypeRef{Name: "Annual Leave"},
			},
			{
				ID:        uuid.New(),
				UserID:    bob,
				StartDate: day(2026, time.June, 11),
				EndDate:   day(2026, time.June, 12),
				Status:    leave.StatusApproved,
				User:      &leave.UserRef{ID: bob, FirstName: "Budi"},
				LeaveType: &leave.LeaveTypeRef{Name: "Sick Leave"},
			},
		},
	}
	svc := NewService(repo, &fakeResolver{members: []uuid.UUID{alice, bob}})

	resp, err := svc.TeamCalendar(context.Background(), uuid.NewString(), 2026, 6)
	require.NoError(t, err)
	require.Len(t, resp.Days, 3)

	assert.Equal(t, "2026-06-11", resp.Days[1].Date)
	assert.Len(t, resp.Days[1].MembersOnLeave, 2)
	assert.Len(t, resp.Days[0].MembersOnLeave, 1)
	assert.Len(t, resp.Days[2].MembersOnLeave, 1)
}

func TestTeamCalendarEmptyTeam(t *testing.T) {
	svc := NewService(&fakeLeaveRepo{}, &fakeResolver{})

	resp, err := svc.TeamCalendar(context.Background(), uuid.NewString(), 2026, 6)
	require.NoError(t, err)
	assert.Empty(t, resp.Days)
	assert.Equal(t, 2026, resp.Year)
	assert.Equal(t, 6, resp.Month)
}

func TestTeamCalendarInvalidMonth(t *testing.T) {
	svc := NewService(&fakeLeaveRepo{}, &fakeResolver{})

	for _, month := range []int{0, 13, -1} {
		_, err := svc.TeamCalendar(context.Background(), uuid.NewString(), 2026, month)
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	}
}
