package leave

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"testing"
	"time"

	"go-lams/internal/leavetype"
	"go-lams/internal/messaging/kafka"
	"go-lams/internal/quota"
	"go-lams/internal/shared/apperror"
	"go-lams/internal/team"
	"go-lams/internal/user"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeLeaveRepo struct {
	requests    map[uuid.UUID]*LeaveRequest
	approvedSum float64
	inserted    []*LeaveRequest
	decisions   []string
	lockKeys    []string
}

func newFakeLeaveRepo() *fakeLeaveRepo {
	return &fakeLeaveRepo{requests: make(map[uuid.UUID]*LeaveRequest)}
}

func (f *fakeLeaveRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeLeaveRepo) AcquireQuotaLock(ctx context.Context, key string) error {
	f.lockKeys = append(f.lockKeys, key)
	return nil
}

func (f *fakeLeaveRepo) SumApprovedDays(ctx context.Context, userID, leaveTypeID string, year int) (float64, error) {
	return f.approvedSum, nil
}

func (f *fakeLeaveRepo) Insert(ctx context.Context, lr *LeaveRequest) error {
	f.inserted = append(f.inserted, lr)
	f.requests[lr.ID] = lr
	return nil
}

func (f *fakeLeaveRepo) FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, sql.ErrNoRows
	}
	lr, ok := f.requests[uid]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return lr, nil
}

func (f *fakeLeaveRepo) UpdateDecision(ctx context.Context, id, status string, approverID uuid.UUID, approvedAt time.Time, rejectionReason *string) error {
	f.decisions = append(f.decisions, status)
	uid, _ := uuid.Parse(id)
	if lr, ok := f.requests[uid]; ok {
		lr.Status = status
		lr.ApproverID = &approverID
		lr.ApprovedAt = &approvedAt
		lr.RejectionReason = rejectionReason
	}
	return nil
}

func (f *fakeLeaveRepo) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	lr, ok := f.requests[uid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return lr, nil
}

func (f *fakeLeaveRepo) List(ctx context.Context, filter ListFilter) ([]LeaveRequest, int64, error) {
	var matched []LeaveRequest
	for _, lr := range f.requests {
		if filter.Status != "" && lr.Status != filter.Status {
			continue
		}
		for _, id := range filter.UserIDs {
			if lr.UserID == id {
				matched = append(matched, *lr)
				break
			}
		}
	}
	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []LeaveRequest{}, total, nil
	}
	end := len(matched)
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	return matched[filter.Offset:end], total, nil
}

func (f *fakeLeaveRepo) FindApprovedByUserTypeYear(ctx context.Context, userID, leaveTypeID string, year int) ([]LeaveRequest, error) {
	var out []LeaveRequest
	for _, lr := range f.requests {
		if lr.Status == StatusApproved && lr.UserID.String() == userID && lr.LeaveTypeID.String() == leaveTypeID && lr.StartDate.Year() == year {
			out = append(out, *lr)
		}
	}
	return out, nil
}

func (f *fakeLeaveRepo) FindApprovedOverlapping(ctx context.Context, userIDs []uuid.UUID, first, last time.Time) ([]LeaveRequest, error) {
	return nil, nil
}

type fakeQuotaRepo struct {
	byYear map[int]*quota.LeaveQuota
}

func (f *fakeQuotaRepo) Get(ctx context.Context, userID, leaveTypeID string, year int) (*quota.LeaveQuota, error) {
	q, ok := f.byYear[year]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return q, nil
}

func (f *fakeQuotaRepo) ListByUserYear(ctx context.Context, userID string, year int) ([]quota.LeaveQuota, error) {
	q, ok := f.byYear[year]
	if !ok {
		return nil, nil
	}
	return []quota.LeaveQuota{*q}, nil
}

type fakeLeaveTypeRepo struct {
	types map[uuid.UUID]*leavetype.LeaveType
}

func (f *fakeLeaveTypeRepo) FindAll(ctx context.Context) ([]leavetype.LeaveType, error) {
	var out []leavetype.LeaveType
	for _, lt := range f.types {
		out = append(out, *lt)
	}
	return out, nil
}

func (f *fakeLeaveTypeRepo) FindByID(ctx context.Context, id string) (*leavetype.LeaveType, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	lt, ok := f.types[uid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return lt, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*user.User
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*user.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	u, ok := f.users[uid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]user.User, error) {
	var out []user.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

type fakeResolver struct {
	managers map[uuid.UUID]uuid.UUID
	members  map[uuid.UUID][]uuid.UUID
}

func (f *fakeResolver) ManagerOf(ctx context.Context, userID string) (*uuid.UUID, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	m, ok := f.managers[uid]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (f *fakeResolver) TeamMemberIDs(ctx context.Context, managerID string) ([]uuid.UUID, error) {
	uid, err := uuid.Parse(managerID)
	if err != nil {
		return nil, err
	}
	return f.members[uid], nil
}

func (f *fakeResolver) IsDirectReport(ctx context.Context, managerID, userID string) (bool, error) {
	target, err := uuid.Parse(userID)
	if err != nil {
		return false, err
	}
	mid, err := uuid.Parse(managerID)
	if err != nil {
		return false, err
	}
	for _, id := range f.members[mid] {
		if id == target {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeResolver) AssignManager(ctx context.Context, userID, managerID string) error {
	return nil
}

var _ team.Resolver = (*fakeResolver)(nil)

type fakeOutbox struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type fixture struct {
	db      *sql.DB
	mock    sqlmock.Sqlmock
	repo    *fakeLeaveRepo
	quotas  *fakeQuotaRepo
	types   *fakeLeaveTypeRepo
	users   *fakeUserRepo
	teams   *fakeResolver
	outbox  *fakeOutbox
	service Service

	requester uuid.UUID
	proxy     uuid.UUID
	manager   uuid.UUID
	leaveType uuid.UUID
}

func newFixture(t *testing.T, quotaDays int) *fixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	requester := uuid.New()
	proxy := uuid.New()
	manager := uuid.New()
	leaveTypeID := uuid.New()

	f := &fixture{
		db:        db,
		mock:      mock,
		repo:      newFakeLeaveRepo(),
		quotas:    &fakeQuotaRepo{byYear: map[int]*quota.LeaveQuota{}},
		types:     &fakeLeaveTypeRepo{types: map[uuid.UUID]*leavetype.LeaveType{}},
		users:     &fakeUserRepo{users: map[uuid.UUID]*user.User{}},
		teams:     &fakeResolver{managers: map[uuid.UUID]uuid.UUID{}, members: map[uuid.UUID][]uuid.UUID{}},
		outbox:    &fakeOutbox{},
		requester: requester,
		proxy:     proxy,
		manager:   manager,
		leaveType: leaveTypeID,
	}

	f.types.types[leaveTypeID] = &leavetype.LeaveType{ID: leaveTypeID, Name: "Annual Leave", ColorCode: "#3366FF"}
	f.users.users[requester] = &user.User{ID: requester, FirstName: "Ana", LastName: "Silva", Email: "ana@example.com"}
	f.users.users[proxy] = &user.User{ID: proxy, FirstName: "Budi", LastName: "Santoso", Email: "budi@example.com"}
	f.users.users[manager] = &user.User{ID: manager, FirstName: "Citra", LastName: "Dewi", Email: "citra@example.com", IsManager: true}
	f.teams.managers[requester] = manager
	f.teams.members[manager] = []uuid.UUID{requester, proxy}

	if quotaDays > 0 {
		f.quotas.byYear[time.Now().Year()] = &quota.LeaveQuota{
			ID:          uuid.New(),
			UserID:      requester,
			LeaveTypeID: leaveTypeID,
			Year:        time.Now().Year(),
			Quota:       quotaDays,
		}
	}

	f.service = NewService(db, f.repo, f.quotas, f.types, f.users, f.teams, f.outbox)
	return f
}

func (f *fixture) createReq(startDay, endDay int) CreateLeaveRequest {
	year := time.Now().Year()
	return CreateLeaveRequest{
		LeaveTypeID: f.leaveType.String(),
		ProxyUserID: f.proxy.String(),
		StartDate:   fmt.Sprintf("%d-06-%02d", year, startDay),
		EndDate:     fmt.Sprintf("%d-06-%02d", year, endDay),
		Reason:      "family matters",
	}
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

func TestCreateLeaveRequest(t *testing.T) {
	f := newFixture(t, 10)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.service.Create(context.Background(), f.requester.String(), f.createReq(1, 3))
	require.NoError(t, err)

	assert.Equal(t, StatusPending, resp.Status)
	assert.Equal(t, 3.0, resp.DaysCount)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{16}$`), resp.RequestCode)

	require.Len(t, f.outbox.created, 1)
	assert.Equal(t, "leave.requested", f.outbox.created[0].EventType)
	require.Len(t, f.repo.lockKeys, 1)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateLeaveRequestHalfDays(t *testing.T) {
	f := newFixture(t, 10)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	req := f.createReq(1, 2)
	req.StartHalfDay = true
	req.EndHalfDay = true

	resp, err := f.service.Create(context.Background(), f.requester.String(), req)
	require.NoError(t, err)
	assert.Equal(t, 1.0, resp.DaysCount)
}

func TestCreateLeaveRequestSingleDayBothHalves(t *testing.T) {
	f := newFixture(t, 10)

	req := f.createReq(1, 1)
	req.StartHalfDay = true
	req.EndHalfDay = true

	_, err := f.service.Create(context.Background(), f.requester.String(), req)
	assert.Equal(t, apperror.CodeInvalidDateRange, appCode(t, err))
}

func TestCreateLeaveRequestEndBeforeStart(t *testing.T) {
	f := newFixture(t, 10)

	_, err := f.service.Create(context.Background(), f.requester.String(), f.createReq(5, 3))
	assert.Equal(t, apperror.CodeInvalidDateRange, appCode(t, err))
	assert.Empty(t, f.repo.inserted)
}

func TestCreateLeaveRequestBadDateFormat(t *testing.T) {
	f := newFixture(t, 10)

	req := f.createReq(1, 3)
	req.StartDate = "06/01/2026"

	_, err := f.service.Create(context.Background(), f.requester.String(), req)
	assert.Equal(t, apperror.CodeInvalidInput, appCode(t, err))
}

func TestCreateLeaveRequestUnknownLeaveType(t *testing.T) {
	f := newFixture(t, 10)

	req := f.createReq(1, 3)
	req.LeaveTypeID = uuid.NewString()

	_, err := f.service.Create(context.Background(), f.requester.String(), req)
	assert.Equal(t, apperror.CodeInvalidReference, appCode(t, err))
}

func TestCreateLeaveRequestUnknownProxy(t *testing.T) {
	f := newFixture(t, 10)

	req := f.createReq(1, 3)
	req.ProxyUserID = uuid.NewString()

	_, err := f.service.Create(context.Background(), f.requester.String(), req)
	assert.Equal(t, apperror.CodeInvalidReference, appCode(t, err))
}

func TestCreateLeaveRequestNoQuota(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.service.Create(context.Background(), f.requester.String(), f.createReq(1, 3))
	assert.Equal(t, apperror.CodeNoQuota, appCode(t, err))
}

func TestCreateLeaveRequestInsufficientBalance(t *testing.T) {
	f := newFixture(t, 10)
	f.repo.approvedSum = 8
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.service.Create(context.Background(), f.requester.String(), f.createReq(1, 3))
	assert.Equal(t, apperror.CodeInsufficientBalance, appCode(t, err))
	assert.Empty(t, f.repo.inserted)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateLeaveRequestExactBalance(t *testing.T) {
	f := newFixture(t, 10)
	f.repo.approvedSum = 7
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.service.Create(context.Background(), f.requester.String(), f.createReq(1, 3))
	require.NoError(t, err)
	assert.Equal(t, 3.0, resp.DaysCount)
}

func TestCreateLeaveRequestWithoutManagerSkipsEvent(t *testing.T) {
	f := newFixture(t, 10)
	delete(f.teams.managers, f.requester)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	_, err := f.service.Create(context.Background(), f.requester.String(), f.createReq(1, 3))
	require.NoError(t, err)
	assert.Empty(t, f.outbox.created)
}

func (f *fixture) seedPending(t *testing.T, days float64) *LeaveRequest {
	t.Helper()
	year := time.Now().Year()
	lr := &LeaveRequest{
		ID:          uuid.New(),
		RequestCode: "A1B2C3D4E5F60718",
		UserID:      f.requester,
		LeaveTypeID: f.leaveType,
		ProxyUserID: f.proxy,
		StartDate:   time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(days)-1),
		DaysCount:   days,
		Status:      StatusPending,
	}
	f.repo.requests[lr.ID] = lr
	return lr
}

func TestApproveLeaveRequest(t *testing.T) {
	f := newFixture(t, 10)
	lr := f.seedPending(t, 3)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.service.Approve(context.Background(), f.manager.String(), lr.ID.String())
	require.NoError(t, err)

	assert.Equal(t, StatusApproved, resp.Status)
	require.Len(t, f.repo.decisions, 1)
	assert.Equal(t, StatusApproved, f.repo.decisions[0])

	require.Len(t, f.outbox.created, 1)
	assert.Equal(t, "leave.decided", f.outbox.created[0].EventType)
}

func TestRejectLeaveRequest(t *testing.T) {
	f := newFixture(t, 10)
	lr := f.seedPending(t, 3)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.service.Reject(context.Background(), f.manager.String(), lr.ID.String(), "coverage gap")
	require.NoError(t, err)

	assert.Equal(t, StatusRejected, resp.Status)
	require.NotNil(t, resp.RejectionReason)
	assert.Equal(t, "coverage gap", *resp.RejectionReason)
}

func TestApproveAlreadyDecided(t *testing.T) {
	f := newFixture(t, 10)
	lr := f.seedPending(t, 3)
	lr.Status = StatusApproved
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.service.Approve(context.Background(), f.manager.String(), lr.ID.String())
	assert.Equal(t, apperror.CodeInvalidState, appCode(t, err))
	assert.Empty(t, f.repo.decisions)
}

func TestApproveByNonManager(t *testing.T) {
	f := newFixture(t, 10)
	lr := f.seedPending(t, 3)

	_, err := f.service.Approve(context.Background(), f.proxy.String(), lr.ID.String())
	assert.Equal(t, apperror.CodeForbidden, appCode(t, err))
}

func TestApproveByUnrelatedManager(t *testing.T) {
	f := newFixture(t, 10)
	lr := f.seedPending(t, 3)

	other := uuid.New()
	f.users.users[other] = &user.User{ID: other, FirstName: "Dian", LastName: "Putri", IsManager: true}
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.service.Approve(context.Background(), other.String(), lr.ID.String())
	assert.Equal(t, apperror.CodeForbidden, appCode(t, err))
	assert.Empty(t, f.repo.decisions)
}

func TestApproveUnknownRequest(t *testing.T) {
	f := newFixture(t, 10)
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.service.Approve(context.Background(), f.manager.String(), uuid.NewString())
	assert.Equal(t, apperror.CodeNotFound, appCode(t, err))
}

func TestApproveRechecksBalance(t *testing.T) {
	f := newFixture(t, 10)
	lr := f.seedPending(t, 3)
	f.repo.approvedSum = 8
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.service.Approve(context.Background(), f.manager.String(), lr.ID.String())
	assert.Equal(t, apperror.CodeInsufficientBalance, appCode(t, err))
	assert.Equal(t, StatusPending, lr.Status)
}

func TestListForUserInvalidStatusFilter(t *testing.T) {
	f := newFixture(t, 10)

	_, _, err := f.service.ListForUser(context.Background(), f.requester.String(), ListQuery{Status: "cancelled"})
	assert.Equal(t, apperror.CodeInvalidInput, appCode(t, err))
}

func TestListForUserPageBeyondRange(t *testing.T) {
	f := newFixture(t, 10)
	f.seedPending(t, 1)
	f.seedPending(t, 2)
	f.seedPending(t, 3)

	items, total, err := f.service.ListForUser(context.Background(), f.requester.String(), ListQuery{Page: 4, PerPage: 10})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, int64(3), total)
}

func TestListForTeamOutsideTeam(t *testing.T) {
	f := newFixture(t, 10)

	_, _, err := f.service.ListForTeam(context.Background(), f.manager.String(), TeamListQuery{
		UserID: uuid.NewString(),
	})
	assert.Equal(t, apperror.CodeForbidden, appCode(t, err))
}

func TestListForTeamEmptyTeam(t *testing.T) {
	f := newFixture(t, 10)
	f.teams.members[f.manager] = nil

	items, total, err := f.service.ListForTeam(context.Background(), f.manager.String(), TeamListQuery{})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
}

func TestBalances(t *testing.T) {
	f := newFixture(t, 10)
	year := time.Now().Year()

	approved := f.seedPending(t, 4)
	approved.Status = StatusApproved
	second := &LeaveRequest{
		ID:          uuid.New(),
		RequestCode: "00FFAA1122334455",
		UserID:      f.requester,
		LeaveTypeID: f.leaveType,
		ProxyUserID: f.proxy,
		StartDate:   time.Date(year, 8, 10, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(year, 8, 11, 0, 0, 0, 0, time.UTC),
		DaysCount:   2,
		Status:      StatusApproved,
	}
	f.repo.requests[second.ID] = second

	resp, err := f.service.Balances(context.Background(), f.requester.String(), 0)
	require.NoError(t, err)

	assert.Equal(t, year, resp.Year)
	require.Len(t, resp.Balances, 1)
	b := resp.Balances[0]
	assert.Equal(t, 10.0, b.Quota)
	assert.Equal(t, 6.0, b.UsedDays)
	assert.Equal(t, 4.0, b.RemainingDays)
	assert.Len(t, b.LeaveRequests, 2)
}

func TestBalancesForUserOutsideTeam(t *testing.T) {
	f := newFixture(t, 10)

	_, err := f.service.BalancesForUser(context.Background(), f.manager.String(), uuid.NewString(), 0)
	assert.Equal(t, apperror.CodeForbidden, appCode(t, err))
}

func TestGetByIDVisibility(t *testing.T) {
	f := newFixture(t, 10)
	lr := f.seedPending(t, 3)

	// Owner sees the request.
	resp, err := f.service.GetByID(context.Background(), f.requester.String(), lr.ID.String())
	require.NoError(t, err)
	assert.Equal(t, lr.RequestCode, resp.RequestCode)

	// Direct manager sees the request.
	_, err = f.service.GetByID(context.Background(), f.manager.String(), lr.ID.String())
	require.NoError(t, err)

	// Anyone else does not.
	stranger := uuid.New()
	f.users.users[stranger] = &user.User{ID: stranger}
	_, err = f.service.GetByID(context.Background(), stranger.String(), lr.ID.String())
	assert.Equal(t, apperror.CodeForbidden, appCode(t, err))
}

func TestDaysCount(t *testing.T) {
	start := time.Date(2026, 5, 30, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 4.0, daysCount(start, end, false, false))
	assert.Equal(t, 3.5, daysCount(start, end, true, false))
	assert.Equal(t, 3.0, daysCount(start, end, true, true))
	assert.Equal(t, 1.0, daysCount(start, start, false, false))
	assert.Equal(t, 0.5, daysCount(start, start, true, false))
}
