package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-lams/internal/events"
	leaveerrors "go-lams/internal/leave/errors"
	"go-lams/internal/leavetype"
	"go-lams/internal/messaging/kafka"
	"go-lams/internal/quota"
	"go-lams/internal/shared/contextutil"
	"go-lams/internal/team"
	"go-lams/internal/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ListQuery struct {
	Status  string
	From    string
	To      string
	Page    int
	PerPage int
}

type TeamListQuery struct {
	ListQuery
	UserID string
}

type Service interface {
	Create(ctx context.Context, requesterID string, req CreateLeaveRequest) (LeaveRequestResponse, error)
	GetByID(ctx context.Context, callerID, id string) (LeaveRequestResponse, error)
	Approve(ctx context.Context, approverID, id string) (LeaveRequestResponse, error)
	Reject(ctx context.Context, approverID, id, reason string) (LeaveRequestResponse, error)
	ListForUser(ctx context.Context, userID string, q ListQuery) ([]LeaveRequestResponse, int64, error)
	ListForTeam(ctx context.Context, managerID string, q TeamListQuery) ([]LeaveRequestResponse, int64, error)
	Balances(ctx context.Context, userID string, year int) (BalanceResponse, error)
	BalancesForUser(ctx context.Context, managerID, userID string, year int) (BalanceResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	quotas     quota.Repository
	leaveTypes leavetype.Repository
	users      user.Repository
	teams      team.Resolver
	outbox     kafka.OutboxRepository
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	quotas quota.Repository,
	leaveTypes leavetype.Repository,
	users user.Repository,
	teams team.Resolver,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		quotas:     quotas,
		leaveTypes: leaveTypes,
		users:      users,
		teams:      teams,
		outbox:     outbox,
		logger:     l,
	}
}

// daysCount is the inclusive calendar span with a half day discount per flag.
func daysCount(start, end time.Time, startHalf, endHalf bool) float64 {
	base := float64(int(end.Sub(start).Hours()/24) + 1)
	if startHalf {
		base -= 0.5
	}
	if endHalf {
		base -= 0.5
	}
	return base
}

func quotaLockKey(userID, leaveTypeID string, year int) string {
	return fmt.Sprintf("leave_quota:%s:%s:%d", userID, leaveTypeID, year)
}

func (s *service) Create(ctx context.Context, requesterID string, req CreateLeaveRequest) (LeaveRequestResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	start, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	if end.Before(start) {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidDateRange
	}

	days := daysCount(start, end, req.StartHalfDay, req.EndHalfDay)
	if days <= 0 {
		return LeaveRequestResponse{}, leaveerrors.ErrZeroDuration
	}

	leaveType, err := s.leaveTypes.FindByID(ctx, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrLeaveTypeNotFound
		}
		return LeaveRequestResponse{}, err
	}

	requester, err := s.users.FindByID(ctx, requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrRequesterNotFound
		}
		return LeaveRequestResponse{}, err
	}

	proxy, err := s.users.FindByID(ctx, req.ProxyUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrProxyUserNotFound
		}
		return LeaveRequestResponse{}, err
	}

	// Quota is looked up for the calendar year of submission, not of the
	// requested period. A request filed in December for January is checked
	// against the December year's quota.
	quotaYear := time.Now().Year()
	q, err := s.quotas.Get(ctx, requesterID, req.LeaveTypeID, quotaYear)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrNoQuota
		}
		return LeaveRequestResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	repoTx := s.repo.WithTx(tx)

	if err := repoTx.AcquireQuotaLock(ctx, quotaLockKey(requesterID, req.LeaveTypeID, quotaYear)); err != nil {
		return LeaveRequestResponse{}, err
	}

	used, err := repoTx.SumApprovedDays(ctx, requesterID, req.LeaveTypeID, quotaYear)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	remaining := float64(q.Quota) - used
	if days > remaining {
		return LeaveRequestResponse{}, leaveerrors.ErrInsufficientBalance.WithMessage(
			fmt.Sprintf("remaining balance is %.1f days, requested %.1f", remaining, days),
		)
	}

	code, err := newRequestCode()
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	lr := &LeaveRequest{
		ID:           uuid.New(),
		RequestCode:  code,
		UserID:       requester.ID,
		LeaveTypeID:  leaveType.ID,
		ProxyUserID:  proxy.ID,
		StartDate:    start,
		EndDate:      end,
		StartHalfDay: req.StartHalfDay,
		EndHalfDay:   req.EndHalfDay,
		DaysCount:    days,
		Reason:       req.Reason,
		Status:       StatusPending,
	}

	if err := repoTx.Insert(ctx, lr); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return LeaveRequestResponse{}, leaveerrors.ErrRequestCodeConflict
		}
		return LeaveRequestResponse{}, err
	}

	if err := s.enqueueRequested(ctx, tx, lr, requester, leaveType); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveRequestResponse{}, err
	}

	log.Info("leave request created",
		zap.String("request_id", lr.ID.String()),
		zap.String("request_code", lr.RequestCode),
		zap.String("user_id", requesterID),
		zap.Float64("days_count", days),
	)

	full, err := s.repo.FindByID(ctx, lr.ID.String())
	if err != nil {
		// The row is committed; fall back to the in-memory copy.
		log.Warn("reload after create failed", zap.Error(err))
		return MapToResponse(lr), nil
	}
	return MapToResponse(full), nil
}

// enqueueRequested records the manager notification in the outbox inside the
// creation transaction. A requester without a manager is not an error.
func (s *service) enqueueRequested(ctx context.Context, tx *sql.Tx, lr *LeaveRequest, requester *user.User, leaveType *leavetype.LeaveType) error {
	managerID, err := s.teams.ManagerOf(ctx, requester.ID.String())
	if err != nil {
		return err
	}
	if managerID == nil {
		s.logger.Warn("requester has no manager, skipping notification",
			zap.String("user_id", requester.ID.String()),
		)
		return nil
	}

	evt := events.LeaveRequestedEvent{
		EventType:     "leave.requested",
		RequestID:     lr.ID.String(),
		RequestCode:   lr.RequestCode,
		RecipientID:   managerID.String(),
		RequesterID:   requester.ID.String(),
		RequesterName: requester.FullName(),
		LeaveTypeName: leaveType.Name,
		StartDate:     lr.StartDate.Format(dateLayout),
		EndDate:       lr.EndDate.Format(dateLayout),
		DaysCount:     lr.DaysCount,
		OccurredAt:    time.Now().UTC(),
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   lr.ID.String(),
		EventType:     evt.EventType,
		Topic:         events.LeaveRequestedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) GetByID(ctx context.Context, callerID, id string) (LeaveRequestResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrRequestNotFound
	}

	lr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}

	if lr.UserID.String() != callerID {
		ok, err := s.teams.IsDirectReport(ctx, callerID, lr.UserID.String())
		if err != nil {
			return LeaveRequestResponse{}, err
		}
		if !ok {
			return LeaveRequestResponse{}, leaveerrors.ErrNotOwner
		}
	}

	return MapToResponse(lr), nil
}

func (s *service) Approve(ctx context.Context, approverID, id string) (LeaveRequestResponse, error) {
	return s.decide(ctx, approverID, id, StatusApproved, nil)
}

func (s *service) Reject(ctx context.Context, approverID, id, reason string) (LeaveRequestResponse, error) {
	return s.decide(ctx, approverID, id, StatusRejected, &reason)
}

func (s *service) decide(ctx context.Context, approverID, id, status string, rejectionReason *string) (LeaveRequestResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if _, err := uuid.Parse(id); err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrRequestNotFound
	}

	approver, err := s.users.FindByID(ctx, approverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrNotManager
		}
		return LeaveRequestResponse{}, err
	}
	if !approver.IsManager {
		return LeaveRequestResponse{}, leaveerrors.ErrNotManager
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	repoTx := s.repo.WithTx(tx)

	lr, err := repoTx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LeaveRequestResponse{}, leaveerrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}

	if lr.Status != StatusPending {
		return LeaveRequestResponse{}, leaveerrors.ErrAlreadyDecided
	}

	managerID, err := s.teams.ManagerOf(ctx, lr.UserID.String())
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if managerID == nil || managerID.String() != approverID {
		return LeaveRequestResponse{}, leaveerrors.ErrNotRequestersManager
	}

	if status == StatusApproved {
		if err := s.recheckBalance(ctx, repoTx, lr); err != nil {
			return LeaveRequestResponse{}, err
		}
	}

	decidedAt := time.Now().UTC()
	if err := repoTx.UpdateDecision(ctx, id, status, approver.ID, decidedAt, rejectionReason); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := s.enqueueDecided(ctx, tx, lr, approver, status, rejectionReason); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveRequestResponse{}, err
	}

	log.Info("leave request decided",
		zap.String("request_id", id),
		zap.String("status", status),
		zap.String("approver_id", approverID),
	)

	full, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	return MapToResponse(full), nil
}

// recheckBalance guards against two pending requests that each passed the
// creation check being approved together. The quota year follows the request's
// start date; a missing quota row for that year only logs, since the request
// was admitted under the submission year's quota.
func (s *service) recheckBalance(ctx context.Context, repoTx Repository, lr *LeaveRequest) error {
	year := lr.StartDate.Year()
	userID := lr.UserID.String()
	leaveTypeID := lr.LeaveTypeID.String()

	q, err := s.quotas.Get(ctx, userID, leaveTypeID, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("no quota for start year, approving without recheck",
				zap.String("request_id", lr.ID.String()),
				zap.Int("year", year),
			)
			return nil
		}
		return err
	}

	if err := repoTx.AcquireQuotaLock(ctx, quotaLockKey(userID, leaveTypeID, year)); err != nil {
		return err
	}
	used, err := repoTx.SumApprovedDays(ctx, userID, leaveTypeID, year)
	if err != nil {
		return err
	}

	remaining := float64(q.Quota) - used
	if lr.DaysCount > remaining {
		return leaveerrors.ErrInsufficientBalance.WithMessage(
			fmt.Sprintf("approving would exceed the balance, remaining %.1f days", remaining),
		)
	}
	return nil
}

func (s *service) enqueueDecided(ctx context.Context, tx *sql.Tx, lr *LeaveRequest, approver *user.User, status string, rejectionReason *string) error {
	evt := events.LeaveDecidedEvent{
		EventType:    "leave.decided",
		RequestID:    lr.ID.String(),
		RequestCode:  lr.RequestCode,
		RecipientID:  lr.UserID.String(),
		ApproverID:   approver.ID.String(),
		ApproverName: approver.FullName(),
		Status:       status,
		OccurredAt:   time.Now().UTC(),
	}
	if rejectionReason != nil {
		evt.RejectionReason = *rejectionReason
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   lr.ID.String(),
		EventType:     evt.EventType,
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func normalizeQuery(q *ListQuery) (ListFilter, error) {
	if q.Status != "" && !ValidStatus(q.Status) {
		return ListFilter{}, leaveerrors.ErrInvalidStatusFilter
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 10
	}
	if q.PerPage > 100 {
		q.PerPage = 100
	}

	filter := ListFilter{
		Status: q.Status,
		Offset: (q.Page - 1) * q.PerPage,
		Limit:  q.PerPage,
	}
	var err error
	if q.From != "" {
		if filter.StartFrom, err = parseDate(q.From); err != nil {
			return ListFilter{}, leaveerrors.ErrInvalidDateFormat
		}
	}
	if q.To != "" {
		if filter.EndTo, err = parseDate(q.To); err != nil {
			return ListFilter{}, leaveerrors.ErrInvalidDateFormat
		}
	}
	return filter, nil
}

func (s *service) ListForUser(ctx context.Context, userID string, q ListQuery) ([]LeaveRequestResponse, int64, error) {
	filter, err := normalizeQuery(&q)
	if err != nil {
		return nil, 0, err
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, leaveerrors.ErrRequesterNotFound
	}
	filter.UserIDs = []uuid.UUID{uid}

	requests, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return mapAll(requests), total, nil
}

func (s *service) ListForTeam(ctx context.Context, managerID string, q TeamListQuery) ([]LeaveRequestResponse, int64, error) {
	filter, err := normalizeQuery(&q.ListQuery)
	if err != nil {
		return nil, 0, err
	}

	memberIDs, err := s.teams.TeamMemberIDs(ctx, managerID)
	if err != nil {
		return nil, 0, err
	}
	if len(memberIDs) == 0 {
		return []LeaveRequestResponse{}, 0, nil
	}

	if q.UserID != "" {
		target, err := uuid.Parse(q.UserID)
		if err != nil {
			return nil, 0, leaveerrors.ErrOutsideTeam
		}
		found := false
		for _, id := range memberIDs {
			if id == target {
				found = true
				break
			}
		}
		if !found {
			return nil, 0, leaveerrors.ErrOutsideTeam
		}
		memberIDs = []uuid.UUID{target}
	}
	filter.UserIDs = memberIDs

	requests, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return mapAll(requests), total, nil
}

func mapAll(requests []LeaveRequest) []LeaveRequestResponse {
	out := make([]LeaveRequestResponse, 0, len(requests))
	for i := range requests {
		out = append(out, MapToResponse(&requests[i]))
	}
	return out
}

func (s *service) Balances(ctx context.Context, userID string, year int) (BalanceResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return BalanceResponse{}, leaveerrors.ErrRequesterNotFound
	}
	if year == 0 {
		year = time.Now().Year()
	}

	quotas, err := s.quotas.ListByUserYear(ctx, userID, year)
	if err != nil {
		return BalanceResponse{}, err
	}

	balances := make([]TypeBalance, 0, len(quotas))
	for _, q := range quotas {
		lt, err := s.leaveTypes.FindByID(ctx, q.LeaveTypeID.String())
		if err != nil {
			return BalanceResponse{}, err
		}

		approved, err := s.repo.FindApprovedByUserTypeYear(ctx, userID, q.LeaveTypeID.String(), year)
		if err != nil {
			return BalanceResponse{}, err
		}

		used := 0.0
		summaries := make([]LeaveRequestSummary, 0, len(approved))
		for i := range approved {
			used += approved[i].DaysCount
			summaries = append(summaries, mapToSummary(&approved[i]))
		}

		balances = append(balances, TypeBalance{
			LeaveType: LeaveTypeBrief{
				ID:        lt.ID,
				Name:      lt.Name,
				ColorCode: lt.ColorCode,
			},
			Quota:         float64(q.Quota),
			UsedDays:      used,
			RemainingDays: float64(q.Quota) - used,
			LeaveRequests: summaries,
		})
	}

	return BalanceResponse{UserID: uid, Year: year, Balances: balances}, nil
}

func (s *service) BalancesForUser(ctx context.Context, managerID, userID string, year int) (BalanceResponse, error) {
	ok, err := s.teams.IsDirectReport(ctx, managerID, userID)
	if err != nil {
		return BalanceResponse{}, err
	}
	if !ok {
		return BalanceResponse{}, leaveerrors.ErrOutsideTeam
	}
	return s.Balances(ctx, userID, year)
}
