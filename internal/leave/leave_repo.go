package leave

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListFilter struct {
	UserIDs   []uuid.UUID
	Status    string
	StartFrom time.Time
	EndTo     time.Time
	Offset    int
	Limit     int
}

type Repository interface {
	// WithTx binds the write path of the repository to an open transaction.
	WithTx(tx *sql.Tx) Repository

	AcquireQuotaLock(ctx context.Context, key string) error
	SumApprovedDays(ctx context.Context, userID, leaveTypeID string, year int) (float64, error)
	Insert(ctx context.Context, lr *LeaveRequest) error
	FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error)
	UpdateDecision(ctx context.Context, id, status string, approverID uuid.UUID, approvedAt time.Time, rejectionReason *string) error

	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	List(ctx context.Context, filter ListFilter) ([]LeaveRequest, int64, error)
	FindApprovedByUserTypeYear(ctx context.Context, userID, leaveTypeID string, year int) ([]LeaveRequest, error)
	FindApprovedOverlapping(ctx context.Context, userIDs []uuid.UUID, first, last time.Time) ([]LeaveRequest, error)
}

type repository struct {
	gdb   *gorm.DB
	sqlDB *sql.DB
	tx    *sql.Tx
}

func NewRepository(gdb *gorm.DB, sqlDB *sql.DB) Repository {
	return &repository{gdb: gdb, sqlDB: sqlDB}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{gdb: r.gdb, sqlDB: r.sqlDB, tx: tx}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (r *repository) execer() execer {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}

// AcquireQuotaLock serializes concurrent writers against the same quota row.
// The lock is released automatically when the transaction ends.
func (r *repository) AcquireQuotaLock(ctx context.Context, key string) error {
	_, err := r.execer().ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key)
	return err
}

func (r *repository) SumApprovedDays(ctx context.Context, userID, leaveTypeID string, year int) (float64, error) {
	var sum float64
	err := r.execer().QueryRowContext(ctx, `
		SELECT COALESCE(SUM(days_count), 0)
		FROM leave_requests
		WHERE user_id = $1
		  AND leave_type_id = $2
		  AND status = 'approved'
		  AND EXTRACT(YEAR FROM start_date) = $3`,
		userID, leaveTypeID, year,
	).Scan(&sum)
	return sum, err
}

func (r *repository) Insert(ctx context.Context, lr *LeaveRequest) error {
	now := time.Now().UTC()
	lr.CreatedAt = now
	lr.UpdatedAt = now
	_, err := r.execer().ExecContext(ctx, `
		INSERT INTO leave_requests (
			id, request_code, user_id, leave_type_id, proxy_user_id,
			start_date, end_date, start_half_day, end_half_day,
			days_count, reason, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		lr.ID, lr.RequestCode, lr.UserID, lr.LeaveTypeID, lr.ProxyUserID,
		lr.StartDate, lr.EndDate, lr.StartHalfDay, lr.EndHalfDay,
		lr.DaysCount, lr.Reason, lr.Status, lr.CreatedAt, lr.UpdatedAt,
	)
	return err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := r.execer().QueryRowContext(ctx, `
		SELECT id, request_code, user_id, leave_type_id, proxy_user_id,
		       start_date, end_date, start_half_day, end_half_day,
		       days_count, reason, status, approver_id, approved_at,
		       rejection_reason, created_at, updated_at
		FROM leave_requests
		WHERE id = $1
		FOR UPDATE`,
		id,
	).Scan(
		&lr.ID, &lr.RequestCode, &lr.UserID, &lr.LeaveTypeID, &lr.ProxyUserID,
		&lr.StartDate, &lr.EndDate, &lr.StartHalfDay, &lr.EndHalfDay,
		&lr.DaysCount, &lr.Reason, &lr.Status, &lr.ApproverID, &lr.ApprovedAt,
		&lr.RejectionReason, &lr.CreatedAt, &lr.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lr, nil
}

func (r *repository) UpdateDecision(ctx context.Context, id, status string, approverID uuid.UUID, approvedAt time.Time, rejectionReason *string) error {
	_, err := r.execer().ExecContext(ctx, `
		UPDATE leave_requests
		SET status = $1, approver_id = $2, approved_at = $3,
		    rejection_reason = $4, updated_at = $5
		WHERE id = $6`,
		status, approverID, approvedAt, rejectionReason, time.Now().UTC(), id,
	)
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := r.gdb.WithContext(ctx).
		Preload("User").
		Preload("ProxyUser").
		Preload("Approver").
		Preload("LeaveType").
		First(&lr, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lr, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]LeaveRequest, int64, error) {
	query := r.gdb.WithContext(ctx).Model(&LeaveRequest{})
	if len(filter.UserIDs) > 0 {
		query = query.Where("user_id IN ?", filter.UserIDs)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if !filter.StartFrom.IsZero() {
		query = query.Where("start_date >= ?", filter.StartFrom)
	}
	if !filter.EndTo.IsZero() {
		query = query.Where("end_date <= ?", filter.EndTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []LeaveRequest
	err := query.
		Preload("User").
		Preload("ProxyUser").
		Preload("Approver").
		Preload("LeaveType").
		Order("start_date DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (r *repository) FindApprovedByUserTypeYear(ctx context.Context, userID, leaveTypeID string, year int) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.gdb.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("leave_type_id = ?", leaveTypeID).
		Where("status = ?", StatusApproved).
		Where("EXTRACT(YEAR FROM start_date) = ?", year).
		Order("start_date ASC").
		Find(&requests).Error
	return requests, err
}

// FindApprovedOverlapping returns approved requests whose period intersects
// [first, last], including requests that start before the window.
func (r *repository) FindApprovedOverlapping(ctx context.Context, userIDs []uuid.UUID, first, last time.Time) ([]LeaveRequest, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var requests []LeaveRequest
	err := r.gdb.WithContext(ctx).
		Preload("User").
		Preload("LeaveType").
		Where("user_id IN ?", userIDs).
		Where("status = ?", StatusApproved).
		Where("start_date <= ?", last).
		Where("end_date >= ?", first).
		Order("start_date ASC").
		Find(&requests).Error
	return requests, err
}
