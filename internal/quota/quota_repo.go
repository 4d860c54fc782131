package quota

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Get(ctx context.Context, userID, leaveTypeID string, year int) (*LeaveQuota, error)
	ListByUserYear(ctx context.Context, userID string, year int) ([]LeaveQuota, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, userID, leaveTypeID string, year int) (*LeaveQuota, error) {
	var q LeaveQuota
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("leave_type_id = ?", leaveTypeID).
		Where("year = ?", year).
		First(&q).Error
	return &q, err
}

func (r *repository) ListByUserYear(ctx context.Context, userID string, year int) ([]LeaveQuota, error) {
	var quotas []LeaveQuota
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("year = ?", year).
		Find(&quotas).Error
	return quotas, err
}
