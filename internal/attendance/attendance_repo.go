package attendance

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, rec *AttendanceRecord) error
	Update(ctx context.Context, rec *AttendanceRecord) error
	FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*AttendanceRecord, error)
	ListByUser(ctx context.Context, userID string, from, to time.Time, offset, limit int) ([]AttendanceRecord, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rec *AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) Update(ctx context.Context, rec *AttendanceRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *repository) FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("work_date = ?", date).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string, from, to time.Time, offset, limit int) ([]AttendanceRecord, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&AttendanceRecord{}).
		Where("user_id = ?", userID)
	if !from.IsZero() {
		query = query.Where("work_date >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("work_date <= ?", to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []AttendanceRecord
	err := query.
		Order("work_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
