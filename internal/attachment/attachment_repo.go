package attachment

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, a *Attachment) error
	FindByID(ctx context.Context, id string) (*Attachment, error)
	FindByRequest(ctx context.Context, leaveRequestID string) ([]Attachment, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Attachment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Attachment, error) {
	var a Attachment
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) FindByRequest(ctx context.Context, leaveRequestID string) ([]Attachment, error) {
	var attachments []Attachment
	err := r.db.WithContext(ctx).
		Where("leave_request_id = ?", leaveRequestID).
		Order("created_at ASC").
		Find(&attachments).Error
	return attachments, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Attachment{}, "id = ?", id).Error
}
