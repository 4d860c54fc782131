package team

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	FindManagerOf(ctx context.Context, userID string) (uuid.UUID, error)
	FindTeamMemberIDs(ctx context.Context, managerID string) ([]uuid.UUID, error)
	Upsert(ctx context.Context, rel *ManagerRelation) error
	UserExists(ctx context.Context, id string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindManagerOf(ctx context.Context, userID string) (uuid.UUID, error) {
	var rel ManagerRelation
	err := r.db.WithContext(ctx).
		First(&rel, "user_id = ?", userID).Error
	if err != nil {
		return uuid.Nil, err
	}
	return rel.ManagerID, nil
}

func (r *repository) FindTeamMemberIDs(ctx context.Context, managerID string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&ManagerRelation{}).
		Where("manager_id = ?", managerID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *repository) Upsert(ctx context.Context, rel *ManagerRelation) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"manager_id", "updated_at"}),
		}).
		Create(rel).Error
}

func (r *repository) UserExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&UserRef{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}
