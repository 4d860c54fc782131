package team

import (
	"time"

	"github.com/google/uuid"
)

// ManagerRelation is a directed edge from a subordinate to their direct
// manager. A user has at most one direct manager.
type ManagerRelation struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_managers_user"`
	ManagerID uuid.UUID `gorm:"column:manager_id;type:uuid;not null;index:idx_managers_manager"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (ManagerRelation) TableName() string {
	return "managers"
}

// UserRef exists only for the existence checks Assign needs; the full user
// model lives in the user package.
type UserRef struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (UserRef) TableName() string {
	return "users"
}
