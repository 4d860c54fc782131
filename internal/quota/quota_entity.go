package quota

import (
	"time"

	"github.com/google/uuid"
)

// LeaveQuota is the yearly entitlement for one (user, leave type) pair.
// Provisioned by HR ahead of the year; the core only reads it. Usage is never
// stored here — it is derived from approved requests at read time.
type LeaveQuota struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_user_leave_year"`
	LeaveTypeID uuid.UUID `gorm:"column:leave_type_id;type:uuid;not null;uniqueIndex:uq_user_leave_year"`
	Year        int       `gorm:"column:year;not null;uniqueIndex:uq_user_leave_year"`
	Quota       int       `gorm:"column:quota;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (LeaveQuota) TableName() string {
	return "leave_quotas"
}
