package leavetype

import (
	"time"

	"github.com/google/uuid"
)

// LeaveType is static reference data ("Annual", "Sick", ...). Provisioned by
// migrations or seed data, read everywhere.
type LeaveType struct {
	ID                 uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name               string    `gorm:"column:name;type:varchar(50);not null;uniqueIndex:uq_leave_types_name"`
	ColorCode          string    `gorm:"column:color_code;type:varchar(7)"`
	RequiresAttachment bool      `gorm:"column:requires_attachment;not null;default:false"`
	CreatedAt          time.Time `gorm:"column:created_at"`
}

func (LeaveType) TableName() string {
	return "leave_types"
}
