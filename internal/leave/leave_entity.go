package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ValidStatus reports whether s is one of the lifecycle statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type LeaveRequest struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RequestCode     string     `gorm:"type:char(16);uniqueIndex;not null" json:"request_code"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	LeaveTypeID     uuid.UUID  `gorm:"type:uuid;not null" json:"leave_type_id"`
	ProxyUserID     uuid.UUID  `gorm:"type:uuid;not null" json:"proxy_user_id"`
	StartDate       time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate         time.Time  `gorm:"type:date;not null" json:"end_date"`
	StartHalfDay    bool       `gorm:"not null;default:false" json:"start_half_day"`
	EndHalfDay      bool       `gorm:"not null;default:false" json:"end_half_day"`
	DaysCount       float64    `gorm:"type:decimal(5,1);not null" json:"days_count"`
	Reason          string     `gorm:"type:text" json:"reason"`
	Status          string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ApproverID      *uuid.UUID `gorm:"type:uuid" json:"approver_id"`
	ApprovedAt      *time.Time `json:"approved_at"`
	RejectionReason *string    `gorm:"type:text" json:"rejection_reason"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	User      *UserRef      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ProxyUser *UserRef      `gorm:"foreignKey:ProxyUserID" json:"proxy_user,omitempty"`
	Approver  *UserRef      `gorm:"foreignKey:ApproverID" json:"approver,omitempty"`
	LeaveType *LeaveTypeRef `gorm:"foreignKey:LeaveTypeID" json:"leave_type,omitempty"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

type UserRef struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
}

func (UserRef) TableName() string {
	return "users"
}

type LeaveTypeRef struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `json:"name"`
	ColorCode string    `json:"color_code"`
}

func (LeaveTypeRef) TableName() string {
	return "leave_types"
}
