package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent = "present"
	StatusLate    = "late"
)

type AttendanceRecord struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_user_day" json:"user_id"`
	WorkDate   time.Time  `gorm:"type:date;not null;uniqueIndex:uq_attendance_user_day" json:"work_date"`
	ClockInAt  time.Time  `gorm:"not null" json:"clock_in_at"`
	ClockOutAt *time.Time `json:"clock_out_at"`
	Status     string     `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}
