package attachment

import (
	"time"

	"github.com/google/uuid"
)

type Attachment struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	LeaveRequestID uuid.UUID `gorm:"type:uuid;not null;index" json:"leave_request_id"`
	FileName       string    `gorm:"type:varchar(255);not null" json:"file_name"`
	StorageKey     string    `gorm:"type:varchar(512);not null" json:"-"`
	FileSize       int64     `gorm:"not null" json:"file_size"`
	ContentType    string    `gorm:"type:varchar(100)" json:"content_type"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Attachment) TableName() string {
	return "leave_attachments"
}
