package notification

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index:idx_notifications_user_read"`
	Title     string     `gorm:"column:title;type:varchar(200)"`
	Message   string     `gorm:"column:message;type:text"`
	RelatedTo string     `gorm:"column:related_to;type:varchar(50)"`
	RelatedID *uuid.UUID `gorm:"column:related_id;type:uuid"`
	IsRead    bool       `gorm:"column:is_read;not null;default:false;index:idx_notifications_user_read"`
	CreatedAt time.Time  `gorm:"column:created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
