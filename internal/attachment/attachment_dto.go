package attachment

import (
	"time"

	"github.com/google/uuid"
)

type AttachmentResponse struct {
	ID             uuid.UUID `json:"id"`
	LeaveRequestID uuid.UUID `json:"leave_request_id"`
	FileName       string    `json:"file_name"`
	FileSize       int64     `json:"file_size"`
	ContentType    string    `json:"content_type"`
	CreatedAt      time.Time `json:"created_at"`
}

func MapToResponse(a *Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:             a.ID,
		LeaveRequestID: a.LeaveRequestID,
		FileName:       a.FileName,
		FileSize:       a.FileSize,
		ContentType:    a.ContentType,
		CreatedAt:      a.CreatedAt,
	}
}
