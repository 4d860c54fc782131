package attendance

import (
	"time"

	"github.com/google/uuid"
)

type AttendanceResponse struct {
	ID         uuid.UUID  `json:"id"`
	WorkDate   string     `json:"work_date"`
	ClockInAt  time.Time  `json:"clock_in_at"`
	ClockOutAt *time.Time `json:"clock_out_at,omitempty"`
	Status     string     `json:"status"`
}

func MapToResponse(rec *AttendanceRecord) AttendanceResponse {
	return AttendanceResponse{
		ID:         rec.ID,
		WorkDate:   rec.WorkDate.Format("2006-01-02"),
		ClockInAt:  rec.ClockInAt,
		ClockOutAt: rec.ClockOutAt,
		Status:     rec.Status,
	}
}
