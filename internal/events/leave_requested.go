package events

import "time"

const LeaveRequestedTopic = "lams.leave.requested.v1"

// LeaveRequestedEvent notifies the requester's manager that a request awaits
// their decision. RecipientID is the resolved manager.
type LeaveRequestedEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id"`
	RequestCode   string    `json:"request_code"`
	RecipientID   string    `json:"recipient_id"`
	RequesterID   string    `json:"requester_id"`
	RequesterName string    `json:"requester_name"`
	LeaveTypeName string    `json:"leave_type_name"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	DaysCount     float64   `json:"days_count"`
	OccurredAt    time.Time `json:"occurred_at"`
}
