package events

import "time"

const LeaveDecidedTopic = "lams.leave.decided.v1"

// LeaveDecidedEvent notifies the requester that their request was approved or
// rejected. RecipientID is the requester.
type LeaveDecidedEvent struct {
	EventType       string    `json:"event_type"`
	RequestID       string    `json:"request_id"`
	RequestCode     string    `json:"request_code"`
	RecipientID     string    `json:"recipient_id"`
	ApproverID      string    `json:"approver_id"`
	ApproverName    string    `json:"approver_name"`
	Status          string    `json:"status"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}
