package leave

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type CreateLeaveRequest struct {
	LeaveTypeID  string `json:"leave_type_id" binding:"required,uuid"`
	ProxyUserID  string `json:"proxy_user_id" binding:"required,uuid"`
	StartDate    string `json:"start_date" binding:"required"`
	EndDate      string `json:"end_date" binding:"required"`
	StartHalfDay bool   `json:"start_half_day"`
	EndHalfDay   bool   `json:"end_half_day"`
	Reason       string `json:"reason" binding:"max=2000"`
}

type RejectLeaveRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required,max=2000"`
}

type UserBrief struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

type LeaveTypeBrief struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ColorCode string    `json:"color_code"`
}

type LeaveRequestResponse struct {
	ID              uuid.UUID       `json:"id"`
	RequestCode     string          `json:"request_code"`
	User            *UserBrief      `json:"user,omitempty"`
	LeaveType       *LeaveTypeBrief `json:"leave_type,omitempty"`
	ProxyUser       *UserBrief      `json:"proxy_user,omitempty"`
	Approver        *UserBrief      `json:"approver,omitempty"`
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
	StartHalfDay    bool            `json:"start_half_day"`
	EndHalfDay      bool            `json:"end_half_day"`
	DaysCount       float64         `json:"days_count"`
	Reason          string          `json:"reason"`
	Status          string          `json:"status"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	RejectionReason *string         `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

func userBrief(ref *UserRef) *UserBrief {
	if ref == nil {
		return nil
	}
	return &UserBrief{ID: ref.ID, FirstName: ref.FirstName, LastName: ref.LastName}
}

func leaveTypeBrief(ref *LeaveTypeRef) *LeaveTypeBrief {
	if ref == nil {
		return nil
	}
	return &LeaveTypeBrief{ID: ref.ID, Name: ref.Name, ColorCode: ref.ColorCode}
}

func MapToResponse(lr *LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:              lr.ID,
		RequestCode:     lr.RequestCode,
		User:            userBrief(lr.User),
		LeaveType:       leaveTypeBrief(lr.LeaveType),
		ProxyUser:       userBrief(lr.ProxyUser),
		Approver:        userBrief(lr.Approver),
		StartDate:       lr.StartDate.Format(dateLayout),
		EndDate:         lr.EndDate.Format(dateLayout),
		StartHalfDay:    lr.StartHalfDay,
		EndHalfDay:      lr.EndHalfDay,
		DaysCount:       lr.DaysCount,
		Reason:          lr.Reason,
		Status:          lr.Status,
		ApprovedAt:      lr.ApprovedAt,
		RejectionReason: lr.RejectionReason,
		CreatedAt:       lr.CreatedAt,
	}
}

type LeaveRequestSummary struct {
	ID          uuid.UUID `json:"id"`
	RequestCode string    `json:"request_code"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	DaysCount   float64   `json:"days_count"`
	Status      string    `json:"status"`
}

func mapToSummary(lr *LeaveRequest) LeaveRequestSummary {
	return LeaveRequestSummary{
		ID:          lr.ID,
		RequestCode: lr.RequestCode,
		StartDate:   lr.StartDate.Format(dateLayout),
		EndDate:     lr.EndDate.Format(dateLayout),
		DaysCount:   lr.DaysCount,
		Status:      lr.Status,
	}
}

type TypeBalance struct {
	LeaveType     LeaveTypeBrief        `json:"leave_type"`
	Quota         float64               `json:"quota"`
	UsedDays      float64               `json:"used_days"`
	RemainingDays float64               `json:"remaining_days"`
	LeaveRequests []LeaveRequestSummary `json:"leave_requests"`
}

type BalanceResponse struct {
	UserID   uuid.UUID     `json:"user_id"`
	Year     int           `json:"year"`
	Balances []TypeBalance `json:"balances"`
}

// parseDate accepts the wire date format only.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}
