package calendar

import "github.com/google/uuid"

type MemberOnLeave struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	LeaveType string    `json:"leave_type"`
	ColorCode string    `json:"color_code"`
}

type CalendarDay struct {
	Date           string          `json:"date"`
	MembersOnLeave []MemberOnLeave `json:"members_on_leave"`
}

type TeamCalendarResponse struct {
	Year  int           `json:"year"`
	Month int           `json:"month"`
	Days  []CalendarDay `json:"days"`
}
