package calendar

import (
	"context"
	"net/http"
	"sort"
	"time"

	"go-lams/internal/leave"
	"go-lams/internal/shared/apperror"
	"go-lams/internal/team"

	"go.uber.org/zap"
)

var (
	errInvalidMonth = apperror.New(apperror.CodeInvalidInput, "month must be between 1 and 12", http.StatusBadRequest)
	errInvalidYear  = apperror.New(apperror.CodeInvalidInput, "year must be a four digit year", http.StatusBadRequest)
)

type Service interface {
	TeamCalendar(ctx context.Context, managerID string, year, month int) (TeamCalendarResponse, error)
}

type service struct {
	leaves leave.Repository
	teams  team.Resolver
	logger *zap.Logger
}

func NewService(leaves leave.Repository, teams team.Resolver, logger ...*zap.Logger) Service {
	l := zap.L().Named("calendar.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("calendar.service")
	}
	return &service{leaves: leaves, teams: teams, logger: l}
}

const dateLayout = "2006-01-02"

// TeamCalendar expands each approved request of the manager's direct reports
// into per day entries, clamped to the requested month. Requests spanning a
// month boundary contribute only the days inside the window.
func (s *service) TeamCalendar(ctx context.Context, managerID string, year, month int) (TeamCalendarResponse, error) {
	if month < 1 || month > 12 {
		return TeamCalendarResponse{}, errInvalidMonth
	}
	if year < 1000 || year > 9999 {
		return TeamCalendarResponse{}, errInvalidYear
	}

	memberIDs, err := s.teams.TeamMemberIDs(ctx, managerID)
	if err != nil {
		return TeamCalendarResponse{}, err
	}

	resp := TeamCalendarResponse{Year: year, Month: month, Days: []CalendarDay{}}
	if len(memberIDs) == 0 {
		return resp, nil
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	requests, err := s.leaves.FindApprovedOverlapping(ctx, memberIDs, first, last)
	if err != nil {
		return TeamCalendarResponse{}, err
	}

	byDay := make(map[string][]MemberOnLeave)
	for i := range requests {
		lr := &requests[i]

		from := lr.StartDate
		if from.Before(first) {
			from = first
		}
		to := lr.EndDate
		if to.After(last) {
			to = last
		}

		member := MemberOnLeave{ID: lr.UserID}
		if lr.User != nil {
			member.FirstName = lr.User.FirstName
			member.LastName = lr.User.LastName
		}
		if lr.LeaveType != nil {
			member.LeaveType = lr.LeaveType.Name
			member.ColorCode = lr.LeaveType.ColorCode
		}

		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			key := d.Format(dateLayout)
			byDay[key] = append(byDay[key], member)
		}
	}

	days := make([]CalendarDay, 0, len(byDay))
	for date, members := range byDay {
		days = append(days, CalendarDay{Date: date, MembersOnLeave: members})
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})
	resp.Days = days
	return resp, nil
}
