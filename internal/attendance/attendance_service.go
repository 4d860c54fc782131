package attendance

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go-lams/internal/shared/apperror"
	"go-lams/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrAlreadyClockedIn  = apperror.New(apperror.CodeConflict, "already clocked in today", http.StatusConflict)
	ErrNotClockedIn      = apperror.New(apperror.CodeInvalidState, "no open attendance record for today", http.StatusConflict)
	ErrAlreadyClockedOut = apperror.New(apperror.CodeInvalidState, "already clocked out today", http.StatusConflict)
)

// lateCutoffHour marks clock-ins at or after this UTC hour as late.
const lateCutoffHour = 9

type ListQuery struct {
	From    string
	To      string
	Page    int
	PerPage int
}

type Service interface {
	ClockIn(ctx context.Context, userID string) (AttendanceResponse, error)
	ClockOut(ctx context.Context, userID string) (AttendanceResponse, error)
	ListOwn(ctx context.Context, userID string, q ListQuery) ([]AttendanceResponse, int64, int, int, error)
}

type service struct {
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{repo: repo, now: func() time.Time { return time.Now().UTC() }, logger: l}
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *service) ClockIn(ctx context.Context, userID string) (AttendanceResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	uid, err := uuid.Parse(userID)
	if err != nil {
		return AttendanceResponse{}, apperror.ErrUnauthorized
	}

	now := s.now()
	today := dayOf(now)

	if _, err := s.repo.FindByUserAndDate(ctx, userID, today); err == nil {
		return AttendanceResponse{}, ErrAlreadyClockedIn
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}

	status := StatusPresent
	if now.Hour() >= lateCutoffHour {
		status = StatusLate
	}

	rec := &AttendanceRecord{
		ID:        uuid.New(),
		UserID:    uid,
		WorkDate:  today,
		ClockInAt: now,
		Status:    status,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return AttendanceResponse{}, err
	}

	log.Info("clock in",
		zap.String("user_id", userID),
		zap.String("status", status),
	)
	return MapToResponse(rec), nil
}

func (s *service) ClockOut(ctx context.Context, userID string) (AttendanceResponse, error) {
	now := s.now()

	rec, err := s.repo.FindByUserAndDate(ctx, userID, dayOf(now))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, ErrNotClockedIn
		}
		return AttendanceResponse{}, err
	}
	if rec.ClockOutAt != nil {
		return AttendanceResponse{}, ErrAlreadyClockedOut
	}

	rec.ClockOutAt = &now
	if err := s.repo.Update(ctx, rec); err != nil {
		return AttendanceResponse{}, err
	}
	return MapToResponse(rec), nil
}

func (s *service) ListOwn(ctx context.Context, userID string, q ListQuery) ([]AttendanceResponse, int64, int, int, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 10
	}
	if q.PerPage > 100 {
		q.PerPage = 100
	}

	var from, to time.Time
	var err error
	if q.From != "" {
		if from, err = time.Parse("2006-01-02", q.From); err != nil {
			return nil, 0, 0, 0, apperror.InvalidField("from")
		}
	}
	if q.To != "" {
		if to, err = time.Parse("2006-01-02", q.To); err != nil {
			return nil, 0, 0, 0, apperror.InvalidField("to")
		}
	}

	records, total, err := s.repo.ListByUser(ctx, userID, from, to, (q.Page-1)*q.PerPage, q.PerPage)
	if err != nil {
		return nil, 0, 0, 0, err
	}

	out := make([]AttendanceResponse, 0, len(records))
	for i := range records {
		out = append(out, MapToResponse(&records[i]))
	}
	return out, total, q.Page, q.PerPage, nil
}
