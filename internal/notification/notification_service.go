package notification

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go-lams/internal/events"
	"go-lams/internal/shared/apperror"
	"go-lams/internal/shared/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errNotificationNotFound = apperror.New(
	apperror.CodeNotFound,
	"notification not found",
	http.StatusNotFound,
)

type ListQuery struct {
	UnreadOnly bool
	Page       int
	PerPage    int
}

type Service interface {
	List(ctx context.Context, userID string, q ListQuery) ([]NotificationResponse, response.PaginationMeta, error)
	MarkRead(ctx context.Context, userID, id string) error
	UnreadCount(ctx context.Context, userID string) (UnreadCountResponse, error)

	// Materializers invoked by the kafka consumer.
	CreateFromLeaveRequested(ctx context.Context, event events.LeaveRequestedEvent) error
	CreateFromLeaveDecided(ctx context.Context, event events.LeaveDecidedEvent) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) List(ctx context.Context, userID string, q ListQuery) ([]NotificationResponse, response.PaginationMeta, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := q.PerPage
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	rows, total, err := s.repo.FindByUser(ctx, userID, q.UnreadOnly, (page-1)*perPage, perPage)
	if err != nil {
		s.logger.Error("list notifications failed", zap.String("user_id", userID), zap.Error(err))
		return nil, response.PaginationMeta{}, err
	}

	items := make([]NotificationResponse, len(rows))
	for i, n := range rows {
		items[i] = mapToResponse(n)
	}
	return items, response.NewPaginationMeta(total, page, perPage), nil
}

func (s *service) MarkRead(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errNotificationNotFound
	}
	affected, err := s.repo.MarkRead(ctx, userID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errNotificationNotFound
	}
	return nil
}

func (s *service) UnreadCount(ctx context.Context, userID string) (UnreadCountResponse, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return UnreadCountResponse{}, err
	}
	return UnreadCountResponse{UnreadCount: count}, nil
}

func (s *service) CreateFromLeaveRequested(ctx context.Context, event events.LeaveRequestedEvent) error {
	recipient, err := uuid.Parse(event.RecipientID)
	if err != nil {
		return fmt.Errorf("invalid recipient id in leave_requested event: %w", err)
	}
	requestID, err := uuid.Parse(event.RequestID)
	if err != nil {
		return fmt.Errorf("invalid request id in leave_requested event: %w", err)
	}

	n := &Notification{
		ID:        uuid.New(),
		UserID:    recipient,
		Title:     "New leave request",
		Message: fmt.Sprintf("%s requested %s (%s to %s, %.1f days)",
			event.RequesterName, event.LeaveTypeName, event.StartDate, event.EndDate, event.DaysCount),
		RelatedTo: "leave_request",
		RelatedID: &requestID,
	}
	return s.repo.Create(ctx, n)
}

func (s *service) CreateFromLeaveDecided(ctx context.Context, event events.LeaveDecidedEvent) error {
	recipient, err := uuid.Parse(event.RecipientID)
	if err != nil {
		return fmt.Errorf("invalid recipient id in leave_decided event: %w", err)
	}
	requestID, err := uuid.Parse(event.RequestID)
	if err != nil {
		return fmt.Errorf("invalid request id in leave_decided event: %w", err)
	}

	message := fmt.Sprintf("Your leave request %s was %s by %s", event.RequestCode, event.Status, event.ApproverName)
	if event.RejectionReason != "" {
		message += ": " + event.RejectionReason
	}

	n := &Notification{
		ID:        uuid.New(),
		UserID:    recipient,
		Title:     "Leave request " + event.Status,
		Message:   message,
		RelatedTo: "leave_request",
		RelatedID: &requestID,
	}
	return s.repo.Create(ctx, n)
}

func mapToResponse(n Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		Title:     n.Title,
		Message:   n.Message,
		RelatedTo: n.RelatedTo,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if n.RelatedID != nil {
		v := n.RelatedID.String()
		resp.RelatedID = &v
	}
	return resp
}
