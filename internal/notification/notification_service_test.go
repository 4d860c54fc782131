package notification

import (
	"context"
	"testing"
	"time"

	"go-lams/internal/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotificationRepo struct {
	rows []Notification
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *Notification) error {
	f.rows = append(f.rows, *n)
	return nil
}

func (f *fakeNotificationRepo) FindByUser(ctx context.Context, userID string, unreadOnly bool, offset, limit int) ([]Notification, int64, error) {
	var matched []Notification
	for _, n := range f.rows {
		if n.UserID.String() != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		matched = append(matched, n)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, userID, id string) (int64, error) {
	for i, n := range f.rows {
		if n.UserID.String() == userID && n.ID.String() == id {
			f.rows[i].IsRead = true
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeNotificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range f.rows {
		if n.UserID.String() == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func seed(repo *fakeNotificationRepo, userID uuid.UUID, count int) {
	for i := 0; i < count; i++ {
		repo.rows = append(repo.rows, Notification{
			ID:        uuid.New(),
			UserID:    userID,
			Title:     "New leave request",
			Message:   "pending approval",
			RelatedTo: "leave_request",
			CreatedAt: time.Now().Add(-time.Duration(i) * time.Minute),
		})
	}
}

func TestListPagination(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewService(repo)
	userID := uuid.New()
	seed(repo, userID, 25)

	items, meta, err := svc.List(context.Background(), userID.String(), ListQuery{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, items, 10)
	assert.Equal(t, int64(25), meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	items, _, err = svc.List(context.Background(), userID.String(), ListQuery{Page: 3, PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, items, 5)

	// Past the last page comes back empty, not an error.
	items, meta, err = svc.List(context.Background(), userID.String(), ListQuery{Page: 9, PerPage: 10})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, int64(25), meta.Total)
}

func TestListDefaults(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewService(repo)
	userID := uuid.New()
	seed(repo, userID, 3)

	_, meta, err := svc.List(context.Background(), userID.String(), ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, 10, meta.PerPage)
}

func TestMarkRead(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewService(repo)
	userID := uuid.New()
	seed(repo, userID, 2)

	require.NoError(t, svc.MarkRead(context.Background(), userID.String(), repo.rows[0].ID.String()))
	assert.True(t, repo.rows[0].IsRead)

	count, err := svc.UnreadCount(context.Background(), userID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count.UnreadCount)
}

func TestMarkReadForeignNotification(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewService(repo)
	owner := uuid.New()
	seed(repo, owner, 1)

	err := svc.MarkRead(context.Background(), uuid.NewString(), repo.rows[0].ID.String())
	assert.ErrorIs(t, err, errNotificationNotFound)
	assert.False(t, repo.rows[0].IsRead)
}

func TestCreateFromLeaveRequested(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewService(repo)

	recipient := uuid.New()
	requestID := uuid.New()
	err := svc.CreateFromLeaveRequested(context.Background(), events.LeaveRequestedEvent{
		EventType:     "leave.requested",
		RequestID:     requestID.String(),
		RequestCode:   "A1B2C3D4E5F60718",
		RecipientID:   recipient.String(),
		RequesterName: "Ana Silva",
		LeaveTypeName: "Annual Leave",
		StartDate:     "2026-06-01",
		EndDate:       "2026-06-03",
		DaysCount:     3,
	})
	require.NoError(t, err)

	require.Len(t, repo.rows, 1)
	n := repo.rows[0]
	assert.Equal(t, recipient, n.UserID)
	assert.Equal(t, "leave_request", n.RelatedTo)
	require.NotNil(t, n.RelatedID)
	assert.Equal(t, requestID, *n.RelatedID)
	assert.Contains(t, n.Message, "Ana Silva")
	assert.Contains(t, n.Message, "Annual Leave")
}

func TestCreateFromLeaveDecided(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewService(repo)

	recipient := uuid.New()
	err := svc.CreateFromLeaveDecided(context.Background(), events.LeaveDecidedEvent{
		EventType:       "leave.decided",
		RequestID:       uuid.NewString(),
		RequestCode:     "A1B2C3D4E5F60718",
		RecipientID:     recipient.String(),
		ApproverName:    "Citra Dewi",
		Status:          "rejected",
		RejectionReason: "coverage gap",
	})
	require.NoError(t, err)

	require.Len(t, repo.rows, 1)
	assert.Contains(t, repo.rows[0].Message, "rejected")
	assert.Contains(t, repo.rows[0].Message, "coverage gap")
}

func TestCreateFromEventBadRecipient(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewService(repo)

	err := svc.CreateFromLeaveRequested(context.Background(), events.LeaveRequestedEvent{
		RequestID:   uuid.NewString(),
		RecipientID: "not-a-uuid",
	})
	assert.Error(t, err)
	assert.Empty(t, repo.rows)
}
