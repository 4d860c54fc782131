package attachment

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"go-lams/internal/leave"
	leaveerrors "go-lams/internal/leave/errors"
	"go-lams/internal/shared/apperror"
	"go-lams/internal/shared/contextutil"
	"go-lams/internal/team"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxUploadSize caps a single attachment at 10 MiB.
const maxUploadSize = 10 << 20

var (
	ErrAttachmentNotFound = apperror.New(apperror.CodeNotFound, "attachment not found", http.StatusNotFound)
	ErrAttachmentTooLarge = apperror.New(apperror.CodeInvalidInput, "attachment exceeds the 10 MiB limit", http.StatusBadRequest)
	ErrRequestDecided     = apperror.New(apperror.CodeInvalidState, "attachments can only be added while the request is pending", http.StatusConflict)
)

type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type Service interface {
	Upload(ctx context.Context, callerID, leaveRequestID string, up Upload) (AttachmentResponse, error)
	List(ctx context.Context, callerID, leaveRequestID string) ([]AttachmentResponse, error)
	Download(ctx context.Context, callerID, attachmentID string) (*Attachment, io.ReadCloser, error)
	Delete(ctx context.Context, callerID, attachmentID string) error
}

type service struct {
	repo   Repository
	leaves leave.Repository
	teams  team.Resolver
	blobs  BlobStore
	logger *zap.Logger
}

func NewService(repo Repository, leaves leave.Repository, teams team.Resolver, blobs BlobStore, logger ...*zap.Logger) Service {
	l := zap.L().Named("attachment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attachment.service")
	}
	return &service{repo: repo, leaves: leaves, teams: teams, blobs: blobs, logger: l}
}

// loadVisible returns the request when the caller owns it or directly manages
// its owner.
func (s *service) loadVisible(ctx context.Context, callerID, leaveRequestID string) (*leave.LeaveRequest, error) {
	lr, err := s.leaves.FindByID(ctx, leaveRequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrRequestNotFound
		}
		return nil, err
	}
	if lr.UserID.String() == callerID {
		return lr, nil
	}
	ok, err := s.teams.IsDirectReport(ctx, callerID, lr.UserID.String())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, leaveerrors.ErrNotOwner
	}
	return lr, nil
}

func (s *service) Upload(ctx context.Context, callerID, leaveRequestID string, up Upload) (AttachmentResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if up.Size > maxUploadSize {
		return AttachmentResponse{}, ErrAttachmentTooLarge
	}

	lr, err := s.leaves.FindByID(ctx, leaveRequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttachmentResponse{}, leaveerrors.ErrRequestNotFound
		}
		return AttachmentResponse{}, err
	}
	if lr.UserID.String() != callerID {
		return AttachmentResponse{}, leaveerrors.ErrNotOwner
	}
	if lr.Status != leave.StatusPending {
		return AttachmentResponse{}, ErrRequestDecided
	}

	id := uuid.New()
	key := lr.ID.String() + "/" + id.String() + filepath.Ext(up.FileName)

	written, err := s.blobs.Save(ctx, key, io.LimitReader(up.Content, maxUploadSize+1))
	if err != nil {
		return AttachmentResponse{}, err
	}
	if written > maxUploadSize {
		if derr := s.blobs.Delete(ctx, key); derr != nil {
			log.Warn("cleanup oversized blob failed", zap.String("key", key), zap.Error(derr))
		}
		return AttachmentResponse{}, ErrAttachmentTooLarge
	}

	a := &Attachment{
		ID:             id,
		LeaveRequestID: lr.ID,
		FileName:       filepath.Base(up.FileName),
		StorageKey:     key,
		FileSize:       written,
		ContentType:    up.ContentType,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		if derr := s.blobs.Delete(ctx, key); derr != nil {
			log.Warn("cleanup orphaned blob failed", zap.String("key", key), zap.Error(derr))
		}
		return AttachmentResponse{}, err
	}

	log.Info("attachment uploaded",
		zap.String("attachment_id", id.String()),
		zap.String("leave_request_id", lr.ID.String()),
		zap.Int64("size", written),
	)
	return MapToResponse(a), nil
}

func (s *service) List(ctx context.Context, callerID, leaveRequestID string) ([]AttachmentResponse, error) {
	lr, err := s.loadVisible(ctx, callerID, leaveRequestID)
	if err != nil {
		return nil, err
	}

	attachments, err := s.repo.FindByRequest(ctx, lr.ID.String())
	if err != nil {
		return nil, err
	}

	out := make([]AttachmentResponse, 0, len(attachments))
	for i := range attachments {
		out = append(out, MapToResponse(&attachments[i]))
	}
	return out, nil
}

func (s *service) Download(ctx context.Context, callerID, attachmentID string) (*Attachment, io.ReadCloser, error) {
	a, err := s.repo.FindByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrAttachmentNotFound
		}
		return nil, nil, err
	}

	if _, err := s.loadVisible(ctx, callerID, a.LeaveRequestID.String()); err != nil {
		return nil, nil, err
	}

	rc, err := s.blobs.Open(ctx, a.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return a, rc, nil
}

// Delete removes an attachment from a still pending request. Only the
// request owner may delete.
func (s *service) Delete(ctx context.Context, callerID, attachmentID string) error {
	log := contextutil.GetLogger(ctx, s.logger)

	a, err := s.repo.FindByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttachmentNotFound
		}
		return err
	}

	lr, err := s.leaves.FindByID(ctx, a.LeaveRequestID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrRequestNotFound
		}
		return err
	}
	if lr.UserID.String() != callerID {
		return leaveerrors.ErrNotOwner
	}
	if lr.Status != leave.StatusPending {
		return ErrRequestDecided
	}

	if err := s.repo.Delete(ctx, attachmentID); err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, a.StorageKey); err != nil {
		log.Warn("delete blob failed", zap.String("key", a.StorageKey), zap.Error(err))
	}
	return nil
}
