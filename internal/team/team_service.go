package team

import (
	"context"
	"errors"

	teamerrors "go-lams/internal/team/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Resolver answers the two scope questions the rest of the system asks:
// who reports directly to a manager, and who a user reports to. Direct
// reports only, never the transitive org chart.
type Resolver interface {
	ManagerOf(ctx context.Context, userID string) (*uuid.UUID, error)
	TeamMemberIDs(ctx context.Context, managerID string) ([]uuid.UUID, error)
	IsDirectReport(ctx context.Context, managerID, userID string) (bool, error)
	AssignManager(ctx context.Context, userID, managerID string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Resolver {
	l := zap.L().Named("team.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("team.service")
	}
	return &service{repo: repo, logger: l}
}

// ManagerOf returns nil without error when the user has no manager; callers
// decide whether that is a problem.
func (s *service) ManagerOf(ctx context.Context, userID string) (*uuid.UUID, error) {
	managerID, err := s.repo.FindManagerOf(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &managerID, nil
}

func (s *service) TeamMemberIDs(ctx context.Context, managerID string) ([]uuid.UUID, error) {
	return s.repo.FindTeamMemberIDs(ctx, managerID)
}

func (s *service) IsDirectReport(ctx context.Context, managerID, userID string) (bool, error) {
	target, err := uuid.Parse(userID)
	if err != nil {
		return false, teamerrors.ErrInvalidUserID
	}

	ids, err := s.repo.FindTeamMemberIDs(ctx, managerID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == target {
			return true, nil
		}
	}
	return false, nil
}

// maxChainDepth bounds the upward walk in AssignManager so a corrupt chain
// cannot loop forever.
const maxChainDepth = 64

// AssignManager creates or resets the manager edge for a user. The manager
// chain is walked upward from the proposed manager and the assignment is
// rejected if it would reach the subordinate again.
func (s *service) AssignManager(ctx context.Context, userID, managerID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return teamerrors.ErrInvalidUserID
	}
	managerUUID, err := uuid.Parse(managerID)
	if err != nil {
		return teamerrors.ErrInvalidUserID
	}
	if userUUID == managerUUID {
		return teamerrors.ErrSelfManager
	}

	for _, id := range []string{userID, managerID} {
		exists, err := s.repo.UserExists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return teamerrors.ErrUnknownUser
		}
	}

	current := managerUUID
	for depth := 0; depth < maxChainDepth; depth++ {
		next, err := s.repo.FindManagerOf(ctx, current.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			return err
		}
		if next == userUUID {
			s.logger.Warn("manager cycle rejected",
				zap.String("user_id", userID),
				zap.String("manager_id", managerID),
			)
			return teamerrors.ErrManagerCycle
		}
		current = next
	}

	return s.repo.Upsert(ctx, &ManagerRelation{
		ID:        uuid.New(),
		UserID:    userUUID,
		ManagerID: managerUUID,
	})
}
