package user

import (
	"context"
	"errors"
	"net/http"

	"go-lams/internal/shared/apperror"
	"go-lams/internal/team"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrUserNotFound = apperror.New(
	apperror.CodeNotFound,
	"user not found",
	http.StatusNotFound,
)

type Service interface {
	GetProfile(ctx context.Context, userID string) (ProfileResponse, error)
	GetTeam(ctx context.Context, managerID string) (TeamListResponse, error)
}

type service struct {
	repo     Repository
	resolver team.Resolver
	logger   *zap.Logger
}

func NewService(repo Repository, resolver team.Resolver, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, resolver: resolver, logger: l}
}

func (s *service) GetProfile(ctx context.Context, userID string) (ProfileResponse, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileResponse{}, ErrUserNotFound
		}
		return ProfileResponse{}, err
	}

	resp := ProfileResponse{
		ID:           u.ID.String(),
		EmployeeCode: u.EmployeeCode,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Position:     u.Position,
		IsManager:    u.IsManager,
	}
	if u.Department != nil {
		resp.Department = &DepartmentInfo{
			ID:   u.Department.ID.String(),
			Name: u.Department.Name,
		}
	}
	if u.HireDate != nil {
		v := u.HireDate.Format("2006-01-02")
		resp.HireDate = &v
	}

	managerID, err := s.resolver.ManagerOf(ctx, userID)
	if err != nil {
		return ProfileResponse{}, err
	}
	if managerID != nil {
		manager, err := s.repo.FindByID(ctx, managerID.String())
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileResponse{}, err
		}
		if err == nil {
			resp.Manager = &UserSummary{
				ID:        manager.ID.String(),
				FirstName: manager.FirstName,
				LastName:  manager.LastName,
				Email:     manager.Email,
			}
		}
	}

	return resp, nil
}

func (s *service) GetTeam(ctx context.Context, managerID string) (TeamListResponse, error) {
	ids, err := s.resolver.TeamMemberIDs(ctx, managerID)
	if err != nil {
		return TeamListResponse{}, err
	}

	members, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return TeamListResponse{}, err
	}

	resp := TeamListResponse{TeamMembers: make([]UserSummary, len(members))}
	for i, m := range members {
		resp.TeamMembers[i] = UserSummary{
			ID:        m.ID.String(),
			FirstName: m.FirstName,
			LastName:  m.LastName,
			Email:     m.Email,
		}
	}
	return resp, nil
}
