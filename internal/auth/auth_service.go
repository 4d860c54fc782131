package auth

import (
	"context"
	"errors"
	"time"

	autherrors "go-lams/internal/auth/errors"
	"go-lams/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
}

type service struct {
	users     user.Repository
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewService takes the signing secret explicitly so the engine never reads
// process environment itself.
func NewService(users user.Repository, jwtSecret []byte, tokenTTL time.Duration, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	if tokenTTL <= 0 {
		tokenTTL = 8 * time.Hour
	}
	return &service{users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: l}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginResponse{}, autherrors.ErrInvalidCredentials
		}
		s.logger.Error("login lookup failed", zap.Error(err))
		return LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":        u.ID.String(),
		"user_id":    u.ID.String(),
		"is_manager": u.IsManager,
		"iat":        now.Unix(),
		"exp":        now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		s.logger.Error("sign token failed", zap.Error(err))
		return LoginResponse{}, err
	}

	s.logger.Info("login success", zap.String("user_id", u.ID.String()))

	return LoginResponse{
		AccessToken: signed,
		TokenType:   "bearer",
		UserID:      u.ID.String(),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		IsManager:   u.IsManager,
	}, nil
}
