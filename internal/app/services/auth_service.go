package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/app/repositories"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/auth"
	"github.com/yigit/schoolhub/internal/pkg/helpers"
	"github.com/yigit/schoolhub/internal/pkg/logger"
)

// SessionIssuer signs session tokens
type SessionIssuer interface {
	IssueSession(userID int64, email string, role models.Role) (string, time.Time, error)
}

// LoginResult carries the authenticated user and the token to set as a cookie
type LoginResult struct {
	User      dto.UserResponse
	Token     string
	ExpiresAt time.Time
}

// AuthService handles login and session lookups
type AuthService struct {
	userRepo repositories.IUserRepository
	sessions SessionIssuer
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.IUserRepository, sessions SessionIssuer) *AuthService {
	return &AuthService{userRepo: userRepo, sessions: sessions}
}

func invalidCredentials() error {
	return &apperrors.CustomError{
		Err:     apperrors.ErrInvalidCredentials,
		Message: "invalid credentials",
		Code:    apperrors.CodeInvalidCredentials,
	}
}

// Login verifies the password and, when a role is requested, that it matches the account.
// Every failure looks the same to the caller and issues no token.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*LoginResult, error) {
	email := helpers.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, invalidCredentials()
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, invalidCredentials()
		}
		return nil, fmt.Errorf("error loading user for login: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		logger.Info().Int64("userID", user.ID).Msg("Login rejected: wrong password")
		return nil, invalidCredentials()
	}

	if req.Role != "" {
		role, err := models.ParseRole(req.Role)
		if err != nil || role != user.Role {
			logger.Info().Int64("userID", user.ID).Str("requestedRole", req.Role).Msg("Login rejected: role mismatch")
			return nil, invalidCredentials()
		}
	}

	token, expiresAt, err := s.sessions.IssueSession(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("error issuing session: %w", err)
	}

	return &LoginResult{User: dto.NewUserResponse(user), Token: token, ExpiresAt: expiresAt}, nil
}

// Me returns the current account of a resolved identity
func (s *AuthService) Me(ctx context.Context, identity *auth.Identity) (*dto.UserResponse, error) {
	if identity == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	user, err := s.userRepo.GetByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}
