package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/livetrack/support-service/internal/auth"
	"github.com/livetrack/support-service/internal/domain"
	"github.com/livetrack/support-service/internal/repository"
	apperrors "github.com/livetrack/support-service/pkg/util/errorutil"
)

// AuthService authenticates admins and issues access tokens.
type AuthService struct {
	admins repository.AdminRepository
	tokens *auth.TokenManager
}

// NewAuthService constructs the service.
func NewAuthService(admins repository.AdminRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{admins: admins, tokens: tokens}
}

// LoginResult carries the signed token and the authenticated admin.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Admin     *domain.Admin
}

// Login verifies credentials and returns a signed JWT. Unknown usernames and
// wrong passwords produce the same error; deactivated accounts are rejected.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid username or password")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid username or password")
	}
	if !admin.Active {
		return nil, apperrors.NewUnauthorized("account deactivated")
	}

	token, expiresAt, err := s.tokens.GenerateToken(admin.ID, admin.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Admin: admin}, nil
}
