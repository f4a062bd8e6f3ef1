package dto

import (
	"time"

	"github.com/livetrack/support-service/internal/service"
)

// LoginRequest carries admin credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse returns the signed token and the authenticated account.
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Admin     AdminResponse `json:"admin"`
}

// NewLoginResponse maps the service result.
func NewLoginResponse(result *service.LoginResult) LoginResponse {
	return LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Admin:     NewAdminResponse(result.Admin),
	}
}
