package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/livetrack/support-service/internal/api/dto"
	"github.com/livetrack/support-service/internal/service"
	apperrors "github.com/livetrack/support-service/pkg/util/errorutil"
)

// AuthHandler serves login requests.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login authenticates an admin and returns a JWT.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password are required", nil)
	}

	result, err := h.auth.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewLoginResponse(result))
}
