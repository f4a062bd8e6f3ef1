package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/livetrack/support-service/internal/api/dto"
	"github.com/livetrack/support-service/internal/auth"
	"github.com/livetrack/support-service/internal/service"
	apperrors "github.com/livetrack/support-service/pkg/util/errorutil"
)

// AdminsHandler serves admin account management.
type AdminsHandler struct {
	admins  *service.AdminService
	tickets *service.TicketService
}

// NewAdminsHandler constructs the handler.
func NewAdminsHandler(admins *service.AdminService, tickets *service.TicketService) *AdminsHandler {
	return &AdminsHandler{admins: admins, tickets: tickets}
}

// Create registers a new ADMIN account.
func (h *AdminsHandler) Create(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	admin, err := h.admins.CreateAdmin(c.Context(), actor, service.CreateAdminInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
		Location: req.Location,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewAdminResponse(admin))
}

// List returns every account with its DONE-reply count.
func (h *AdminsHandler) List(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	items, err := h.admins.ListAdmins(c.Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAdminListItems(items))
}

// Profile returns the actor's own profile, or another admin's when the
// actor is ROOT, together with the ticket activity summary.
func (h *AdminsHandler) Profile(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	admin, err := h.admins.GetAdminProfile(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	activity, err := h.tickets.AdminTicketActivity(c.Context(), admin.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"admin":         dto.NewAdminResponse(admin),
		"total_tickets": activity.TotalTickets,
		"tickets":       dto.NewTicketResponses(activity.Tickets),
	})
}

// Update patches profile fields on an account.
func (h *AdminsHandler) Update(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	admin, err := h.admins.UpdateAdmin(c.Context(), actor, c.Params("id"), service.UpdateAdminInput{
		Username: req.Username,
		FullName: req.FullName,
		Phone:    req.Phone,
		Location: req.Location,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAdminResponse(admin))
}

// ToggleStatus flips the active flag on an account.
func (h *AdminsHandler) ToggleStatus(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	admin, err := h.admins.ToggleAdminStatus(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAdminResponse(admin))
}

// ChangePassword sets a new password on an account.
func (h *AdminsHandler) ChangePassword(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	if err := h.admins.ChangeAdminPassword(c.Context(), actor, c.Params("id"), req.Password); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "password updated"})
}
