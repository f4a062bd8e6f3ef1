package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/livetrack/support-service/internal/api/dto"
	"github.com/livetrack/support-service/internal/auth"
	"github.com/livetrack/support-service/internal/service"
	apperrors "github.com/livetrack/support-service/pkg/util/errorutil"
)

// DistributorsHandler serves the distributor directory.
type DistributorsHandler struct {
	distributors *service.DistributorService
}

// NewDistributorsHandler constructs the handler.
func NewDistributorsHandler(distributors *service.DistributorService) *DistributorsHandler {
	return &DistributorsHandler{distributors: distributors}
}

// Create adds a distributor. ROOT only.
func (h *DistributorsHandler) Create(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateDistributorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	distributor, err := h.distributors.CreateDistributor(c.Context(), actor, req.Name, req.Area)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewDistributorResponse(distributor))
}

// List returns all distributors.
func (h *DistributorsHandler) List(c *fiber.Ctx) error {
	distributors, err := h.distributors.ListDistributors(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDistributorResponses(distributors))
}

// Get fetches one distributor.
func (h *DistributorsHandler) Get(c *fiber.Ctx) error {
	distributor, err := h.distributors.GetDistributor(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDistributorResponse(distributor))
}
