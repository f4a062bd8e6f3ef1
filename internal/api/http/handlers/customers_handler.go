package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/livetrack/support-service/internal/api/dto"
	"github.com/livetrack/support-service/internal/auth"
	"github.com/livetrack/support-service/internal/repository"
	"github.com/livetrack/support-service/internal/service"
	apperrors "github.com/livetrack/support-service/pkg/util/errorutil"
)

// CustomersHandler serves the customer directory.
type CustomersHandler struct {
	customers *service.CustomerService
}

// NewCustomersHandler constructs the handler.
func NewCustomersHandler(customers *service.CustomerService) *CustomersHandler {
	return &CustomersHandler{customers: customers}
}

// Create adds a customer record.
func (h *CustomersHandler) Create(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	customer, err := h.customers.CreateCustomer(c.Context(), actor, req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewCustomerResponse(customer))
}

// BulkCreate inserts a batch of customers atomically.
func (h *CustomersHandler) BulkCreate(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.BulkCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	inputs := make([]service.CustomerInput, 0, len(req.Customers))
	for _, row := range req.Customers {
		inputs = append(inputs, row.ToInput())
	}

	created, err := h.customers.BulkCreateCustomers(c.Context(), actor, inputs)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewCustomerResponses(created))
}

// List returns customers, optionally filtered by a phone fragment.
func (h *CustomersHandler) List(c *fiber.Ctx) error {
	filter := repository.CustomerFilter{
		Limit:  queryInt(c, "limit", 100),
		Offset: queryInt(c, "offset", 0),
	}
	if phone := c.Query("phone"); phone != "" {
		filter.Phone = &phone
	}

	customers, err := h.customers.ListCustomers(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCustomerResponses(customers))
}

// Get fetches one customer.
func (h *CustomersHandler) Get(c *fiber.Ctx) error {
	customer, err := h.customers.GetCustomer(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCustomerResponse(customer))
}

// Update replaces the customer fields.
func (h *CustomersHandler) Update(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	customer, err := h.customers.UpdateCustomer(c.Context(), actor, c.Params("id"), req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCustomerResponse(customer))
}

// Delete removes a customer. ROOT only.
func (h *CustomersHandler) Delete(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.customers.DeleteCustomer(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	val := c.Query(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
