package handlers

import (
	"encoding/json"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/livetrack/support-service/internal/api/dto"
	"github.com/livetrack/support-service/internal/auth"
	"github.com/livetrack/support-service/internal/domain"
	"github.com/livetrack/support-service/internal/repository"
	"github.com/livetrack/support-service/internal/service"
	apperrors "github.com/livetrack/support-service/pkg/util/errorutil"
)

// TicketsHandler serves ticket lifecycle endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler constructs the handler.
func NewTicketsHandler(tickets *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets}
}

// CreateNewUser creates a customer and opens a NEW_USER ticket.
func (h *TicketsHandler) CreateNewUser(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.NewUserTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	ticket, err := h.tickets.CreateNewUserTicket(c.Context(), actor,
		service.NewUserCustomerInput{
			DistributorID: req.DistributorID,
			FullName:      req.FullName,
			Username:      req.Username,
			Password:      req.Password,
			Phone:         req.Phone,
			Location:      req.Location,
			VLAN:          req.VLAN,
			Speed:         req.Speed,
			Notes:         req.Notes,
		},
		service.TicketCreateInput{
			AvailabilityTime: req.AvailabilityTime,
			Note:             req.Note,
		})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTicketResponse(ticket))
}

// CreateMaintenance opens a MAINTENANCE ticket against an existing customer.
func (h *TicketsHandler) CreateMaintenance(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.MaintenanceTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if strings.TrimSpace(req.CustomerID) == "" {
		return apperrors.NewValidationError("customer_id is required", nil)
	}

	ticket, err := h.tickets.CreateMaintenanceTicket(c.Context(), actor, req.CustomerID,
		service.TicketCreateInput{
			Priority:         req.Priority,
			AvailabilityTime: req.AvailabilityTime,
			Note:             req.Note,
		})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTicketResponse(ticket))
}

// CreateReply appends a reply via multipart form: text fields, a
// performed_by JSON array and zero or more files under the files key.
func (h *TicketsHandler) CreateReply(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return apperrors.NewValidationError("expected multipart form data", nil)
	}

	input := service.ReplyInput{
		PerformedBy: parsePerformedBy(form),
		Note:        formValue(form, "note"),
		SpeedTest:   formValue(form, "speed_test"),
		Username:    formValue(form, "username"),
		Password:    formValue(form, "password"),
		VLAN:        formValue(form, "vlan"),
		Speed:       formValue(form, "speed"),
		SiteName:    formValue(form, "site_name"),
		DeviceName:  formValue(form, "device_name"),
	}
	if raw := formValue(form, "status"); raw != nil {
		status := domain.TicketStatus(strings.ToUpper(*raw))
		input.Status = &status
	}

	files, closers, err := openReplyFiles(form)
	if err != nil {
		return err
	}
	defer func() {
		for _, closer := range closers {
			_ = closer.Close()
		}
	}()

	reply, err := h.tickets.CreateTicketReply(c.Context(), actor, c.Params("id"), input, files)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewReplyResponse(reply))
}

// List returns tickets newest first with optional filters.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	filter := repository.TicketFilter{
		Limit:           queryInt(c, "limit", 100),
		Offset:          queryInt(c, "offset", 0),
		IncludeArchived: c.QueryBool("include_archived"),
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.TicketStatus(strings.ToUpper(raw))
		filter.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := domain.TicketPriority(strings.ToUpper(raw))
		filter.Priority = &priority
	}

	tickets, err := h.tickets.ListTickets(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponses(tickets))
}

// Get fetches a ticket with its ordered replies.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, replies, err := h.tickets.GetTicketDetail(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.TicketDetailResponse{
		Ticket:  dto.NewTicketResponse(ticket),
		Replies: dto.NewReplyResponses(replies),
	})
}

// Update patches the editable ticket fields. ROOT only.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	ticket, err := h.tickets.UpdateTicket(c.Context(), actor, c.Params("id"), repository.TicketPatch{
		Priority:         req.Priority,
		AvailabilityTime: req.AvailabilityTime,
		AssignedAdminID:  req.AssignedAdminID,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

// Archive marks a ticket archived. ROOT only.
func (h *TicketsHandler) Archive(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := h.tickets.ArchiveTicket(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

// Dashboard returns the status-bucketed counts and recent tickets.
func (h *TicketsHandler) Dashboard(c *fiber.Ctx) error {
	data, err := h.tickets.Dashboard(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDashboardResponse(data))
}

// parsePerformedBy reads the performed_by field, a JSON-encoded array of
// admin ids. Repeated plain values are accepted as a fallback.
func parsePerformedBy(form *multipart.Form) []string {
	values := form.Value["performed_by"]
	if len(values) == 0 {
		return nil
	}
	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var ids []string
		if err := json.Unmarshal([]byte(values[0]), &ids); err == nil {
			return ids
		}
		return nil
	}
	ids := make([]string, 0, len(values))
	for _, val := range values {
		if trimmed := strings.TrimSpace(val); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}

func formValue(form *multipart.Form, key string) *string {
	values := form.Value[key]
	if len(values) == 0 {
		return nil
	}
	trimmed := strings.TrimSpace(values[0])
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func openReplyFiles(form *multipart.Form) ([]service.ReplyFile, []multipart.File, error) {
	headers := form.File["files"]
	files := make([]service.ReplyFile, 0, len(headers))
	closers := make([]multipart.File, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			for _, closer := range closers {
				_ = closer.Close()
			}
			return nil, nil, apperrors.NewValidationError("unreadable uploaded file", map[string]any{"file": header.Filename})
		}
		closers = append(closers, file)
		files = append(files, service.ReplyFile{FileName: header.Filename, Content: file})
	}
	return files, closers, nil
}
