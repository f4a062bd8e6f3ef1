package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/livetrack/support-service/internal/authz"
	"github.com/livetrack/support-service/internal/domain"
	"github.com/livetrack/support-service/internal/events"
	"github.com/livetrack/support-service/internal/persistence"
	"github.com/livetrack/support-service/internal/repository"
	"github.com/livetrack/support-service/internal/storage"
	apperrors "github.com/livetrack/support-service/pkg/util/errorutil"
)

const (
	dashboardCacheKey = "dashboard:stats"
	dashboardCacheTTL = 30 * time.Second
	dashboardRecent   = 10
)

// TicketService is the lifecycle engine: it validates and applies status
// transitions, creates replies and enforces the ROOT-only close rule. Every
// mutating operation runs inside a single transaction.
type TicketService struct {
	stores     repository.Stores
	tx         repository.TxRunner
	blobs      storage.BlobStore
	cache      *persistence.Redis
	dispatcher events.Dispatcher
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Stores     repository.Stores
	TxRunner   repository.TxRunner
	Blobs      storage.BlobStore
	Cache      *persistence.Redis
	Dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		stores:     deps.Stores,
		tx:         deps.TxRunner,
		blobs:      deps.Blobs,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// NewUserCustomerInput describes the customer created alongside a NEW_USER
// ticket.
type NewUserCustomerInput struct {
	DistributorID string
	FullName      string
	Username      *string
	Password      *string
	Phone         string
	Location      string
	VLAN          *string
	Speed         *string
	Notes         *string
}

// TicketCreateInput describes ticket-level creation fields.
type TicketCreateInput struct {
	Priority         domain.TicketPriority
	AvailabilityTime *string
	Note             *string
}

// ReplyInput describes a reply payload. A nil Status leaves the ticket
// status unchanged.
type ReplyInput struct {
	Status      *domain.TicketStatus
	PerformedBy []string
	Note        *string
	SpeedTest   *string
	Username    *string
	Password    *string
	VLAN        *string
	Speed       *string
	SiteName    *string
	DeviceName  *string
}

// ReplyFile is an uploaded attachment.
type ReplyFile struct {
	FileName string
	Content  io.Reader
}

// CreateNewUserTicket creates a customer from the given fields and opens a
// NEW_USER ticket against it with the snapshot copied from the fresh
// customer. New installs are always IMPORTANT.
func (s *TicketService) CreateNewUserTicket(ctx context.Context, actor *domain.Admin, customerIn NewUserCustomerInput, ticketIn TicketCreateInput) (*domain.Ticket, error) {
	if !authz.CanCreateTicket(actor.Role) {
		return nil, apperrors.NewForbidden("not allowed to create tickets")
	}
	if strings.TrimSpace(customerIn.FullName) == "" {
		return nil, apperrors.NewValidationError("full_name is required", nil)
	}

	var ticket *domain.Ticket
	err := s.tx.InTx(ctx, func(stores repository.Stores) error {
		distributor, err := stores.Distributors.GetByID(ctx, customerIn.DistributorID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("distributor", map[string]any{"distributor_id": customerIn.DistributorID})
			}
			return apperrors.MapError(err)
		}

		customer := &domain.Customer{
			DistributorID: &distributor.ID,
			FullName:      customerIn.FullName,
			Username:      customerIn.Username,
			Password:      customerIn.Password,
			Phone:         customerIn.Phone,
			Location:      customerIn.Location,
			VLAN:          customerIn.VLAN,
			Speed:         customerIn.Speed,
			Notes:         customerIn.Notes,
		}
		if err := stores.Customers.Create(ctx, customer); err != nil {
			return apperrors.MapError(err)
		}

		ticket = &domain.Ticket{
			TicketType:       domain.TicketTypeNewUser,
			Priority:         domain.TicketPriorityImportant,
			Status:           domain.TicketStatusPending,
			CustomerID:       customer.ID,
			CreatedByAdminID: &actor.ID,
			AvailabilityTime: ticketIn.AvailabilityTime,
			Snapshot:         snapshotOf(customer, &distributor.Name, normalizeNote(ticketIn.Note)),
		}
		if err := stores.Tickets.Create(ctx, ticket); err != nil {
			return apperrors.MapError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    adminActor(actor),
		Payload: events.TicketCreatedPayload{
			TicketType: ticket.TicketType,
			Priority:   ticket.Priority,
			CustomerID: ticket.CustomerID,
		},
	})
	return ticket, nil
}

// CreateMaintenanceTicket opens a MAINTENANCE ticket against an existing
// customer, snapshotting the customer at this instant.
func (s *TicketService) CreateMaintenanceTicket(ctx context.Context, actor *domain.Admin, customerID string, ticketIn TicketCreateInput) (*domain.Ticket, error) {
	if !authz.CanCreateTicket(actor.Role) {
		return nil, apperrors.NewForbidden("not allowed to create tickets")
	}

	priority := ticketIn.Priority
	if priority == "" {
		priority = domain.TicketPriorityNormal
	}
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority value", map[string]any{"priority": priority})
	}

	var ticket *domain.Ticket
	err := s.tx.InTx(ctx, func(stores repository.Stores) error {
		customer, err := stores.Customers.GetByID(ctx, customerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewValidationError("customer does not exist", map[string]any{"customer_id": customerID})
			}
			return apperrors.MapError(err)
		}

		var distributorName *string
		if customer.DistributorID != nil {
			distributor, err := stores.Distributors.GetByID(ctx, *customer.DistributorID)
			if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return apperrors.MapError(err)
			}
			if distributor != nil {
				distributorName = &distributor.Name
			}
		}

		ticket = &domain.Ticket{
			TicketType:       domain.TicketTypeMaintenance,
			Priority:         priority,
			Status:           domain.TicketStatusPending,
			CustomerID:       customer.ID,
			CreatedByAdminID: &actor.ID,
			AvailabilityTime: ticketIn.AvailabilityTime,
			Snapshot:         snapshotOf(customer, distributorName, normalizeNote(ticketIn.Note)),
		}
		if err := stores.Tickets.Create(ctx, ticket); err != nil {
			return apperrors.MapError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    adminActor(actor),
		Payload: events.TicketCreatedPayload{
			TicketType: ticket.TicketType,
			Priority:   ticket.Priority,
			CustomerID: ticket.CustomerID,
		},
	})
	return ticket, nil
}

// CreateTicketReply appends a reply to a ticket, optionally advancing its
// status. The status write, reply insert, performer links and attachment
// rows commit as one unit.
func (s *TicketService) CreateTicketReply(ctx context.Context, actor *domain.Admin, ticketID string, in ReplyInput, files []ReplyFile) (*domain.TicketReply, error) {
	if actor.Role != domain.RoleRoot && actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("not allowed to reply to tickets")
	}
	if len(in.PerformedBy) == 0 {
		return nil, apperrors.NewValidationError("performed_by is required and must contain at least one admin", nil)
	}

	var (
		reply     *domain.TicketReply
		oldStatus domain.TicketStatus
		newStatus domain.TicketStatus
		closedAt  time.Time
	)

	err := s.tx.InTx(ctx, func(stores repository.Stores) error {
		ticket, err := stores.Tickets.GetByID(ctx, ticketID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
			}
			return apperrors.MapError(err)
		}

		performerIDs := uniqueIDs(in.PerformedBy)
		performers, err := stores.Admins.GetByIDs(ctx, performerIDs)
		if err != nil {
			return apperrors.MapError(err)
		}
		if len(performers) != len(performerIDs) {
			return apperrors.NewValidationError("one or more admins in performed_by do not exist", nil)
		}

		oldStatus = ticket.Status
		newStatus = ticket.Status
		if in.Status != nil {
			newStatus = *in.Status
		}
		if !newStatus.Valid() {
			return apperrors.NewValidationError("invalid status value", map[string]any{"status": newStatus})
		}

		// CLOSED is terminal: no replies of any kind, for any role.
		if ticket.Status == domain.TicketStatusClosed {
			return apperrors.NewForbidden("ticket is already closed; no further replies are allowed")
		}

		if newStatus != ticket.Status {
			if !authz.CanChangeStatus(actor.Role, ticket.Status, newStatus) {
				return apperrors.NewForbidden(transitionDeniedMessage(actor.Role, ticket.Status, newStatus))
			}
			// Non-ROOT closes must never pass, independent of the
			// transition table.
			if newStatus == domain.TicketStatusClosed && !authz.IsRoot(actor.Role) {
				return apperrors.NewForbidden("only ROOT users are allowed to close tickets")
			}

			if err := stores.Tickets.SetStatus(ctx, ticket.ID, newStatus); err != nil {
				return apperrors.MapError(err)
			}
			if newStatus == domain.TicketStatusClosed {
				closedAt = s.now()
				if err := stores.Tickets.StampClosed(ctx, ticket.ID, actor.ID, closedAt); err != nil {
					return apperrors.MapError(err)
				}
			}
		}

		reply = &domain.TicketReply{
			TicketID:   ticket.ID,
			AdminID:    actor.ID,
			Status:     newStatus,
			Note:       in.Note,
			SpeedTest:  in.SpeedTest,
			Username:   in.Username,
			Password:   in.Password,
			VLAN:       in.VLAN,
			Speed:      in.Speed,
			SiteName:   in.SiteName,
			DeviceName: in.DeviceName,
		}
		if err := stores.Replies.Create(ctx, reply); err != nil {
			return apperrors.MapError(err)
		}
		if err := stores.Replies.AddPerformers(ctx, reply.ID, performerIDs); err != nil {
			return apperrors.MapError(err)
		}
		reply.Performers = performers

		for _, file := range files {
			blob, err := s.blobs.Store(ctx, file.FileName, file.Content)
			if err != nil {
				return apperrors.NewInternalError(err)
			}
			attachment := &domain.ReplyAttachment{
				ReplyID:    reply.ID,
				StorageKey: blob.Key,
				FileName:   file.FileName,
				URL:        blob.URL,
			}
			if err := stores.Attachments.Create(ctx, attachment); err != nil {
				return apperrors.MapError(err)
			}
			reply.Attachments = append(reply.Attachments, *attachment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketReplyAdded,
		TicketID: reply.TicketID,
		Actor:    adminActor(actor),
		Payload: events.TicketReplyAddedPayload{
			ReplyID:      reply.ID,
			Status:       reply.Status,
			PerformerIDs: uniqueIDs(in.PerformedBy),
			Attachments:  len(reply.Attachments),
		},
	})
	if newStatus != oldStatus {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: reply.TicketID,
			Actor:    adminActor(actor),
			Payload: events.TicketStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: newStatus,
			},
		})
		if newStatus == domain.TicketStatusClosed {
			s.publishEvent(ctx, events.Event{
				Type:     events.EventTicketClosed,
				TicketID: reply.TicketID,
				Actor:    adminActor(actor),
				Payload: events.TicketClosedPayload{
					ClosedByAdminID: actor.ID,
					ClosedAt:        closedAt,
				},
			})
		}
	}
	return reply, nil
}

// ArchiveTicket marks a ticket archived without touching its status.
func (s *TicketService) ArchiveTicket(ctx context.Context, actor *domain.Admin, ticketID string) (*domain.Ticket, error) {
	if !authz.IsRoot(actor.Role) {
		return nil, apperrors.NewForbidden("only ROOT can archive tickets")
	}
	if err := s.stores.Tickets.SetArchived(ctx, ticketID, true); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	ticket, err := s.stores.Tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketArchived,
		TicketID: ticketID,
		Actor:    adminActor(actor),
		Payload:  events.TicketArchivedPayload{ArchivedByAdminID: actor.ID},
	})
	return ticket, nil
}

// UpdateTicket patches the editable ticket fields. The patch contract
// statically excludes the snapshot columns: they cannot be expressed here.
func (s *TicketService) UpdateTicket(ctx context.Context, actor *domain.Admin, ticketID string, patch repository.TicketPatch) (*domain.Ticket, error) {
	if !authz.IsRoot(actor.Role) {
		return nil, apperrors.NewForbidden("only ROOT can update tickets")
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority value", map[string]any{"priority": *patch.Priority})
	}
	if patch.AssignedAdminID != nil {
		if _, err := s.stores.Admins.GetByID(ctx, *patch.AssignedAdminID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("assigned admin does not exist", map[string]any{"admin_id": *patch.AssignedAdminID})
			}
			return nil, apperrors.MapError(err)
		}
	}
	if err := s.stores.Tickets.Patch(ctx, ticketID, patch); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	ticket, err := s.stores.Tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// GetTicketDetail fetches a ticket with its ordered replies, performer sets
// and attachments.
func (s *TicketService) GetTicketDetail(ctx context.Context, ticketID string) (*domain.Ticket, []domain.TicketReply, error) {
	ticket, err := s.stores.Tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, nil, apperrors.MapError(err)
	}
	replies, err := s.repliesWithRelations(ctx, ticket.ID)
	if err != nil {
		return nil, nil, err
	}
	return ticket, replies, nil
}

// ListTickets returns tickets newest first with optional filters.
func (s *TicketService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid status value", map[string]any{"status": *filter.Status})
	}
	if filter.Priority != nil && !filter.Priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority value", map[string]any{"priority": *filter.Priority})
	}
	tickets, err := s.stores.Tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// DashboardData aggregates the landing-page numbers.
type DashboardData struct {
	Stats  map[domain.TicketStatus]int64 `json:"stats"`
	Total  int64                         `json:"total"`
	Recent []domain.Ticket               `json:"recent"`
}

// Dashboard computes status-bucketed counts and the most recent tickets,
// serving from the Redis cache when warm.
func (s *TicketService) Dashboard(ctx context.Context) (*DashboardData, error) {
	if cached, err := s.cache.GetString(ctx, dashboardCacheKey); err == nil && cached != "" {
		var data DashboardData
		if err := json.Unmarshal([]byte(cached), &data); err == nil {
			return &data, nil
		}
	}

	counts, err := s.stores.Tickets.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	stats := make(map[domain.TicketStatus]int64, 5)
	var total int64
	for _, status := range []domain.TicketStatus{
		domain.TicketStatusPending,
		domain.TicketStatusAccepted,
		domain.TicketStatusInProgress,
		domain.TicketStatusDone,
		domain.TicketStatusClosed,
	} {
		stats[status] = counts[status]
		total += counts[status]
	}

	recent, err := s.stores.Tickets.List(ctx, repository.TicketFilter{Limit: dashboardRecent, IncludeArchived: true})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	data := &DashboardData{Stats: stats, Total: total, Recent: recent}
	if encoded, err := json.Marshal(data); err == nil {
		_ = s.cache.SetString(ctx, dashboardCacheKey, string(encoded), dashboardCacheTTL)
	}
	return data, nil
}

// AdminTicketActivity summarizes an admin's involvement in tickets.
type AdminTicketActivity struct {
	TotalTickets int
	Tickets      []domain.Ticket
}

// AdminTicketActivity lists tickets the admin created or performed work on.
func (s *TicketService) AdminTicketActivity(ctx context.Context, adminID string) (*AdminTicketActivity, error) {
	tickets, err := s.stores.Tickets.ListInvolvingAdmin(ctx, adminID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &AdminTicketActivity{TotalTickets: len(tickets), Tickets: tickets}, nil
}

func (s *TicketService) repliesWithRelations(ctx context.Context, ticketID string) ([]domain.TicketReply, error) {
	replies, err := s.stores.Replies.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range replies {
		performers, err := s.stores.Replies.ListPerformers(ctx, replies[i].ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		replies[i].Performers = performers

		attachments, err := s.stores.Attachments.ListByReply(ctx, replies[i].ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		replies[i].Attachments = attachments
	}
	return replies, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func transitionDeniedMessage(role domain.Role, from, to domain.TicketStatus) string {
	allowed := authz.AllowedTransitions(role, from)
	if len(allowed) == 0 {
		return fmt.Sprintf("invalid status transition from %s to %s", from, to)
	}
	names := make([]string, 0, len(allowed))
	for _, s := range allowed {
		names = append(names, string(s))
	}
	return fmt.Sprintf("invalid status transition from %s to %s; allowed: %s",
		from, to, strings.Join(names, ", "))
}

func snapshotOf(customer *domain.Customer, distributorName, note *string) domain.CustomerSnapshot {
	phone := customer.Phone
	location := customer.Location
	return domain.CustomerSnapshot{
		FullName:        customer.FullName,
		Username:        customer.Username,
		Password:        customer.Password,
		Phone:           &phone,
		Location:        &location,
		VLAN:            customer.VLAN,
		Speed:           customer.Speed,
		DistributorName: distributorName,
		Note:            note,
	}
}

func normalizeNote(note *string) *string {
	if note == nil || strings.TrimSpace(*note) == "" {
		return nil
	}
	return note
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func adminActor(admin *domain.Admin) events.Actor {
	return events.Actor{AdminID: admin.ID, Role: admin.Role}
}
