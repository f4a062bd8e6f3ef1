package events

import (
	"time"

	"github.com/livetrack/support-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketReplyAdded    EventType = "ticket_reply_added"
	EventTicketClosed        EventType = "ticket_closed"
	EventTicketArchived      EventType = "ticket_archived"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	AdminID string      `json:"admin_id"`
	Role    domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketType domain.TicketType     `json:"ticket_type"`
	Priority   domain.TicketPriority `json:"priority"`
	CustomerID string                `json:"customer_id"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketReplyAddedPayload payload.
type TicketReplyAddedPayload struct {
	ReplyID      string              `json:"reply_id"`
	Status       domain.TicketStatus `json:"status"`
	PerformerIDs []string            `json:"performer_ids"`
	Attachments  int                 `json:"attachments"`
}

// TicketClosedPayload payload.
type TicketClosedPayload struct {
	ClosedByAdminID string    `json:"closed_by_admin_id"`
	ClosedAt        time.Time `json:"closed_at"`
}

// TicketArchivedPayload payload.
type TicketArchivedPayload struct {
	ArchivedByAdminID string `json:"archived_by_admin_id"`
}
