package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "PENDING"
	TicketStatusAccepted   TicketStatus = "ACCEPTED"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusDone       TicketStatus = "DONE"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// Valid reports whether the status is one of the five known values.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusPending, TicketStatusAccepted, TicketStatusInProgress,
		TicketStatusDone, TicketStatusClosed:
		return true
	}
	return false
}

// TicketType distinguishes new-subscriber installs from maintenance calls.
type TicketType string

const (
	TicketTypeNewUser     TicketType = "NEW_USER"
	TicketTypeMaintenance TicketType = "MAINTENANCE"
)

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityImportant TicketPriority = "IMPORTANT"
	TicketPriorityNormal    TicketPriority = "NORMAL"
)

// Valid reports whether the priority is a known value.
func (p TicketPriority) Valid() bool {
	return p == TicketPriorityImportant || p == TicketPriorityNormal
}

// CustomerSnapshot is the point-in-time copy of a customer's attributes
// taken when a ticket is created. Tickets are historical records: the
// snapshot is write-once and never re-synced from the live customer.
type CustomerSnapshot struct {
	FullName        string
	Username        *string
	Password        *string
	Phone           *string
	Location        *string
	VLAN            *string
	Speed           *string
	DistributorName *string
	Note            *string
}

// Ticket is the aggregate for support work against a customer. The customer
// reference is strong (the ticket dies with the customer); admin references
// are weak and survive admin deletion.
type Ticket struct {
	ID               string
	TicketType       TicketType
	Priority         TicketPriority
	Status           TicketStatus
	CustomerID       string
	CreatedByAdminID *string
	AssignedAdminID  *string
	AvailabilityTime *string
	IsArchived       bool
	Snapshot         CustomerSnapshot
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ClosedAt         *time.Time
	ClosedByAdminID  *string
}
