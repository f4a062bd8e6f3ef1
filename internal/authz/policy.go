// Package authz holds the role-based authorization policy: pure predicates
// over domain.Role plus the ticket status transition table. Handlers consult
// the predicates before invoking services; the ticket service re-checks the
// transition rules itself since those depend on lifecycle state.
package authz

import "github.com/livetrack/support-service/internal/domain"

// IsRoot reports whether the role is ROOT.
func IsRoot(role domain.Role) bool {
	return role == domain.RoleRoot
}

// CanCreateAdmin reports whether the role may create admin accounts.
func CanCreateAdmin(role domain.Role) bool {
	return role == domain.RoleRoot
}

// CanManageAdmins reports whether the role may update, deactivate or delete
// other admin accounts.
func CanManageAdmins(role domain.Role) bool {
	return role == domain.RoleRoot
}

// CanCreateTicket reports whether the role may open tickets (and, with them,
// customer records).
func CanCreateTicket(role domain.Role) bool {
	return role == domain.RoleRoot || role == domain.RoleAdmin
}

// CanAssignTicket reports whether the role may assign tickets to admins.
func CanAssignTicket(role domain.Role) bool {
	return role == domain.RoleRoot || role == domain.RoleAdmin
}

// CanDeleteTicket reports whether the role may delete tickets. There is no
// delete endpoint; the predicate exists for the archive path, which is the
// only destruction-adjacent operation.
func CanDeleteTicket(role domain.Role) bool {
	return role == domain.RoleRoot
}

// CanDeleteCustomer reports whether the role may delete customer records.
func CanDeleteCustomer(role domain.Role) bool {
	return role == domain.RoleRoot
}

// CanEditCustomerSnapshot always returns false. The snapshot columns on a
// ticket are write-once at creation; no role, ROOT included, may touch them
// afterward.
func CanEditCustomerSnapshot() bool {
	return false
}

// adminTransitions is the strict forward path ADMIN must walk. DONE has no
// outgoing edge here: closing is reserved for ROOT.
var adminTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusPending:    {domain.TicketStatusAccepted},
	domain.TicketStatusAccepted:   {domain.TicketStatusInProgress},
	domain.TicketStatusInProgress: {domain.TicketStatusDone},
	domain.TicketStatusDone:       {},
}

// CanChangeStatus is the single transition authority, parameterized by role.
// CLOSED is terminal for everyone. ADMIN follows the sequential lifecycle
// and cannot close. ROOT may move between any two non-CLOSED statuses and
// may close from any of them. Other roles may not change status at all.
func CanChangeStatus(role domain.Role, from, to domain.TicketStatus) bool {
	if !from.Valid() || !to.Valid() || from == domain.TicketStatusClosed {
		return false
	}
	switch role {
	case domain.RoleRoot:
		return from != to
	case domain.RoleAdmin:
		for _, next := range adminTransitions[from] {
			if next == to {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// AllowedTransitions returns the statuses the role may move a ticket to from
// the given status. Used to name the legal moves in rejection messages.
func AllowedTransitions(role domain.Role, from domain.TicketStatus) []domain.TicketStatus {
	if !from.Valid() || from == domain.TicketStatusClosed {
		return nil
	}
	switch role {
	case domain.RoleRoot:
		all := []domain.TicketStatus{
			domain.TicketStatusPending,
			domain.TicketStatusAccepted,
			domain.TicketStatusInProgress,
			domain.TicketStatusDone,
			domain.TicketStatusClosed,
		}
		out := make([]domain.TicketStatus, 0, len(all)-1)
		for _, s := range all {
			if s != from {
				out = append(out, s)
			}
		}
		return out
	case domain.RoleAdmin:
		return adminTransitions[from]
	default:
		return nil
	}
}
