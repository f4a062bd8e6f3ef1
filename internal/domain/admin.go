package domain

import "time"

// Role enumerates the closed set of operator roles. Authorization decisions
// switch over this type rather than comparing raw strings.
type Role string

const (
	RoleRoot        Role = "ROOT"
	RoleAdmin       Role = "ADMIN"
	RoleDistributor Role = "DISTRIBUTOR"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleRoot, RoleAdmin, RoleDistributor:
		return true
	}
	return false
}

// Admin is an operator account. ROOT accounts manage other admins and own
// the terminal lifecycle actions; ADMIN accounts process tickets;
// DISTRIBUTOR accounts exist for directory purposes only.
type Admin struct {
	ID              string
	Username        string
	PasswordHash    string
	Role            Role
	FullName        string
	Phone           *string
	Location        *string
	Active          bool
	CreatedByRootID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
