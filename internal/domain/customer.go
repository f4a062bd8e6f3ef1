package domain

import "time"

// Customer is a subscriber record. The username/password pair holds the
// subscriber's device credentials, not secrets for this system. The
// distributor reference is weak: deleting a distributor leaves the customer
// in place with the reference nulled.
type Customer struct {
	ID            string
	DistributorID *string
	FullName      string
	Username      *string
	Password      *string
	Phone         string
	Location      string
	VLAN          *string
	Speed         *string
	Notes         *string
	CreatedAt     time.Time
}
