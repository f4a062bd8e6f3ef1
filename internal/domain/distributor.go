package domain

import "time"

// Distributor is a regional reseller that owns customers.
type Distributor struct {
	ID        string
	Name      string
	Area      *string
	CreatedAt time.Time
}
