package domain

import "time"

// TicketReply is one entry in a ticket's append-only action log. Status is a
// copy of the ticket's status immediately after the reply was applied.
// Performers are the crew credited with the field work, which may differ
// from the authoring admin. The technical fields document configuration
// changes made on the subscriber side.
type TicketReply struct {
	ID          string
	TicketID    string
	AdminID     string
	Status      TicketStatus
	Note        *string
	SpeedTest   *string
	Username    *string
	Password    *string
	VLAN        *string
	Speed       *string
	SiteName    *string
	DeviceName  *string
	Performers  []Admin
	Attachments []ReplyAttachment
	CreatedAt   time.Time
}

// ReplyAttachment is a stored file linked to a reply.
type ReplyAttachment struct {
	ID         string
	ReplyID    string
	StorageKey string
	FileName   string
	URL        string
	CreatedAt  time.Time
}
