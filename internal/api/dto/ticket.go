package dto

import (
	"time"

	"github.com/livetrack/support-service/internal/domain"
	"github.com/livetrack/support-service/internal/service"
)

// NewUserTicketRequest creates a customer and opens a NEW_USER ticket in one
// call.
type NewUserTicketRequest struct {
	DistributorID    string  `json:"distributor_id"`
	FullName         string  `json:"full_name"`
	Username         *string `json:"username"`
	Password         *string `json:"password"`
	Phone            string  `json:"phone"`
	Location         string  `json:"location"`
	VLAN             *string `json:"vlan"`
	Speed            *string `json:"speed"`
	Notes            *string `json:"notes"`
	AvailabilityTime *string `json:"availability_time"`
	Note             *string `json:"note"`
}

// MaintenanceTicketRequest opens a MAINTENANCE ticket against an existing
// customer.
type MaintenanceTicketRequest struct {
	CustomerID       string                `json:"customer_id"`
	Priority         domain.TicketPriority `json:"priority"`
	AvailabilityTime *string               `json:"availability_time"`
	Note             *string               `json:"note"`
}

// UpdateTicketRequest patches the editable ticket fields. Snapshot fields
// have no representation here.
type UpdateTicketRequest struct {
	Priority         *domain.TicketPriority `json:"priority"`
	AvailabilityTime *string                `json:"availability_time"`
	AssignedAdminID  *string                `json:"assigned_admin_id"`
}

// ReplyFormFields is the non-file part of the multipart reply form. The
// performed_by field arrives as a JSON-encoded array of admin ids.
type ReplyFormFields struct {
	Status     *domain.TicketStatus
	Note       *string
	SpeedTest  *string
	Username   *string
	Password   *string
	VLAN       *string
	Speed      *string
	SiteName   *string
	DeviceName *string
}

// SnapshotResponse exposes the point-in-time customer copy on a ticket.
type SnapshotResponse struct {
	FullName        string  `json:"full_name"`
	Username        *string `json:"username"`
	Password        *string `json:"password"`
	Phone           *string `json:"phone"`
	Location        *string `json:"location"`
	VLAN            *string `json:"vlan"`
	Speed           *string `json:"speed"`
	DistributorName *string `json:"distributor_name"`
	Note            *string `json:"note"`
}

// TicketResponse is the public ticket shape.
type TicketResponse struct {
	ID               string                `json:"id"`
	TicketType       domain.TicketType     `json:"ticket_type"`
	Priority         domain.TicketPriority `json:"priority"`
	Status           domain.TicketStatus   `json:"status"`
	CustomerID       string                `json:"customer_id"`
	CreatedByAdminID *string               `json:"created_by_admin_id"`
	AssignedAdminID  *string               `json:"assigned_admin_id"`
	AvailabilityTime *string               `json:"availability_time"`
	IsArchived       bool                  `json:"is_archived"`
	Customer         SnapshotResponse      `json:"customer"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
	ClosedAt         *time.Time            `json:"closed_at"`
	ClosedByAdminID  *string               `json:"closed_by_admin_id"`
}

// NewTicketResponse maps the domain entity.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:               ticket.ID,
		TicketType:       ticket.TicketType,
		Priority:         ticket.Priority,
		Status:           ticket.Status,
		CustomerID:       ticket.CustomerID,
		CreatedByAdminID: ticket.CreatedByAdminID,
		AssignedAdminID:  ticket.AssignedAdminID,
		AvailabilityTime: ticket.AvailabilityTime,
		IsArchived:       ticket.IsArchived,
		Customer: SnapshotResponse{
			FullName:        ticket.Snapshot.FullName,
			Username:        ticket.Snapshot.Username,
			Password:        ticket.Snapshot.Password,
			Phone:           ticket.Snapshot.Phone,
			Location:        ticket.Snapshot.Location,
			VLAN:            ticket.Snapshot.VLAN,
			Speed:           ticket.Snapshot.Speed,
			DistributorName: ticket.Snapshot.DistributorName,
			Note:            ticket.Snapshot.Note,
		},
		CreatedAt:       ticket.CreatedAt,
		UpdatedAt:       ticket.UpdatedAt,
		ClosedAt:        ticket.ClosedAt,
		ClosedByAdminID: ticket.ClosedByAdminID,
	}
}

// NewTicketResponses maps a slice.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	result := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		result = append(result, NewTicketResponse(&tickets[i]))
	}
	return result
}

// PerformerResponse is the compact admin shape embedded in replies.
type PerformerResponse struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	FullName string      `json:"full_name"`
	Role     domain.Role `json:"role"`
}

// AttachmentResponse is the public attachment shape.
type AttachmentResponse struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// ReplyResponse is the public reply shape.
type ReplyResponse struct {
	ID          string               `json:"id"`
	TicketID    string               `json:"ticket_id"`
	AdminID     string               `json:"admin_id"`
	Status      domain.TicketStatus  `json:"status"`
	Note        *string              `json:"note"`
	SpeedTest   *string              `json:"speed_test"`
	Username    *string              `json:"username"`
	Password    *string              `json:"password"`
	VLAN        *string              `json:"vlan"`
	Speed       *string              `json:"speed"`
	SiteName    *string              `json:"site_name"`
	DeviceName  *string              `json:"device_name"`
	Performers  []PerformerResponse  `json:"performed_by"`
	Attachments []AttachmentResponse `json:"attachments"`
	CreatedAt   time.Time            `json:"created_at"`
}

// NewReplyResponse maps the domain entity.
func NewReplyResponse(reply *domain.TicketReply) ReplyResponse {
	performers := make([]PerformerResponse, 0, len(reply.Performers))
	for _, admin := range reply.Performers {
		performers = append(performers, PerformerResponse{
			ID:       admin.ID,
			Username: admin.Username,
			FullName: admin.FullName,
			Role:     admin.Role,
		})
	}
	attachments := make([]AttachmentResponse, 0, len(reply.Attachments))
	for _, attachment := range reply.Attachments {
		attachments = append(attachments, AttachmentResponse{
			ID:        attachment.ID,
			FileName:  attachment.FileName,
			URL:       attachment.URL,
			CreatedAt: attachment.CreatedAt,
		})
	}
	return ReplyResponse{
		ID:          reply.ID,
		TicketID:    reply.TicketID,
		AdminID:     reply.AdminID,
		Status:      reply.Status,
		Note:        reply.Note,
		SpeedTest:   reply.SpeedTest,
		Username:    reply.Username,
		Password:    reply.Password,
		VLAN:        reply.VLAN,
		Speed:       reply.Speed,
		SiteName:    reply.SiteName,
		DeviceName:  reply.DeviceName,
		Performers:  performers,
		Attachments: attachments,
		CreatedAt:   reply.CreatedAt,
	}
}

// NewReplyResponses maps a slice.
func NewReplyResponses(replies []domain.TicketReply) []ReplyResponse {
	result := make([]ReplyResponse, 0, len(replies))
	for i := range replies {
		result = append(result, NewReplyResponse(&replies[i]))
	}
	return result
}

// TicketDetailResponse bundles a ticket with its ordered replies.
type TicketDetailResponse struct {
	Ticket  TicketResponse  `json:"ticket"`
	Replies []ReplyResponse `json:"replies"`
}

// DashboardResponse exposes the landing-page aggregation.
type DashboardResponse struct {
	Stats  map[domain.TicketStatus]int64 `json:"stats"`
	Total  int64                         `json:"total"`
	Recent []TicketResponse              `json:"recent"`
}

// NewDashboardResponse maps the service aggregation.
func NewDashboardResponse(data *service.DashboardData) DashboardResponse {
	return DashboardResponse{
		Stats:  data.Stats,
		Total:  data.Total,
		Recent: NewTicketResponses(data.Recent),
	}
}
