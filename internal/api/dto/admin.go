package dto

import (
	"time"

	"github.com/livetrack/support-service/internal/domain"
	"github.com/livetrack/support-service/internal/service"
)

// CreateAdminRequest is the payload for registering an admin account.
type CreateAdminRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone"`
	Location *string `json:"location"`
}

// UpdateAdminRequest patches admin profile fields. Absent fields are kept.
type UpdateAdminRequest struct {
	Username *string `json:"username"`
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Location *string `json:"location"`
}

// ChangePasswordRequest sets a new password on an account.
type ChangePasswordRequest struct {
	Password string `json:"password"`
}

// AdminResponse is the public shape of an admin account. The password hash
// never leaves the service.
type AdminResponse struct {
	ID              string      `json:"id"`
	Username        string      `json:"username"`
	Role            domain.Role `json:"role"`
	FullName        string      `json:"full_name"`
	Phone           *string     `json:"phone"`
	Location        *string     `json:"location"`
	Active          bool        `json:"active"`
	CreatedByRootID *string     `json:"created_by_root_id"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// NewAdminResponse maps the domain entity.
func NewAdminResponse(admin *domain.Admin) AdminResponse {
	return AdminResponse{
		ID:              admin.ID,
		Username:        admin.Username,
		Role:            admin.Role,
		FullName:        admin.FullName,
		Phone:           admin.Phone,
		Location:        admin.Location,
		Active:          admin.Active,
		CreatedByRootID: admin.CreatedByRootID,
		CreatedAt:       admin.CreatedAt,
		UpdatedAt:       admin.UpdatedAt,
	}
}

// AdminListItem pairs an account with its DONE-reply count.
type AdminListItem struct {
	AdminResponse
	DoneCount int64 `json:"done_count"`
}

// NewAdminListItems maps the service aggregation.
func NewAdminListItems(items []service.AdminWithDoneCount) []AdminListItem {
	result := make([]AdminListItem, 0, len(items))
	for i := range items {
		result = append(result, AdminListItem{
			AdminResponse: NewAdminResponse(&items[i].Admin),
			DoneCount:     items[i].DoneCount,
		})
	}
	return result
}
