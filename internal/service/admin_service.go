package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/livetrack/support-service/internal/auth"
	"github.com/livetrack/support-service/internal/authz"
	"github.com/livetrack/support-service/internal/domain"
	"github.com/livetrack/support-service/internal/repository"
	apperrors "github.com/livetrack/support-service/pkg/util/errorutil"
)

const minPasswordLength = 8

// AdminService manages admin accounts. Account creation and deactivation
// are ROOT-only operations.
type AdminService struct {
	admins     repository.AdminRepository
	replies    repository.TicketReplyRepository
	bcryptCost int
}

// NewAdminService constructs the service.
func NewAdminService(admins repository.AdminRepository, replies repository.TicketReplyRepository, bcryptCost int) *AdminService {
	return &AdminService{admins: admins, replies: replies, bcryptCost: bcryptCost}
}

// CreateAdminInput holds the fields for a new admin account.
type CreateAdminInput struct {
	Username string
	Password string
	FullName string
	Phone    *string
	Location *string
}

// CreateAdmin registers a new ADMIN account, hashing the password and
// recording the creating ROOT.
func (s *AdminService) CreateAdmin(ctx context.Context, actor *domain.Admin, in CreateAdminInput) (*domain.Admin, error) {
	if !authz.CanCreateAdmin(actor.Role) {
		return nil, apperrors.NewForbidden("only ROOT can create admin accounts")
	}
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, apperrors.NewValidationError("username is required", nil)
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	if strings.TrimSpace(in.FullName) == "" {
		return nil, apperrors.NewValidationError("full_name is required", nil)
	}

	if _, err := s.admins.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewConflict("username already taken", map[string]any{"username": username})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	admin := &domain.Admin{
		Username:        username,
		PasswordHash:    hash,
		Role:            domain.RoleAdmin,
		FullName:        in.FullName,
		Phone:           in.Phone,
		Location:        in.Location,
		Active:          true,
		CreatedByRootID: &actor.ID,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, apperrors.MapError(err)
	}
	return admin, nil
}

// ToggleAdminStatus flips the active flag on the target account. ROOT
// accounts and the acting account itself are protected; those failures are
// validation errors, distinct from the 403 a non-ROOT caller receives.
func (s *AdminService) ToggleAdminStatus(ctx context.Context, actor *domain.Admin, targetID string) (*domain.Admin, error) {
	if !authz.CanManageAdmins(actor.Role) {
		return nil, apperrors.NewForbidden("only ROOT can change admin status")
	}

	target, err := s.admins.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("admin", map[string]any{"admin_id": targetID})
		}
		return nil, apperrors.MapError(err)
	}

	if target.Role == domain.RoleRoot {
		return nil, apperrors.NewValidationError("ROOT accounts cannot be deactivated", nil)
	}
	if target.ID == actor.ID {
		return nil, apperrors.NewValidationError("you cannot change your own status", nil)
	}

	if err := s.admins.SetActive(ctx, target.ID, !target.Active); err != nil {
		return nil, apperrors.MapError(err)
	}
	target.Active = !target.Active
	return target, nil
}

// UpdateAdminInput holds the mutable profile fields. Nil fields keep the
// stored value.
type UpdateAdminInput struct {
	Username *string
	FullName *string
	Phone    *string
	Location *string
}

// UpdateAdmin patches profile fields on the target account.
func (s *AdminService) UpdateAdmin(ctx context.Context, actor *domain.Admin, targetID string, in UpdateAdminInput) (*domain.Admin, error) {
	if !authz.CanManageAdmins(actor.Role) {
		return nil, apperrors.NewForbidden("only ROOT can update admin accounts")
	}

	target, err := s.admins.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("admin", map[string]any{"admin_id": targetID})
		}
		return nil, apperrors.MapError(err)
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return nil, apperrors.NewValidationError("username cannot be empty", nil)
		}
		if username != target.Username {
			if _, err := s.admins.GetByUsername(ctx, username); err == nil {
				return nil, apperrors.NewConflict("username already taken", map[string]any{"username": username})
			} else if !errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.MapError(err)
			}
		}
		target.Username = username
	}
	if in.FullName != nil {
		if strings.TrimSpace(*in.FullName) == "" {
			return nil, apperrors.NewValidationError("full_name cannot be empty", nil)
		}
		target.FullName = *in.FullName
	}
	if in.Phone != nil {
		target.Phone = in.Phone
	}
	if in.Location != nil {
		target.Location = in.Location
	}

	if err := s.admins.Update(ctx, target); err != nil {
		return nil, apperrors.MapError(err)
	}
	return target, nil
}

// ChangeAdminPassword sets a new password on the target account.
func (s *AdminService) ChangeAdminPassword(ctx context.Context, actor *domain.Admin, targetID, newPassword string) error {
	if !authz.CanManageAdmins(actor.Role) {
		return apperrors.NewForbidden("only ROOT can change admin passwords")
	}
	if len(newPassword) < minPasswordLength {
		return apperrors.NewValidationError("password must be at least 8 characters", nil)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.admins.UpdatePassword(ctx, targetID, hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("admin", map[string]any{"admin_id": targetID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// GetAdminProfile returns an admin profile. Non-ROOT actors may only read
// their own.
func (s *AdminService) GetAdminProfile(ctx context.Context, actor *domain.Admin, targetID string) (*domain.Admin, error) {
	if targetID == "" {
		targetID = actor.ID
	}
	if targetID != actor.ID && !authz.IsRoot(actor.Role) {
		return nil, apperrors.NewForbidden("not allowed to view other admin profiles")
	}
	admin, err := s.admins.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("admin", map[string]any{"admin_id": targetID})
		}
		return nil, apperrors.MapError(err)
	}
	return admin, nil
}

// AdminWithDoneCount pairs an admin with the number of DONE replies it
// performed.
type AdminWithDoneCount struct {
	Admin     domain.Admin
	DoneCount int64
}

// ListAdmins returns every account with its DONE-reply count.
func (s *AdminService) ListAdmins(ctx context.Context, actor *domain.Admin) ([]AdminWithDoneCount, error) {
	if !authz.CanManageAdmins(actor.Role) {
		return nil, apperrors.NewForbidden("only ROOT can list admin accounts")
	}
	admins, err := s.admins.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	counts, err := s.replies.CountDoneByAdmin(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	result := make([]AdminWithDoneCount, 0, len(admins))
	for _, admin := range admins {
		result = append(result, AdminWithDoneCount{Admin: admin, DoneCount: counts[admin.ID]})
	}
	return result, nil
}
