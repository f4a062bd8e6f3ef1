package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/livetrack/support-service/internal/authz"
	"github.com/livetrack/support-service/internal/domain"
	"github.com/livetrack/support-service/internal/repository"
	apperrors "github.com/livetrack/support-service/pkg/util/errorutil"
)

// DistributorService manages the distributor directory.
type DistributorService struct {
	distributors repository.DistributorRepository
}

// NewDistributorService constructs the service.
func NewDistributorService(distributors repository.DistributorRepository) *DistributorService {
	return &DistributorService{distributors: distributors}
}

// CreateDistributor adds a distributor. ROOT only.
func (s *DistributorService) CreateDistributor(ctx context.Context, actor *domain.Admin, name string, area *string) (*domain.Distributor, error) {
	if !authz.IsRoot(actor.Role) {
		return nil, apperrors.NewForbidden("only ROOT can create distributors")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}

	distributor := &domain.Distributor{Name: name, Area: area}
	if err := s.distributors.Create(ctx, distributor); err != nil {
		return nil, apperrors.MapError(err)
	}
	return distributor, nil
}

// GetDistributor fetches a distributor by id.
func (s *DistributorService) GetDistributor(ctx context.Context, id string) (*domain.Distributor, error) {
	distributor, err := s.distributors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("distributor", map[string]any{"distributor_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return distributor, nil
}

// ListDistributors returns all distributors.
func (s *DistributorService) ListDistributors(ctx context.Context) ([]domain.Distributor, error) {
	distributors, err := s.distributors.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return distributors, nil
}
