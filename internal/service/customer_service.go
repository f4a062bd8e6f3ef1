package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/livetrack/support-service/internal/authz"
	"github.com/livetrack/support-service/internal/domain"
	"github.com/livetrack/support-service/internal/repository"
	apperrors "github.com/livetrack/support-service/pkg/util/errorutil"
)

// CustomerService manages the customer directory. Editing a customer never
// touches the snapshots on existing tickets.
type CustomerService struct {
	customers    repository.CustomerRepository
	distributors repository.DistributorRepository
	tx           repository.TxRunner
}

// NewCustomerService constructs the service.
func NewCustomerService(customers repository.CustomerRepository, distributors repository.DistributorRepository, tx repository.TxRunner) *CustomerService {
	return &CustomerService{customers: customers, distributors: distributors, tx: tx}
}

// CustomerInput holds the customer fields for create and update.
type CustomerInput struct {
	DistributorID *string
	FullName      string
	Username      *string
	Password      *string
	Phone         string
	Location      string
	VLAN          *string
	Speed         *string
	Notes         *string
}

func (s *CustomerService) validateInput(ctx context.Context, in CustomerInput) error {
	if strings.TrimSpace(in.FullName) == "" {
		return apperrors.NewValidationError("full_name is required", nil)
	}
	if in.DistributorID != nil {
		if _, err := s.distributors.GetByID(ctx, *in.DistributorID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewValidationError("distributor does not exist", map[string]any{"distributor_id": *in.DistributorID})
			}
			return apperrors.MapError(err)
		}
	}
	return nil
}

// CreateCustomer adds a customer record.
func (s *CustomerService) CreateCustomer(ctx context.Context, actor *domain.Admin, in CustomerInput) (*domain.Customer, error) {
	if !authz.CanCreateTicket(actor.Role) {
		return nil, apperrors.NewForbidden("not allowed to manage customers")
	}
	if err := s.validateInput(ctx, in); err != nil {
		return nil, err
	}

	customer := customerFromInput(in)
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// BulkCreateCustomers inserts a batch atomically: one invalid row aborts
// the whole batch.
func (s *CustomerService) BulkCreateCustomers(ctx context.Context, actor *domain.Admin, inputs []CustomerInput) ([]domain.Customer, error) {
	if !authz.CanCreateTicket(actor.Role) {
		return nil, apperrors.NewForbidden("not allowed to manage customers")
	}
	if len(inputs) == 0 {
		return nil, apperrors.NewValidationError("at least one customer is required", nil)
	}
	for i, in := range inputs {
		if err := s.validateInput(ctx, in); err != nil {
			var de *apperrors.DomainError
			if errors.As(err, &de) {
				return nil, apperrors.NewValidationError(
					fmt.Sprintf("row %d: %s", i, de.Message), de.Details)
			}
			return nil, err
		}
	}

	created := make([]domain.Customer, 0, len(inputs))
	err := s.tx.InTx(ctx, func(stores repository.Stores) error {
		for _, in := range inputs {
			customer := customerFromInput(in)
			if err := stores.Customers.Create(ctx, customer); err != nil {
				return apperrors.MapError(err)
			}
			created = append(created, *customer)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetCustomer fetches a customer by id.
func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer", map[string]any{"customer_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// ListCustomers lists customers, optionally filtered by a phone fragment.
func (s *CustomerService) ListCustomers(ctx context.Context, filter repository.CustomerFilter) ([]domain.Customer, error) {
	customers, err := s.customers.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return customers, nil
}

// UpdateCustomer replaces the customer fields. Snapshots already taken on
// tickets are unaffected.
func (s *CustomerService) UpdateCustomer(ctx context.Context, actor *domain.Admin, id string, in CustomerInput) (*domain.Customer, error) {
	if !authz.CanCreateTicket(actor.Role) {
		return nil, apperrors.NewForbidden("not allowed to manage customers")
	}
	if err := s.validateInput(ctx, in); err != nil {
		return nil, err
	}

	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer", map[string]any{"customer_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	customer.DistributorID = in.DistributorID
	customer.FullName = in.FullName
	customer.Username = in.Username
	customer.Password = in.Password
	customer.Phone = in.Phone
	customer.Location = in.Location
	customer.VLAN = in.VLAN
	customer.Speed = in.Speed
	customer.Notes = in.Notes

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// DeleteCustomer removes a customer. Tickets cascade away with it.
func (s *CustomerService) DeleteCustomer(ctx context.Context, actor *domain.Admin, id string) error {
	if !authz.CanDeleteCustomer(actor.Role) {
		return apperrors.NewForbidden("only ROOT can delete customers")
	}
	if err := s.customers.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("customer", map[string]any{"customer_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func customerFromInput(in CustomerInput) *domain.Customer {
	return &domain.Customer{
		DistributorID: in.DistributorID,
		FullName:      in.FullName,
		Username:      in.Username,
		Password:      in.Password,
		Phone:         in.Phone,
		Location:      in.Location,
		VLAN:          in.VLAN,
		Speed:         in.Speed,
		Notes:         in.Notes,
	}
}
