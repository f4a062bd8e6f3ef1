package dto

import (
	"time"

	"github.com/livetrack/support-service/internal/domain"
	"github.com/livetrack/support-service/internal/service"
)

// CustomerRequest is the payload for creating or replacing a customer.
type CustomerRequest struct {
	DistributorID *string `json:"distributor_id"`
	FullName      string  `json:"full_name"`
	Username      *string `json:"username"`
	Password      *string `json:"password"`
	Phone         string  `json:"phone"`
	Location      string  `json:"location"`
	VLAN          *string `json:"vlan"`
	Speed         *string `json:"speed"`
	Notes         *string `json:"notes"`
}

// ToInput maps the request to the service input.
func (r CustomerRequest) ToInput() service.CustomerInput {
	return service.CustomerInput{
		DistributorID: r.DistributorID,
		FullName:      r.FullName,
		Username:      r.Username,
		Password:      r.Password,
		Phone:         r.Phone,
		Location:      r.Location,
		VLAN:          r.VLAN,
		Speed:         r.Speed,
		Notes:         r.Notes,
	}
}

// BulkCustomerRequest wraps a batch of customer rows.
type BulkCustomerRequest struct {
	Customers []CustomerRequest `json:"customers"`
}

// CustomerResponse is the public customer shape.
type CustomerResponse struct {
	ID            string    `json:"id"`
	DistributorID *string   `json:"distributor_id"`
	FullName      string    `json:"full_name"`
	Username      *string   `json:"username"`
	Password      *string   `json:"password"`
	Phone         string    `json:"phone"`
	Location      string    `json:"location"`
	VLAN          *string   `json:"vlan"`
	Speed         *string   `json:"speed"`
	Notes         *string   `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewCustomerResponse maps the domain entity.
func NewCustomerResponse(customer *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:            customer.ID,
		DistributorID: customer.DistributorID,
		FullName:      customer.FullName,
		Username:      customer.Username,
		Password:      customer.Password,
		Phone:         customer.Phone,
		Location:      customer.Location,
		VLAN:          customer.VLAN,
		Speed:         customer.Speed,
		Notes:         customer.Notes,
		CreatedAt:     customer.CreatedAt,
	}
}

// NewCustomerResponses maps a slice.
func NewCustomerResponses(customers []domain.Customer) []CustomerResponse {
	result := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		result = append(result, NewCustomerResponse(&customers[i]))
	}
	return result
}
