package dto

import (
	"time"

	"github.com/livetrack/support-service/internal/domain"
)

// CreateDistributorRequest is the payload for adding a distributor.
type CreateDistributorRequest struct {
	Name string  `json:"name"`
	Area *string `json:"area"`
}

// DistributorResponse is the public distributor shape.
type DistributorResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Area      *string   `json:"area"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDistributorResponse maps the domain entity.
func NewDistributorResponse(distributor *domain.Distributor) DistributorResponse {
	return DistributorResponse{
		ID:        distributor.ID,
		Name:      distributor.Name,
		Area:      distributor.Area,
		CreatedAt: distributor.CreatedAt,
	}
}

// NewDistributorResponses maps a slice.
func NewDistributorResponses(distributors []domain.Distributor) []DistributorResponse {
	result := make([]DistributorResponse, 0, len(distributors))
	for i := range distributors {
		result = append(result, NewDistributorResponse(&distributors[i]))
	}
	return result
}
