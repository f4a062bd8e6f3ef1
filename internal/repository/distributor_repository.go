package repository

import (
	"context"

	"github.com/livetrack/support-service/internal/domain"
)

// DistributorRepository handles persistence for distributors.
type DistributorRepository interface {
	Create(ctx context.Context, distributor *domain.Distributor) error
	GetByID(ctx context.Context, id string) (*domain.Distributor, error)
	List(ctx context.Context) ([]domain.Distributor, error)
}

type distributorRepository struct {
	db Querier
}

// NewDistributorRepository instantiates the repository.
func NewDistributorRepository(db Querier) DistributorRepository {
	return &distributorRepository{db: db}
}

func (r *distributorRepository) Create(ctx context.Context, distributor *domain.Distributor) error {
	const query = `
        INSERT INTO distributors (name, area)
        VALUES ($1,$2)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		distributor.Name,
		distributor.Area,
	).Scan(&distributor.ID, &distributor.CreatedAt)
}

func (r *distributorRepository) GetByID(ctx context.Context, id string) (*domain.Distributor, error) {
	const query = `
        SELECT id, name, area, created_at
        FROM distributors WHERE id=$1`
	var d domain.Distributor
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&d.ID,
		&d.Name,
		&d.Area,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *distributorRepository) List(ctx context.Context) ([]domain.Distributor, error) {
	const query = `
        SELECT id, name, area, created_at
        FROM distributors ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Distributor
	for rows.Next() {
		var d domain.Distributor
		if err := rows.Scan(&d.ID, &d.Name, &d.Area, &d.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}
