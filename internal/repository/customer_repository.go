package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/livetrack/support-service/internal/domain"
)

// CustomerFilter captures customer listing parameters.
type CustomerFilter struct {
	Phone  *string
	Limit  int
	Offset int
}

// CustomerRepository encapsulates customer persistence.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context, filter CustomerFilter) ([]domain.Customer, error)
}

type customerRepository struct {
	db Querier
}

// NewCustomerRepository instantiates the repository.
func NewCustomerRepository(db Querier) CustomerRepository {
	return &customerRepository{db: db}
}

const customerColumns = `id, distributor_id, full_name, username, password, phone, location, vlan, speed, notes, created_at`

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	const query = `
        INSERT INTO customers (distributor_id, full_name, username, password, phone, location, vlan, speed, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		customer.DistributorID,
		customer.FullName,
		customer.Username,
		customer.Password,
		customer.Phone,
		customer.Location,
		customer.VLAN,
		customer.Speed,
		customer.Notes,
	).Scan(&customer.ID, &customer.CreatedAt)
}

func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	const query = `
        UPDATE customers
        SET distributor_id=$1, full_name=$2, username=$3, password=$4, phone=$5,
            location=$6, vlan=$7, speed=$8, notes=$9
        WHERE id=$10`
	cmd, err := r.db.Exec(ctx, query,
		customer.DistributorID,
		customer.FullName,
		customer.Username,
		customer.Password,
		customer.Phone,
		customer.Location,
		customer.VLAN,
		customer.Speed,
		customer.Notes,
		customer.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id=$1`
	var c domain.Customer
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.DistributorID,
		&c.FullName,
		&c.Username,
		&c.Password,
		&c.Phone,
		&c.Location,
		&c.VLAN,
		&c.Speed,
		&c.Notes,
		&c.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepository) List(ctx context.Context, filter CustomerFilter) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers`
	args := []any{}
	clauses := []string{}

	if filter.Phone != nil && strings.TrimSpace(*filter.Phone) != "" {
		args = append(args, "%"+strings.TrimSpace(*filter.Phone)+"%")
		clauses = append(clauses, fmt.Sprintf("phone LIKE $%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(
			&c.ID,
			&c.DistributorID,
			&c.FullName,
			&c.Username,
			&c.Password,
			&c.Phone,
			&c.Location,
			&c.VLAN,
			&c.Speed,
			&c.Notes,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
