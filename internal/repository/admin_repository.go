package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/livetrack/support-service/internal/domain"
)

// AdminRepository handles persistence for admin accounts.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	Update(ctx context.Context, admin *domain.Admin) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetActive(ctx context.Context, id string, active bool) error
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
	GetByUsername(ctx context.Context, username string) (*domain.Admin, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Admin, error)
	List(ctx context.Context) ([]domain.Admin, error)
}

type adminRepository struct {
	db Querier
}

// NewAdminRepository instantiates the repository.
func NewAdminRepository(db Querier) AdminRepository {
	return &adminRepository{db: db}
}

const adminColumns = `id, username, password_hash, role, full_name, phone, location, active_flag, created_by_root_id, created_at, updated_at`

func (r *adminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	const query = `
        INSERT INTO admins (username, password_hash, role, full_name, phone, location, active_flag, created_by_root_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		admin.Username,
		admin.PasswordHash,
		admin.Role,
		admin.FullName,
		admin.Phone,
		admin.Location,
		admin.Active,
		admin.CreatedByRootID,
	).Scan(&admin.ID, &admin.CreatedAt, &admin.UpdatedAt)
}

func (r *adminRepository) Update(ctx context.Context, admin *domain.Admin) error {
	const query = `
        UPDATE admins
        SET username=$1, full_name=$2, phone=$3, location=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.db.Exec(ctx, query,
		admin.Username,
		admin.FullName,
		admin.Phone,
		admin.Location,
		admin.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *adminRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE admins SET password_hash=$1, updated_at=NOW() WHERE id=$2`,
		passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *adminRepository) SetActive(ctx context.Context, id string, active bool) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE admins SET active_flag=$1, updated_at=NOW() WHERE id=$2`,
		active, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE username=$1`
	return r.fetchSingle(ctx, query, username)
}

func (r *adminRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Admin, error) {
	var admin domain.Admin
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&admin.ID,
		&admin.Username,
		&admin.PasswordHash,
		&admin.Role,
		&admin.FullName,
		&admin.Phone,
		&admin.Location,
		&admin.Active,
		&admin.CreatedByRootID,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Admin, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = ANY($1)`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAdmins(rows)
}

func (r *adminRepository) List(ctx context.Context) ([]domain.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAdmins(rows)
}

func scanAdmins(rows pgx.Rows) ([]domain.Admin, error) {
	var result []domain.Admin
	for rows.Next() {
		var admin domain.Admin
		if err := rows.Scan(
			&admin.ID,
			&admin.Username,
			&admin.PasswordHash,
			&admin.Role,
			&admin.FullName,
			&admin.Phone,
			&admin.Location,
			&admin.Active,
			&admin.CreatedByRootID,
			&admin.CreatedAt,
			&admin.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, admin)
	}
	return result, rows.Err()
}
