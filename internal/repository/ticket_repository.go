package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/livetrack/support-service/internal/domain"
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	Status          *domain.TicketStatus
	Priority        *domain.TicketPriority
	IncludeArchived bool
	Limit           int
	Offset          int
}

// TicketPatch carries the only fields ROOT may edit after creation. The
// snapshot columns are deliberately absent: they are write-once.
type TicketPatch struct {
	Priority         *domain.TicketPriority
	AvailabilityTime *string
	AssignedAdminID  *string
}

// TicketRepository encapsulates ticket persistence. Status and closing
// stamps have dedicated narrow writes mirroring the lifecycle steps; there
// is no whole-row update that could touch the snapshot.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	ListInvolvingAdmin(ctx context.Context, adminID string) ([]domain.Ticket, error)
	SetStatus(ctx context.Context, id string, status domain.TicketStatus) error
	StampClosed(ctx context.Context, id, adminID string, at time.Time) error
	Patch(ctx context.Context, id string, patch TicketPatch) error
	SetArchived(ctx context.Context, id string, archived bool) error
	CountByStatus(ctx context.Context) (map[domain.TicketStatus]int64, error)
}

type ticketRepository struct {
	db Querier
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(db Querier) TicketRepository {
	return &ticketRepository{db: db}
}

const ticketColumns = `id, ticket_type, priority, status, customer_id, created_by_admin_id,
               assigned_admin_id, availability_time, is_archived,
               customer_full_name, customer_username, customer_password, customer_phone,
               customer_location, vlan, speed, distributor_name, customer_note,
               created_at, updated_at, closed_at, closed_by_admin_id`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_type, priority, status, customer_id, created_by_admin_id,
            assigned_admin_id, availability_time, is_archived,
            customer_full_name, customer_username, customer_password, customer_phone,
            customer_location, vlan, speed, distributor_name, customer_note)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		ticket.TicketType,
		ticket.Priority,
		ticket.Status,
		ticket.CustomerID,
		ticket.CreatedByAdminID,
		ticket.AssignedAdminID,
		ticket.AvailabilityTime,
		ticket.IsArchived,
		ticket.Snapshot.FullName,
		ticket.Snapshot.Username,
		ticket.Snapshot.Password,
		ticket.Snapshot.Phone,
		ticket.Snapshot.Location,
		ticket.Snapshot.VLAN,
		ticket.Snapshot.Speed,
		ticket.Snapshot.DistributorName,
		ticket.Snapshot.Note,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	var t domain.Ticket
	if err := scanTicket(r.db.QueryRow(ctx, query, id), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets`
	args := []any{}
	clauses := []string{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if !filter.IncludeArchived {
		clauses = append(clauses, "is_archived=FALSE")
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
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
	return scanTickets(rows)
}

// ListInvolvingAdmin returns tickets the admin created or performed work on,
// newest first.
func (r *ticketRepository) ListInvolvingAdmin(ctx context.Context, adminID string) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets
        WHERE created_by_admin_id=$1
           OR id IN (
               SELECT tr.ticket_id FROM ticket_replies tr
               JOIN ticket_reply_performers trp ON trp.reply_id = tr.id
               WHERE trp.admin_id=$1)
        ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, adminID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) SetStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE tickets SET status=$1, updated_at=NOW() WHERE id=$2`,
		status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// StampClosed sets the closing fields only when not already set: the stamp
// is write-once.
func (r *ticketRepository) StampClosed(ctx context.Context, id, adminID string, at time.Time) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE tickets SET closed_at=$1, closed_by_admin_id=$2
         WHERE id=$3 AND closed_at IS NULL`,
		at, adminID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Patch(ctx context.Context, id string, patch TicketPatch) error {
	sets := []string{"updated_at=NOW()"}
	args := []any{}

	if patch.Priority != nil {
		args = append(args, *patch.Priority)
		sets = append(sets, fmt.Sprintf("priority=$%d", len(args)))
	}
	if patch.AvailabilityTime != nil {
		args = append(args, *patch.AvailabilityTime)
		sets = append(sets, fmt.Sprintf("availability_time=$%d", len(args)))
	}
	if patch.AssignedAdminID != nil {
		args = append(args, *patch.AssignedAdminID)
		sets = append(sets, fmt.Sprintf("assigned_admin_id=$%d", len(args)))
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE tickets SET %s WHERE id=$%d`, strings.Join(sets, ", "), len(args))
	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) SetArchived(ctx context.Context, id string, archived bool) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE tickets SET is_archived=$1, updated_at=NOW() WHERE id=$2`,
		archived, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) CountByStatus(ctx context.Context) (map[domain.TicketStatus]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM tickets GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.TicketStatus]int64)
	for rows.Next() {
		var status domain.TicketStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func scanTicket(row pgx.Row, t *domain.Ticket) error {
	return row.Scan(
		&t.ID,
		&t.TicketType,
		&t.Priority,
		&t.Status,
		&t.CustomerID,
		&t.CreatedByAdminID,
		&t.AssignedAdminID,
		&t.AvailabilityTime,
		&t.IsArchived,
		&t.Snapshot.FullName,
		&t.Snapshot.Username,
		&t.Snapshot.Password,
		&t.Snapshot.Phone,
		&t.Snapshot.Location,
		&t.Snapshot.VLAN,
		&t.Snapshot.Speed,
		&t.Snapshot.DistributorName,
		&t.Snapshot.Note,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.ClosedAt,
		&t.ClosedByAdminID,
	)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var t domain.Ticket
		if err := scanTicket(rows, &t); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
