package repository

import (
	"context"

	"github.com/livetrack/support-service/internal/domain"
)

// TicketReplyRepository manages the append-only reply log and the
// performed-by links.
type TicketReplyRepository interface {
	Create(ctx context.Context, reply *domain.TicketReply) error
	AddPerformers(ctx context.Context, replyID string, adminIDs []string) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketReply, error)
	ListPerformers(ctx context.Context, replyID string) ([]domain.Admin, error)
	CountDoneByAdmin(ctx context.Context) (map[string]int64, error)
}

type ticketReplyRepository struct {
	db Querier
}

// NewTicketReplyRepository instantiates the repository.
func NewTicketReplyRepository(db Querier) TicketReplyRepository {
	return &ticketReplyRepository{db: db}
}

func (r *ticketReplyRepository) Create(ctx context.Context, reply *domain.TicketReply) error {
	const query = `
        INSERT INTO ticket_replies (ticket_id, admin_id, status, note, speed_test,
            username, password, vlan, speed, site_name, device_name)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		reply.TicketID,
		reply.AdminID,
		reply.Status,
		reply.Note,
		reply.SpeedTest,
		reply.Username,
		reply.Password,
		reply.VLAN,
		reply.Speed,
		reply.SiteName,
		reply.DeviceName,
	).Scan(&reply.ID, &reply.CreatedAt)
}

func (r *ticketReplyRepository) AddPerformers(ctx context.Context, replyID string, adminIDs []string) error {
	for _, adminID := range adminIDs {
		if _, err := r.db.Exec(ctx,
			`INSERT INTO ticket_reply_performers (reply_id, admin_id) VALUES ($1,$2)
             ON CONFLICT DO NOTHING`,
			replyID, adminID); err != nil {
			return err
		}
	}
	return nil
}

func (r *ticketReplyRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketReply, error) {
	const query = `
        SELECT id, ticket_id, admin_id, status, note, speed_test,
               username, password, vlan, speed, site_name, device_name, created_at
        FROM ticket_replies WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketReply
	for rows.Next() {
		var reply domain.TicketReply
		if err := rows.Scan(
			&reply.ID,
			&reply.TicketID,
			&reply.AdminID,
			&reply.Status,
			&reply.Note,
			&reply.SpeedTest,
			&reply.Username,
			&reply.Password,
			&reply.VLAN,
			&reply.Speed,
			&reply.SiteName,
			&reply.DeviceName,
			&reply.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, reply)
	}
	return result, rows.Err()
}

func (r *ticketReplyRepository) ListPerformers(ctx context.Context, replyID string) ([]domain.Admin, error) {
	query := `
        SELECT ` + adminColumns + ` FROM admins
        WHERE id IN (SELECT admin_id FROM ticket_reply_performers WHERE reply_id=$1)
        ORDER BY username ASC`
	rows, err := r.db.Query(ctx, query, replyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAdmins(rows)
}

// CountDoneByAdmin tallies DONE replies per performing admin, for the ROOT
// admin listing.
func (r *ticketReplyRepository) CountDoneByAdmin(ctx context.Context) (map[string]int64, error) {
	const query = `
        SELECT trp.admin_id, COUNT(*)
        FROM ticket_replies tr
        JOIN ticket_reply_performers trp ON trp.reply_id = tr.id
        WHERE tr.status = 'DONE'
        GROUP BY trp.admin_id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var adminID string
		var count int64
		if err := rows.Scan(&adminID, &count); err != nil {
			return nil, err
		}
		counts[adminID] = count
	}
	return counts, rows.Err()
}
