package repository

import (
	"context"

	"github.com/livetrack/support-service/internal/domain"
)

// AttachmentRepository persists reply attachment metadata.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *domain.ReplyAttachment) error
	ListByReply(ctx context.Context, replyID string) ([]domain.ReplyAttachment, error)
}

type attachmentRepository struct {
	db Querier
}

// NewAttachmentRepository constructs the repository.
func NewAttachmentRepository(db Querier) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *domain.ReplyAttachment) error {
	const query = `
        INSERT INTO ticket_reply_attachments (reply_id, storage_key, file_name, url)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		attachment.ReplyID,
		attachment.StorageKey,
		attachment.FileName,
		attachment.URL,
	).Scan(&attachment.ID, &attachment.CreatedAt)
}

func (r *attachmentRepository) ListByReply(ctx context.Context, replyID string) ([]domain.ReplyAttachment, error) {
	const query = `
        SELECT id, reply_id, storage_key, file_name, url, created_at
        FROM ticket_reply_attachments WHERE reply_id=$1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, replyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ReplyAttachment
	for rows.Next() {
		var attachment domain.ReplyAttachment
		if err := rows.Scan(
			&attachment.ID,
			&attachment.ReplyID,
			&attachment.StorageKey,
			&attachment.FileName,
			&attachment.URL,
			&attachment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, attachment)
	}
	return result, rows.Err()
}
