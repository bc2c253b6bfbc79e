package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aryaminakshi71/helpdesk/internal/domain"
)

// AttachmentRepository persists attachment metadata.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *domain.TicketAttachment) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketAttachment, error)
}

type attachmentRepository struct {
	pool *pgxpool.Pool
}

// NewAttachmentRepository constructs repository.
func NewAttachmentRepository(pool *pgxpool.Pool) AttachmentRepository {
	return &attachmentRepository{pool: pool}
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *domain.TicketAttachment) error {
	const query = `
        INSERT INTO ticket_attachments (ticket_id, comment_id, file_name, file_key, file_size, mime_type, uploaded_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		attachment.TicketID,
		attachment.CommentID,
		attachment.FileName,
		attachment.FileKey,
		attachment.FileSize,
		attachment.MimeType,
		attachment.UploadedBy,
	).Scan(&attachment.ID, &attachment.CreatedAt)
}

func (r *attachmentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketAttachment, error) {
	const query = `
        SELECT id, ticket_id, comment_id, file_name, file_key, file_size, mime_type, uploaded_by, created_at
        FROM ticket_attachments WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketAttachment
	for rows.Next() {
		var attachment domain.TicketAttachment
		if err := rows.Scan(
			&attachment.ID,
			&attachment.TicketID,
			&attachment.CommentID,
			&attachment.FileName,
			&attachment.FileKey,
			&attachment.FileSize,
			&attachment.MimeType,
			&attachment.UploadedBy,
			&attachment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, attachment)
	}
	return result, rows.Err()
}
