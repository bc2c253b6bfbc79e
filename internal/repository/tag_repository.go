package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TagRepository manages ticket tags.
type TagRepository interface {
	ListByTicket(ctx context.Context, ticketID string) ([]string, error)
	Replace(ctx context.Context, ticketID string, tags []string) error
}

type tagRepository struct {
	pool *pgxpool.Pool
}

// NewTagRepository constructs repository.
func NewTagRepository(pool *pgxpool.Pool) TagRepository {
	return &tagRepository{pool: pool}
}

func (r *tagRepository) ListByTicket(ctx context.Context, ticketID string) ([]string, error) {
	const query = `SELECT tag FROM ticket_tags WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (r *tagRepository) Replace(ctx context.Context, ticketID string, tags []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM ticket_tags WHERE ticket_id=$1`, ticketID); err != nil {
		return err
	}
	for _, tag := range tags {
		if _, err := tx.Exec(ctx, `INSERT INTO ticket_tags (ticket_id, tag) VALUES ($1,$2)`, ticketID, tag); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
