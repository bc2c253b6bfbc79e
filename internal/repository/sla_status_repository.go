package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aryaminakshi71/helpdesk/internal/domain"
)

// SLAStatusRepository manages the 1:1 SLA companion rows. The stamping
// operations are latches: they only write when the completion field is
// still NULL, so replays and races cannot overwrite the first stamp.
type SLAStatusRepository interface {
	GetByTicket(ctx context.Context, ticketID string) (*domain.SLAStatus, error)
	StampFirstResponse(ctx context.Context, ticketID string, at time.Time) error
	StampResolved(ctx context.Context, ticketID string, at time.Time) error
	// UpdateDerived persists the recomputed health projection for query
	// efficiency; readers still re-derive before returning it.
	UpdateDerived(ctx context.Context, ticketID string, health domain.SLAHealth, firstResponseBreached, resolutionBreached bool) error
}

type slaStatusRepository struct {
	pool *pgxpool.Pool
}

// NewSLAStatusRepository constructs repository.
func NewSLAStatusRepository(pool *pgxpool.Pool) SLAStatusRepository {
	return &slaStatusRepository{pool: pool}
}

func (r *slaStatusRepository) GetByTicket(ctx context.Context, ticketID string) (*domain.SLAStatus, error) {
	const query = `
        SELECT id, ticket_id, first_response_due, first_response_at, first_response_breached,
               resolution_due, resolved_at, resolution_breached, current_status, created_at, updated_at
        FROM sla_status WHERE ticket_id=$1`
	var status domain.SLAStatus
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(
		&status.ID,
		&status.TicketID,
		&status.FirstResponseDue,
		&status.FirstResponseAt,
		&status.FirstResponseBreached,
		&status.ResolutionDue,
		&status.ResolvedAt,
		&status.ResolutionBreached,
		&status.CurrentStatus,
		&status.CreatedAt,
		&status.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *slaStatusRepository) StampFirstResponse(ctx context.Context, ticketID string, at time.Time) error {
	const query = `
        UPDATE sla_status SET first_response_at=$2, updated_at=NOW()
        WHERE ticket_id=$1 AND first_response_at IS NULL`
	_, err := r.pool.Exec(ctx, query, ticketID, at)
	return err
}

func (r *slaStatusRepository) StampResolved(ctx context.Context, ticketID string, at time.Time) error {
	const query = `
        UPDATE sla_status SET resolved_at=$2, updated_at=NOW()
        WHERE ticket_id=$1 AND resolved_at IS NULL`
	_, err := r.pool.Exec(ctx, query, ticketID, at)
	return err
}

func (r *slaStatusRepository) UpdateDerived(ctx context.Context, ticketID string, health domain.SLAHealth, firstResponseBreached, resolutionBreached bool) error {
	const query = `
        UPDATE sla_status SET current_status=$2, first_response_breached=$3, resolution_breached=$4, updated_at=NOW()
        WHERE ticket_id=$1`
	_, err := r.pool.Exec(ctx, query, ticketID, health, firstResponseBreached, resolutionBreached)
	return err
}
