package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aryaminakshi71/helpdesk/internal/domain"
)

// DashboardRepository aggregates ticket and SLA figures for the metrics view.
type DashboardRepository interface {
	CountTicketsByStatus(ctx context.Context, organizationID string, status domain.TicketStatus) (int, error)
	CountTickets(ctx context.Context, organizationID string) (int, error)
	CountResolvedSince(ctx context.Context, organizationID string, since time.Time) (int, error)
	// SLACompliance returns total SLA rows and how many carry no breach,
	// for tickets of the organization.
	SLACompliance(ctx context.Context, organizationID string) (total int, compliant int, err error)
	// AvgFirstResponseMinutes averages first_response_at - ticket creation
	// over responded tickets; zero when none responded yet.
	AvgFirstResponseMinutes(ctx context.Context, organizationID string) (float64, error)
}

type dashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository builds repository.
func NewDashboardRepository(pool *pgxpool.Pool) DashboardRepository {
	return &dashboardRepository{pool: pool}
}

func (r *dashboardRepository) CountTicketsByStatus(ctx context.Context, organizationID string, status domain.TicketStatus) (int, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE organization_id=$1 AND status=$2`
	var count int
	err := r.pool.QueryRow(ctx, query, organizationID, status).Scan(&count)
	return count, err
}

func (r *dashboardRepository) CountTickets(ctx context.Context, organizationID string) (int, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE organization_id=$1`
	var count int
	err := r.pool.QueryRow(ctx, query, organizationID).Scan(&count)
	return count, err
}

func (r *dashboardRepository) CountResolvedSince(ctx context.Context, organizationID string, since time.Time) (int, error) {
	const query = `
        SELECT COUNT(*) FROM tickets
        WHERE organization_id=$1 AND resolved_at IS NOT NULL AND resolved_at >= $2`
	var count int
	err := r.pool.QueryRow(ctx, query, organizationID, since).Scan(&count)
	return count, err
}

func (r *dashboardRepository) SLACompliance(ctx context.Context, organizationID string) (int, int, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE s.first_response_breached=FALSE AND s.resolution_breached=FALSE AND s.current_status <> 'breached')
        FROM sla_status s
        JOIN tickets t ON t.id = s.ticket_id
        WHERE t.organization_id=$1`
	var total, compliant int
	err := r.pool.QueryRow(ctx, query, organizationID).Scan(&total, &compliant)
	return total, compliant, err
}

func (r *dashboardRepository) AvgFirstResponseMinutes(ctx context.Context, organizationID string) (float64, error) {
	const query = `
        SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (s.first_response_at - t.created_at)) / 60), 0)
        FROM sla_status s
        JOIN tickets t ON t.id = s.ticket_id
        WHERE t.organization_id=$1 AND s.first_response_at IS NOT NULL`
	var avg float64
	err := r.pool.QueryRow(ctx, query, organizationID).Scan(&avg)
	return avg, err
}
