package service

import (
	"context"
	"time"

	"github.com/aryaminakshi71/helpdesk/internal/clock"
	"github.com/aryaminakshi71/helpdesk/internal/domain"
	"github.com/aryaminakshi71/helpdesk/internal/repository"
)

// DashboardMetrics is the organization analytics snapshot.
type DashboardMetrics struct {
	OpenTickets             int     `json:"open_tickets"`
	ResolvedToday           int     `json:"resolved_today"`
	TotalTickets            int     `json:"total_tickets"`
	ResolutionRate          float64 `json:"resolution_rate"`
	SLACompliance           float64 `json:"sla_compliance"`
	AvgFirstResponseMinutes float64 `json:"avg_first_response_minutes"`
	ActiveAgents            int     `json:"active_agents"`
}

// DashboardService aggregates ticket and SLA figures per organization.
type DashboardService struct {
	dashboards repository.DashboardRepository
	users      repository.UserRepository
	clock      clock.Clock
}

// NewDashboardService constructs the service.
func NewDashboardService(dashboards repository.DashboardRepository, users repository.UserRepository, c clock.Clock) *DashboardService {
	if c == nil {
		c = clock.System()
	}
	return &DashboardService{dashboards: dashboards, users: users, clock: c}
}

// Metrics computes the dashboard snapshot for an organization.
func (s *DashboardService) Metrics(ctx context.Context, organizationID string) (*DashboardMetrics, error) {
	open, err := s.dashboards.CountTicketsByStatus(ctx, organizationID, domain.TicketStatusOpen)
	if err != nil {
		return nil, err
	}
	total, err := s.dashboards.CountTickets(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	resolvedToday, err := s.dashboards.CountResolvedSince(ctx, organizationID, midnight)
	if err != nil {
		return nil, err
	}

	slaTotal, slaCompliant, err := s.dashboards.SLACompliance(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	avgFirstResponse, err := s.dashboards.AvgFirstResponseMinutes(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	agents, err := s.users.CountActiveByOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	resolved, err := s.dashboards.CountTicketsByStatus(ctx, organizationID, domain.TicketStatusResolved)
	if err != nil {
		return nil, err
	}
	closed, err := s.dashboards.CountTicketsByStatus(ctx, organizationID, domain.TicketStatusClosed)
	if err != nil {
		return nil, err
	}

	metrics := &DashboardMetrics{
		OpenTickets:             open,
		ResolvedToday:           resolvedToday,
		TotalTickets:            total,
		AvgFirstResponseMinutes: avgFirstResponse,
		ActiveAgents:            agents,
	}
	if total > 0 {
		metrics.ResolutionRate = float64(resolved+closed) / float64(total)
	}
	if slaTotal > 0 {
		metrics.SLACompliance = float64(slaCompliant) / float64(slaTotal)
	} else {
		metrics.SLACompliance = 1.0
	}
	return metrics, nil
}
