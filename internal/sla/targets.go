package sla

import (
	"time"

	"github.com/aryaminakshi71/helpdesk/internal/domain"
)

// Targets holds the base time budgets for one priority level, in minutes.
type Targets struct {
	FirstResponseTime int
	ResolutionTime    int
}

// FirstResponseBudget returns the base first-response budget as a duration.
func (t Targets) FirstResponseBudget() time.Duration {
	return time.Duration(t.FirstResponseTime) * time.Minute
}

// ResolutionBudget returns the base resolution budget as a duration.
func (t Targets) ResolutionBudget() time.Duration {
	return time.Duration(t.ResolutionTime) * time.Minute
}

var defaultTargets = map[domain.TicketPriority]Targets{
	domain.TicketPriorityUrgent: {FirstResponseTime: 30, ResolutionTime: 240},
	domain.TicketPriorityHigh:   {FirstResponseTime: 60, ResolutionTime: 480},
	domain.TicketPriorityMedium: {FirstResponseTime: 240, ResolutionTime: 1440},
	domain.TicketPriorityLow:    {FirstResponseTime: 480, ResolutionTime: 2880},
}

// DefaultTargets returns the base budgets for a priority. Unknown values
// fall back to the medium budgets so the function is total.
func DefaultTargets(priority domain.TicketPriority) Targets {
	if t, ok := defaultTargets[priority]; ok {
		return t
	}
	return defaultTargets[domain.TicketPriorityMedium]
}
