package sla

import (
	"time"

	"github.com/aryaminakshi71/helpdesk/internal/domain"
)

// DueDates are the absolute deadlines computed for a ticket at creation.
type DueDates struct {
	FirstResponseDue time.Time
	ResolutionDue    time.Time
}

var priorityMultipliers = map[domain.TicketPriority]float64{
	domain.TicketPriorityUrgent: 0.5,
	domain.TicketPriorityHigh:   0.75,
	domain.TicketPriorityMedium: 1.0,
	domain.TicketPriorityLow:    1.5,
}

// Multiplier returns the priority multiplier applied on top of the base
// budgets. Unknown values behave as medium.
func Multiplier(priority domain.TicketPriority) float64 {
	if m, ok := priorityMultipliers[priority]; ok {
		return m
	}
	return 1.0
}

// CalculateDueDates turns a creation instant, priority and base budgets
// into the two absolute deadlines. The multiplier is applied in addition
// to the priority-dependent base targets; both are independent policy
// levers, so the priority effect compounds.
func CalculateDueDates(createdAt time.Time, priority domain.TicketPriority, targets Targets) DueDates {
	m := Multiplier(priority)
	return DueDates{
		FirstResponseDue: createdAt.Add(scale(targets.FirstResponseBudget(), m)),
		ResolutionDue:    createdAt.Add(scale(targets.ResolutionBudget(), m)),
	}
}

func scale(d time.Duration, factor float64) time.Duration {
	return time.Duration(float64(d) * factor)
}
