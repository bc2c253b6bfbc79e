package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aryaminakshi71/helpdesk/internal/domain"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestDefaultTargets_PerPriority(t *testing.T) {
	assert.Equal(t, Targets{FirstResponseTime: 30, ResolutionTime: 240}, DefaultTargets(domain.TicketPriorityUrgent))
	assert.Equal(t, Targets{FirstResponseTime: 60, ResolutionTime: 480}, DefaultTargets(domain.TicketPriorityHigh))
	assert.Equal(t, Targets{FirstResponseTime: 240, ResolutionTime: 1440}, DefaultTargets(domain.TicketPriorityMedium))
	assert.Equal(t, Targets{FirstResponseTime: 480, ResolutionTime: 2880}, DefaultTargets(domain.TicketPriorityLow))
}

func TestDefaultTargets_UnknownFallsBackToMedium(t *testing.T) {
	assert.Equal(t, DefaultTargets(domain.TicketPriorityMedium), DefaultTargets(domain.TicketPriority("nonsense")))
}

func TestMultiplier_UnknownBehavesAsMedium(t *testing.T) {
	assert.Equal(t, 1.0, Multiplier(domain.TicketPriority("nonsense")))
}

func TestCalculateDueDates_UrgentCompoundsMultiplier(t *testing.T) {
	due := CalculateDueDates(base, domain.TicketPriorityUrgent, DefaultTargets(domain.TicketPriorityUrgent))

	// 30 min base budget at the 0.5 multiplier lands the first response
	// deadline 15 minutes out, resolution at 120.
	assert.Equal(t, base.Add(15*time.Minute), due.FirstResponseDue)
	assert.Equal(t, base.Add(120*time.Minute), due.ResolutionDue)
}

func TestCalculateDueDates_LowStretchesBudgets(t *testing.T) {
	due := CalculateDueDates(base, domain.TicketPriorityLow, DefaultTargets(domain.TicketPriorityLow))

	assert.Equal(t, base.Add(720*time.Minute), due.FirstResponseDue)
	assert.Equal(t, base.Add(4320*time.Minute), due.ResolutionDue)
}

func TestCalculateDueDates_MediumIsIdentity(t *testing.T) {
	targets := DefaultTargets(domain.TicketPriorityMedium)
	due := CalculateDueDates(base, domain.TicketPriorityMedium, targets)

	assert.Equal(t, base.Add(targets.FirstResponseBudget()), due.FirstResponseDue)
	assert.Equal(t, base.Add(targets.ResolutionBudget()), due.ResolutionDue)
}

func TestCalculateDueDates_OrderedByUrgency(t *testing.T) {
	priorities := []domain.TicketPriority{
		domain.TicketPriorityUrgent,
		domain.TicketPriorityHigh,
		domain.TicketPriorityMedium,
		domain.TicketPriorityLow,
	}
	var prev time.Time
	for i, p := range priorities {
		due := CalculateDueDates(base, p, DefaultTargets(p))
		if i > 0 {
			assert.True(t, due.FirstResponseDue.After(prev), "deadlines must loosen as priority drops")
		}
		prev = due.FirstResponseDue
	}
}
