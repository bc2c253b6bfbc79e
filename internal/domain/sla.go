package domain

import "time"

// SLAHealth classifies how a ticket is tracking against its deadlines.
type SLAHealth string

const (
	SLAOnTrack  SLAHealth = "on_track"
	SLAAtRisk   SLAHealth = "at_risk"
	SLABreached SLAHealth = "breached"
)

// SLAStatus is the 1:1 companion record of a ticket. The deadlines are
// fixed at creation from the ticket priority; FirstResponseAt and
// ResolvedAt are stamped once and never overwritten. CurrentStatus is a
// cached projection and must be re-derived from the other fields before
// it is shown to a caller.
type SLAStatus struct {
	ID                    string
	TicketID              string
	FirstResponseDue      *time.Time
	FirstResponseAt       *time.Time
	FirstResponseBreached bool
	ResolutionDue         *time.Time
	ResolvedAt            *time.Time
	ResolutionBreached    bool
	CurrentStatus         SLAHealth
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
