package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusWaiting    TicketStatus = "waiting"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// ValidStatus reports whether s is a known ticket status.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusWaiting, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// ValidPriority reports whether p is a known ticket priority.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// TicketCategory classifies the nature of a request.
type TicketCategory string

const (
	CategoryBilling        TicketCategory = "billing"
	CategoryTechnical      TicketCategory = "technical"
	CategoryAccount        TicketCategory = "account"
	CategoryFeatureRequest TicketCategory = "feature_request"
	CategoryHowTo          TicketCategory = "how_to"
	CategoryGeneral        TicketCategory = "general"
)

// ValidCategory reports whether c is a known ticket category.
func ValidCategory(c TicketCategory) bool {
	switch c {
	case CategoryBilling, CategoryTechnical, CategoryAccount, CategoryFeatureRequest, CategoryHowTo, CategoryGeneral:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests. Every ticket belongs to
// exactly one organization; its ticket number is unique within that
// organization and immutable once assigned. ResolvedAt and ClosedAt are
// one-way latches stamped on the first transition into the matching status.
type Ticket struct {
	ID             string
	OrganizationID string
	TicketNumber   string
	Subject        string
	Description    string
	Status         TicketStatus
	Priority       TicketPriority
	Category       *TicketCategory
	AssignedTo     *string
	CreatedBy      string
	RequesterName  *string
	RequesterEmail *string
	Tags           []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ResolvedAt     *time.Time
	ClosedAt       *time.Time
}
