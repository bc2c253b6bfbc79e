package events

import (
	"time"

	"github.com/aryaminakshi71/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated  EventType = "ticket_created"
	EventTicketUpdated  EventType = "ticket_updated"
	EventTicketResolved EventType = "ticket_resolved"
	EventTicketAssigned EventType = "ticket_assigned"
	EventCommentAdded   EventType = "comment_added"
)

// Event represents a domain event emitted by the ticket lifecycle.
type Event struct {
	ID             string      `json:"id"`
	Type           EventType   `json:"type"`
	OrganizationID string      `json:"organization_id"`
	TicketID       string      `json:"ticket_id"`
	ActorID        string      `json:"actor_id"`
	Timestamp      time.Time   `json:"timestamp"`
	Payload        interface{} `json:"payload"`
}

// TicketCreatedPayload accompanies EventTicketCreated.
type TicketCreatedPayload struct {
	TicketNumber   string                `json:"ticket_number"`
	Subject        string                `json:"subject"`
	Priority       domain.TicketPriority `json:"priority"`
	RequesterName  *string               `json:"requester_name,omitempty"`
	RequesterEmail *string               `json:"requester_email,omitempty"`
}

// TicketUpdatedPayload accompanies EventTicketUpdated.
type TicketUpdatedPayload struct {
	TicketNumber   string              `json:"ticket_number"`
	Subject        string              `json:"subject"`
	OldStatus      domain.TicketStatus `json:"old_status"`
	NewStatus      domain.TicketStatus `json:"new_status"`
	RequesterEmail *string             `json:"requester_email,omitempty"`
}

// TicketResolvedPayload accompanies EventTicketResolved.
type TicketResolvedPayload struct {
	TicketNumber   string  `json:"ticket_number"`
	Subject        string  `json:"subject"`
	RequesterEmail *string `json:"requester_email,omitempty"`
}

// TicketAssignedPayload accompanies EventTicketAssigned.
type TicketAssignedPayload struct {
	TicketNumber  string  `json:"ticket_number"`
	Subject       string  `json:"subject"`
	AssigneeID    string  `json:"assignee_id"`
	AssigneeEmail *string `json:"assignee_email,omitempty"`
	AssigneeName  *string `json:"assignee_name,omitempty"`
}

// CommentAddedPayload accompanies EventCommentAdded.
type CommentAddedPayload struct {
	CommentID    string `json:"comment_id"`
	TicketNumber string `json:"ticket_number"`
	IsInternal   bool   `json:"is_internal"`
	BodyPreview  string `json:"body_preview"`
}
