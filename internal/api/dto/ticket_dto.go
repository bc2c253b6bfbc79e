package dto

import (
	"time"

	"github.com/aryaminakshi71/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Subject        string                 `json:"subject"`
	Description    string                 `json:"description"`
	Priority       domain.TicketPriority  `json:"priority"`
	Category       *domain.TicketCategory `json:"category"`
	AssignedTo     *string                `json:"assigned_to"`
	RequesterName  *string                `json:"requester_name"`
	RequesterEmail *string                `json:"requester_email"`
	Tags           []string               `json:"tags"`
}

// UpdateTicketRequest payload; nil fields stay untouched.
type UpdateTicketRequest struct {
	Subject     *string                `json:"subject"`
	Description *string                `json:"description"`
	Status      *domain.TicketStatus   `json:"status"`
	Priority    *domain.TicketPriority `json:"priority"`
	Category    *domain.TicketCategory `json:"category"`
	Tags        []string               `json:"tags"`
}

// AssignTicketRequest payload; a null assignee clears the assignment.
type AssignTicketRequest struct {
	AssignedTo *string `json:"assigned_to"`
}

// AddAttachmentRequest records uploaded file metadata against a ticket.
type AddAttachmentRequest struct {
	CommentID *string `json:"comment_id"`
	FileName  string  `json:"file_name"`
	FileKey   string  `json:"file_key"`
	FileSize  int64   `json:"file_size"`
	MimeType  string  `json:"mime_type"`
}

// AddCommentRequest payload.
type AddCommentRequest struct {
	Content    string `json:"content"`
	IsInternal bool   `json:"is_internal"`
}

// TicketResponse is the summary representation.
type TicketResponse struct {
	ID             string                 `json:"id"`
	TicketNumber   string                 `json:"ticket_number"`
	Subject        string                 `json:"subject"`
	Description    string                 `json:"description,omitempty"`
	Status         domain.TicketStatus    `json:"status"`
	Priority       domain.TicketPriority  `json:"priority"`
	Category       *domain.TicketCategory `json:"category,omitempty"`
	AssignedTo     *string                `json:"assigned_to,omitempty"`
	RequesterName  *string                `json:"requester_name,omitempty"`
	RequesterEmail *string                `json:"requester_email,omitempty"`
	Tags           []string               `json:"tags,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	ResolvedAt     *time.Time             `json:"resolved_at,omitempty"`
	ClosedAt       *time.Time             `json:"closed_at,omitempty"`
}

// TicketListResponse wraps a page of tickets and the total match count.
type TicketListResponse struct {
	Tickets []TicketResponse `json:"tickets"`
	Total   int              `json:"total"`
}

// TicketDetailResponse provides the full ticket view.
type TicketDetailResponse struct {
	TicketResponse
	Comments    []CommentResponse    `json:"comments"`
	Attachments []AttachmentResponse `json:"attachments"`
	SLAStatus   *SLAStatusResponse   `json:"sla_status"`
}

// CommentResponse represents one thread entry.
type CommentResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Content    string    `json:"content"`
	IsInternal bool      `json:"is_internal"`
	CreatedAt  time.Time `json:"created_at"`
}

// AttachmentResponse metadata.
type AttachmentResponse struct {
	ID         string    `json:"id"`
	CommentID  *string   `json:"comment_id,omitempty"`
	FileName   string    `json:"file_name"`
	FileKey    string    `json:"file_key"`
	FileSize   int64     `json:"file_size"`
	MimeType   string    `json:"mime_type"`
	UploadedBy string    `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// SLAStatusResponse exposes the evaluated SLA view.
type SLAStatusResponse struct {
	FirstResponseDue      *time.Time       `json:"first_response_due"`
	FirstResponseAt       *time.Time       `json:"first_response_at"`
	FirstResponseBreached bool             `json:"first_response_breached"`
	ResolutionDue         *time.Time       `json:"resolution_due"`
	ResolvedAt            *time.Time       `json:"resolved_at"`
	ResolutionBreached    bool             `json:"resolution_breached"`
	CurrentStatus         domain.SLAHealth `json:"current_status"`
}
