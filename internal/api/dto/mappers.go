package dto

import (
	"github.com/aryaminakshi71/helpdesk/internal/domain"
	"github.com/aryaminakshi71/helpdesk/internal/service"
)

func FromTicket(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:             t.ID,
		TicketNumber:   t.TicketNumber,
		Subject:        t.Subject,
		Description:    t.Description,
		Status:         t.Status,
		Priority:       t.Priority,
		Category:       t.Category,
		AssignedTo:     t.AssignedTo,
		RequesterName:  t.RequesterName,
		RequesterEmail: t.RequesterEmail,
		Tags:           t.Tags,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
		ResolvedAt:     t.ResolvedAt,
		ClosedAt:       t.ClosedAt,
	}
}

func FromTickets(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, FromTicket(&tickets[i]))
	}
	return out
}

func FromComment(c *domain.TicketComment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		UserID:     c.UserID,
		Content:    c.Content,
		IsInternal: c.IsInternal,
		CreatedAt:  c.CreatedAt,
	}
}

func FromComments(comments []domain.TicketComment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, FromComment(&comments[i]))
	}
	return out
}

func FromAttachments(attachments []domain.TicketAttachment) []AttachmentResponse {
	out := make([]AttachmentResponse, 0, len(attachments))
	for _, a := range attachments {
		out = append(out, AttachmentResponse{
			ID:         a.ID,
			CommentID:  a.CommentID,
			FileName:   a.FileName,
			FileKey:    a.FileKey,
			FileSize:   a.FileSize,
			MimeType:   a.MimeType,
			UploadedBy: a.UploadedBy,
			CreatedAt:  a.CreatedAt,
		})
	}
	return out
}

func FromSLAStatus(s *domain.SLAStatus) *SLAStatusResponse {
	if s == nil {
		return nil
	}
	return &SLAStatusResponse{
		FirstResponseDue:      s.FirstResponseDue,
		FirstResponseAt:       s.FirstResponseAt,
		FirstResponseBreached: s.FirstResponseBreached,
		ResolutionDue:         s.ResolutionDue,
		ResolvedAt:            s.ResolvedAt,
		ResolutionBreached:    s.ResolutionBreached,
		CurrentStatus:         s.CurrentStatus,
	}
}

func FromDetail(d *service.TicketDetail) TicketDetailResponse {
	resp := TicketDetailResponse{
		TicketResponse: FromTicket(&d.Ticket),
		Comments:       FromComments(d.Comments),
		Attachments:    FromAttachments(d.Attachments),
		SLAStatus:      FromSLAStatus(d.SLA),
	}
	resp.Tags = d.Tags
	return resp
}
