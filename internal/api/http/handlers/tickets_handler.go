package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/aryaminakshi71/helpdesk/internal/api/dto"
	"github.com/aryaminakshi71/helpdesk/internal/auth"
	"github.com/aryaminakshi71/helpdesk/internal/domain"
	"github.com/aryaminakshi71/helpdesk/internal/service"
	apperrors "github.com/aryaminakshi71/helpdesk/pkg/util"
)

// TicketsHandler manages the ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TicketCreateInput{
		Subject:        req.Subject,
		Description:    req.Description,
		Priority:       req.Priority,
		Category:       req.Category,
		AssignedTo:     req.AssignedTo,
		RequesterName:  req.RequesterName,
		RequesterEmail: req.RequesterEmail,
		Tags:           req.Tags,
	}
	ticket, err := h.service.Create(c.Context(), principal.OrganizationID, principal.User.ID, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	input := parseTicketListQuery(c)
	tickets, total, err := h.service.List(c.Context(), principal.OrganizationID, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketListResponse{
		Tickets: dto.FromTickets(tickets),
		Total:   total,
	}})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	detail, err := h.service.GetWithDetail(c.Context(), principal.OrganizationID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromDetail(detail)})
}

// UpdateTicket PATCH /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input := service.TicketUpdateInput{
		Subject:     req.Subject,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Category:    req.Category,
		Tags:        req.Tags,
	}
	ticket, err := h.service.Update(c.Context(), principal.OrganizationID, principal.User.ID, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// AssignTicket POST /tickets/:id/assign.
func (h *TicketsHandler) AssignTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Assign(c.Context(), principal.OrganizationID, principal.User.ID, c.Params("id"), req.AssignedTo)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	comment, err := h.service.AddComment(c.Context(), principal.OrganizationID, principal.User.ID, c.Params("id"), req.Content, req.IsInternal)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromComment(comment)})
}

// AddAttachment POST /tickets/:id/attachments.
func (h *TicketsHandler) AddAttachment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.AddAttachmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	attachment, err := h.service.AddAttachment(c.Context(), principal.OrganizationID, principal.User.ID, c.Params("id"), service.AttachmentInput{
		CommentID: req.CommentID,
		FileName:  req.FileName,
		FileKey:   req.FileKey,
		FileSize:  req.FileSize,
		MimeType:  req.MimeType,
	})
	if err != nil {
		return err
	}
	responses := dto.FromAttachments([]domain.TicketAttachment{*attachment})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": responses[0]})
}

// ListComments GET /tickets/:id/comments.
func (h *TicketsHandler) ListComments(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	comments, err := h.service.ListComments(c.Context(), principal.OrganizationID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromComments(comments)})
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.service.Delete(c.Context(), principal.OrganizationID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseTicketListQuery(c *fiber.Ctx) service.TicketListInput {
	input := service.TicketListInput{}
	if v := strings.TrimSpace(c.Query("status")); v != "" {
		status := domain.TicketStatus(v)
		input.Status = &status
	}
	if v := strings.TrimSpace(c.Query("priority")); v != "" {
		priority := domain.TicketPriority(v)
		input.Priority = &priority
	}
	if v := strings.TrimSpace(c.Query("category")); v != "" {
		category := domain.TicketCategory(v)
		input.Category = &category
	}
	if v := strings.TrimSpace(c.Query("assigned_to")); v != "" {
		input.AssignedTo = &v
	}
	if v := strings.TrimSpace(c.Query("search")); v != "" {
		input.Search = &v
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	if pageSize > 100 {
		pageSize = 100
	}
	input.Offset = (page - 1) * pageSize
	input.Limit = pageSize
	return input
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
