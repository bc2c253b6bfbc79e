package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/aryaminakshi71/helpdesk/internal/cache"
	"github.com/aryaminakshi71/helpdesk/internal/clock"
	"github.com/aryaminakshi71/helpdesk/internal/domain"
	"github.com/aryaminakshi71/helpdesk/internal/events"
	"github.com/aryaminakshi71/helpdesk/internal/repository"
	"github.com/aryaminakshi71/helpdesk/internal/sla"
	apperrors "github.com/aryaminakshi71/helpdesk/pkg/util"
)

const (
	maxSubjectLen     = 500
	maxDescriptionLen = 10000
	maxCommentLen     = 10000
	maxNameLen        = 255
	maxEmailLen       = 255
	maxTags           = 10
	maxTagLen         = 50
)

// TicketService orchestrates the ticket lifecycle: creation with SLA
// tracking, status transitions with one-way latches, first-response
// stamping, and the notification trigger points. All operations are
// tenant-scoped; a ticket in another organization is indistinguishable
// from a missing one.
type TicketService struct {
	tickets     repository.TicketRepository
	comments    repository.CommentRepository
	slas        repository.SLAStatusRepository
	attachments repository.AttachmentRepository
	tags        repository.TagRepository
	users       repository.UserRepository
	cache       cache.Cache
	dispatcher  events.Dispatcher
	clock       clock.Clock
	policy      sla.Policy
	detailTTL   time.Duration
	logger      *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	CommentRepo    repository.CommentRepository
	SLARepo        repository.SLAStatusRepository
	AttachmentRepo repository.AttachmentRepository
	TagRepo        repository.TagRepository
	UserRepo       repository.UserRepository
	Cache          cache.Cache
	Dispatcher     events.Dispatcher
	Clock          clock.Clock
	Policy         sla.Policy
	DetailTTL      time.Duration
	Logger         *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	c := deps.Clock
	if c == nil {
		c = clock.System()
	}
	ttl := deps.DetailTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:     deps.TicketRepo,
		comments:    deps.CommentRepo,
		slas:        deps.SLARepo,
		attachments: deps.AttachmentRepo,
		tags:        deps.TagRepo,
		users:       deps.UserRepo,
		cache:       deps.Cache,
		dispatcher:  deps.Dispatcher,
		clock:       c,
		policy:      deps.Policy,
		detailTTL:   ttl,
		logger:      logger,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Subject        string
	Description    string
	Priority       domain.TicketPriority
	Category       *domain.TicketCategory
	AssignedTo     *string
	RequesterName  *string
	RequesterEmail *string
	Tags           []string
}

// TicketUpdateInput carries the optional fields of an update; nil fields
// are left untouched.
type TicketUpdateInput struct {
	Subject     *string
	Description *string
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
	Category    *domain.TicketCategory
	Tags        []string
}

// TicketListInput describes listing filters.
type TicketListInput struct {
	Status     *domain.TicketStatus
	Priority   *domain.TicketPriority
	Category   *domain.TicketCategory
	AssignedTo *string
	Search     *string
	Limit      int
	Offset     int
}

// TicketDetail is the full read model returned by GetWithDetail.
type TicketDetail struct {
	Ticket      domain.Ticket             `json:"ticket"`
	Comments    []domain.TicketComment    `json:"comments"`
	Attachments []domain.TicketAttachment `json:"attachments"`
	Tags        []string                  `json:"tags"`
	SLA         *domain.SLAStatus         `json:"sla_status"`
}

// Create validates input, inserts the ticket atomically with its SLA
// status row, and fires the created notification.
func (s *TicketService) Create(ctx context.Context, organizationID, actorID string, input TicketCreateInput) (*domain.Ticket, error) {
	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return nil, apperrors.NewValidationError("subject is required", map[string]any{"field": "subject"})
	}
	if len(subject) > maxSubjectLen {
		return nil, apperrors.NewValidationError("subject too long", map[string]any{"field": "subject", "max": maxSubjectLen})
	}
	description := strings.TrimSpace(input.Description)
	if len(description) > maxDescriptionLen {
		return nil, apperrors.NewValidationError("description too long", map[string]any{"field": "description", "max": maxDescriptionLen})
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"field": "priority"})
	}
	if input.Category != nil && !domain.ValidCategory(*input.Category) {
		return nil, apperrors.NewValidationError("invalid category", map[string]any{"field": "category"})
	}
	if input.RequesterEmail != nil {
		if err := validateEmail(*input.RequesterEmail); err != nil {
			return nil, err
		}
	}
	if input.RequesterName != nil && len(*input.RequesterName) > maxNameLen {
		return nil, apperrors.NewValidationError("requester name too long", map[string]any{"field": "requester_name", "max": maxNameLen})
	}
	if err := validateTags(input.Tags); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	ticket := &domain.Ticket{
		OrganizationID: organizationID,
		Subject:        subject,
		Description:    description,
		Status:         domain.TicketStatusOpen,
		Priority:       priority,
		Category:       input.Category,
		AssignedTo:     input.AssignedTo,
		CreatedBy:      actorID,
		RequesterName:  input.RequesterName,
		RequesterEmail: input.RequesterEmail,
		Tags:           input.Tags,
		CreatedAt:      now,
	}

	dues := sla.CalculateDueDates(now, priority, sla.DefaultTargets(priority))
	slaStatus := &domain.SLAStatus{
		FirstResponseDue: &dues.FirstResponseDue,
		ResolutionDue:    &dues.ResolutionDue,
		CurrentStatus:    domain.SLAOnTrack,
	}

	if err := s.tickets.Create(ctx, ticket, slaStatus); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:           events.EventTicketCreated,
		OrganizationID: organizationID,
		TicketID:       ticket.ID,
		ActorID:        actorID,
		Payload: events.TicketCreatedPayload{
			TicketNumber:   ticket.TicketNumber,
			Subject:        ticket.Subject,
			Priority:       ticket.Priority,
			RequesterName:  ticket.RequesterName,
			RequesterEmail: ticket.RequesterEmail,
		},
	})
	s.invalidate(ctx, cache.ListKey(organizationID))
	s.logger.Info("ticket created",
		zap.String("ticket_id", ticket.ID),
		zap.String("ticket_number", ticket.TicketNumber),
		zap.String("organization_id", organizationID))
	return ticket, nil
}

// Update applies a partial mutation. Entering resolved or closed for the
// first time stamps the matching timestamp; the stamps are never redone
// on later re-entries.
func (s *TicketService) Update(ctx context.Context, organizationID, actorID, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, organizationID, ticketID)
	if err != nil {
		return nil, asNotFound(err, "ticket")
	}

	if input.Subject != nil {
		subject := strings.TrimSpace(*input.Subject)
		if subject == "" {
			return nil, apperrors.NewValidationError("subject is required", map[string]any{"field": "subject"})
		}
		if len(subject) > maxSubjectLen {
			return nil, apperrors.NewValidationError("subject too long", map[string]any{"field": "subject", "max": maxSubjectLen})
		}
		ticket.Subject = subject
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if len(description) > maxDescriptionLen {
			return nil, apperrors.NewValidationError("description too long", map[string]any{"field": "description", "max": maxDescriptionLen})
		}
		ticket.Description = description
	}
	if input.Priority != nil {
		if !domain.ValidPriority(*input.Priority) {
			return nil, apperrors.NewValidationError("invalid priority", map[string]any{"field": "priority"})
		}
		ticket.Priority = *input.Priority
	}
	if input.Category != nil {
		if !domain.ValidCategory(*input.Category) {
			return nil, apperrors.NewValidationError("invalid category", map[string]any{"field": "category"})
		}
		ticket.Category = input.Category
	}
	if err := validateTags(input.Tags); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	oldStatus := ticket.Status
	resolvedNow := false

	if input.Status != nil {
		if !domain.ValidStatus(*input.Status) {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"field": "status"})
		}
		newStatus := *input.Status
		if newStatus == domain.TicketStatusResolved && oldStatus != domain.TicketStatusResolved && ticket.ResolvedAt == nil {
			ticket.ResolvedAt = &now
			resolvedNow = true
		}
		if newStatus == domain.TicketStatusClosed && oldStatus != domain.TicketStatusClosed && ticket.ClosedAt == nil {
			ticket.ClosedAt = &now
		}
		ticket.Status = newStatus
	}

	ticket.UpdatedAt = now
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, asNotFound(err, "ticket")
	}

	if resolvedNow {
		if err := s.slas.StampResolved(ctx, ticket.ID, now); err != nil {
			return nil, err
		}
		s.refreshDerivedSLA(ctx, ticket.ID, now)
	}
	if input.Tags != nil {
		if err := s.tags.Replace(ctx, ticket.ID, input.Tags); err != nil {
			return nil, err
		}
		ticket.Tags = input.Tags
	}

	if resolvedNow {
		s.publish(ctx, events.Event{
			Type:           events.EventTicketResolved,
			OrganizationID: organizationID,
			TicketID:       ticket.ID,
			ActorID:        actorID,
			Payload: events.TicketResolvedPayload{
				TicketNumber:   ticket.TicketNumber,
				Subject:        ticket.Subject,
				RequesterEmail: ticket.RequesterEmail,
			},
		})
	}
	// The generic update notification fires on any status change, in
	// addition to the resolved-specific one.
	if input.Status != nil && *input.Status != oldStatus {
		s.publish(ctx, events.Event{
			Type:           events.EventTicketUpdated,
			OrganizationID: organizationID,
			TicketID:       ticket.ID,
			ActorID:        actorID,
			Payload: events.TicketUpdatedPayload{
				TicketNumber:   ticket.TicketNumber,
				Subject:        ticket.Subject,
				OldStatus:      oldStatus,
				NewStatus:      ticket.Status,
				RequesterEmail: ticket.RequesterEmail,
			},
		})
	}

	s.invalidate(ctx, cache.TicketKey(ticket.ID), cache.ListKey(organizationID))
	s.logger.Info("ticket updated", zap.String("ticket_id", ticket.ID))
	return ticket, nil
}

// Assign sets or clears the ticket assignee and notifies the new
// assignee best-effort.
func (s *TicketService) Assign(ctx context.Context, organizationID, actorID, ticketID string, assigneeID *string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, organizationID, ticketID)
	if err != nil {
		return nil, asNotFound(err, "ticket")
	}

	var assignee *domain.User
	if assigneeID != nil {
		assignee, err = s.users.GetByOrganization(ctx, organizationID, *assigneeID)
		if err != nil {
			return nil, asNotFound(err, "user")
		}
	}

	ticket.AssignedTo = assigneeID
	ticket.UpdatedAt = s.clock.Now()
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, asNotFound(err, "ticket")
	}

	if assignee != nil {
		s.publish(ctx, events.Event{
			Type:           events.EventTicketAssigned,
			OrganizationID: organizationID,
			TicketID:       ticket.ID,
			ActorID:        actorID,
			Payload: events.TicketAssignedPayload{
				TicketNumber:  ticket.TicketNumber,
				Subject:       ticket.Subject,
				AssigneeID:    assignee.ID,
				AssigneeEmail: &assignee.Email,
				AssigneeName:  &assignee.Name,
			},
		})
	}
	s.invalidate(ctx, cache.TicketKey(ticket.ID), cache.ListKey(organizationID))
	s.logger.Info("ticket assigned", zap.String("ticket_id", ticket.ID), zap.Any("assignee_id", assigneeID))
	return ticket, nil
}

// AddComment appends a comment. The first non-internal comment on a
// ticket stamps the SLA first-response timestamp; later comments never
// move it.
func (s *TicketService) AddComment(ctx context.Context, organizationID, actorID, ticketID, content string, isInternal bool) (*domain.TicketComment, error) {
	ticket, err := s.tickets.GetByID(ctx, organizationID, ticketID)
	if err != nil {
		return nil, asNotFound(err, "ticket")
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("comment is required", map[string]any{"field": "content"})
	}
	if len(content) > maxCommentLen {
		return nil, apperrors.NewValidationError("comment too long", map[string]any{"field": "content", "max": maxCommentLen})
	}

	comment := &domain.TicketComment{
		TicketID:   ticket.ID,
		UserID:     actorID,
		Content:    content,
		IsInternal: isInternal,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	if err := s.tickets.TouchUpdatedAt(ctx, ticket.ID); err != nil {
		return nil, err
	}

	if !isInternal {
		publicCount, err := s.comments.CountPublicByTicket(ctx, ticket.ID)
		if err != nil {
			return nil, err
		}
		if publicCount == 1 {
			now := s.clock.Now()
			if err := s.slas.StampFirstResponse(ctx, ticket.ID, now); err != nil {
				return nil, err
			}
			s.refreshDerivedSLA(ctx, ticket.ID, now)
		}
	}

	s.publish(ctx, events.Event{
		Type:           events.EventCommentAdded,
		OrganizationID: organizationID,
		TicketID:       ticket.ID,
		ActorID:        actorID,
		Payload: events.CommentAddedPayload{
			CommentID:    comment.ID,
			TicketNumber: ticket.TicketNumber,
			IsInternal:   comment.IsInternal,
			BodyPreview:  preview(comment.Content, 120),
		},
	})
	s.invalidate(ctx, cache.TicketKey(ticket.ID))
	return comment, nil
}

// AttachmentInput describes attachment metadata to record; the bytes live
// in external object storage under FileKey.
type AttachmentInput struct {
	CommentID *string
	FileName  string
	FileKey   string
	FileSize  int64
	MimeType  string
}

// AddAttachment records attachment metadata against a ticket.
func (s *TicketService) AddAttachment(ctx context.Context, organizationID, actorID, ticketID string, input AttachmentInput) (*domain.TicketAttachment, error) {
	ticket, err := s.tickets.GetByID(ctx, organizationID, ticketID)
	if err != nil {
		return nil, asNotFound(err, "ticket")
	}

	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, apperrors.NewValidationError("file name is required", map[string]any{"field": "file_name"})
	}
	if strings.TrimSpace(input.FileKey) == "" {
		return nil, apperrors.NewValidationError("file key is required", map[string]any{"field": "file_key"})
	}
	if input.FileSize < 0 {
		return nil, apperrors.NewValidationError("invalid file size", map[string]any{"field": "file_size"})
	}
	mimeType := strings.TrimSpace(input.MimeType)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	attachment := &domain.TicketAttachment{
		TicketID:   ticket.ID,
		CommentID:  input.CommentID,
		FileName:   fileName,
		FileKey:    input.FileKey,
		FileSize:   input.FileSize,
		MimeType:   mimeType,
		UploadedBy: actorID,
	}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		return nil, err
	}
	if err := s.tickets.TouchUpdatedAt(ctx, ticket.ID); err != nil {
		return nil, err
	}
	s.invalidate(ctx, cache.TicketKey(ticket.ID))
	return attachment, nil
}

// GetWithDetail loads the full read model: ticket, ordered comments,
// attachments, tags and SLA status. The detail payload is cached, but the
// SLA health is re-evaluated against the current clock on every call so a
// cache hit never reports a stale classification.
func (s *TicketService) GetWithDetail(ctx context.Context, organizationID, ticketID string) (*TicketDetail, error) {
	var detail TicketDetail
	if s.cache != nil {
		err := s.cache.GetOrPopulate(ctx, cache.TicketKey(ticketID), s.detailTTL, &detail, func(ctx context.Context) (any, error) {
			return s.loadDetail(ctx, organizationID, ticketID)
		})
		if err != nil {
			return nil, err
		}
	} else {
		loaded, err := s.loadDetail(ctx, organizationID, ticketID)
		if err != nil {
			return nil, err
		}
		detail = *loaded
	}
	// Cache keys are ticket-scoped; re-check tenancy on hits.
	if detail.Ticket.OrganizationID != organizationID {
		return nil, apperrors.NewNotFound("ticket")
	}

	if detail.SLA != nil {
		now := s.clock.Now()
		snapshot := sla.Snapshot{
			FirstResponseDue: detail.SLA.FirstResponseDue,
			FirstResponseAt:  detail.SLA.FirstResponseAt,
			ResolutionDue:    detail.SLA.ResolutionDue,
			ResolvedAt:       detail.SLA.ResolvedAt,
		}
		detail.SLA.CurrentStatus = sla.Evaluate(snapshot, now, s.policy)
		detail.SLA.FirstResponseBreached, detail.SLA.ResolutionBreached = sla.BreachFlags(snapshot, now)
	}
	return &detail, nil
}

func (s *TicketService) loadDetail(ctx context.Context, organizationID, ticketID string) (*TicketDetail, error) {
	ticket, err := s.tickets.GetByID(ctx, organizationID, ticketID)
	if err != nil {
		return nil, asNotFound(err, "ticket")
	}
	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	attachments, err := s.attachments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	tags, err := s.tags.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	slaStatus, err := s.slas.GetByTicket(ctx, ticket.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Creation is transactional, so a ticket without its SLA row
			// is corrupted state, not a soft miss.
			s.logger.Error("sla status row missing for ticket", zap.String("ticket_id", ticket.ID))
			return nil, apperrors.NewInternalError(err)
		}
		return nil, err
	}
	ticket.Tags = tags
	return &TicketDetail{
		Ticket:      *ticket,
		Comments:    comments,
		Attachments: attachments,
		Tags:        tags,
		SLA:         slaStatus,
	}, nil
}

// List returns filtered tickets and the total match count.
func (s *TicketService) List(ctx context.Context, organizationID string, input TicketListInput) ([]domain.Ticket, int, error) {
	if input.Status != nil && !domain.ValidStatus(*input.Status) {
		return nil, 0, apperrors.NewValidationError("invalid status", map[string]any{"field": "status"})
	}
	if input.Priority != nil && !domain.ValidPriority(*input.Priority) {
		return nil, 0, apperrors.NewValidationError("invalid priority", map[string]any{"field": "priority"})
	}
	if input.Category != nil && !domain.ValidCategory(*input.Category) {
		return nil, 0, apperrors.NewValidationError("invalid category", map[string]any{"field": "category"})
	}
	return s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		OrganizationID: organizationID,
		Status:         input.Status,
		Priority:       input.Priority,
		Category:       input.Category,
		AssignedTo:     input.AssignedTo,
		Search:         input.Search,
		Limit:          input.Limit,
		Offset:         input.Offset,
	})
}

// ListComments returns the ticket thread in creation order.
func (s *TicketService) ListComments(ctx context.Context, organizationID, ticketID string) ([]domain.TicketComment, error) {
	ticket, err := s.tickets.GetByID(ctx, organizationID, ticketID)
	if err != nil {
		return nil, asNotFound(err, "ticket")
	}
	return s.comments.ListByTicket(ctx, ticket.ID)
}

// Delete removes a ticket administratively; owned rows cascade in the store.
func (s *TicketService) Delete(ctx context.Context, organizationID, ticketID string) error {
	if err := s.tickets.Delete(ctx, organizationID, ticketID); err != nil {
		return asNotFound(err, "ticket")
	}
	s.invalidate(ctx, cache.TicketKey(ticketID), cache.ListKey(organizationID))
	s.logger.Info("ticket deleted", zap.String("ticket_id", ticketID))
	return nil
}

// refreshDerivedSLA re-derives and persists the cached health projection
// after a stamping event. Persistence of the projection is best-effort;
// readers re-derive anyway.
func (s *TicketService) refreshDerivedSLA(ctx context.Context, ticketID string, now time.Time) {
	status, err := s.slas.GetByTicket(ctx, ticketID)
	if err != nil {
		s.logger.Warn("failed to reload sla status", zap.String("ticket_id", ticketID), zap.Error(err))
		return
	}
	snapshot := sla.Snapshot{
		FirstResponseDue: status.FirstResponseDue,
		FirstResponseAt:  status.FirstResponseAt,
		ResolutionDue:    status.ResolutionDue,
		ResolvedAt:       status.ResolvedAt,
	}
	health := sla.Evaluate(snapshot, now, s.policy)
	frBreached, resBreached := sla.BreachFlags(snapshot, now)
	if err := s.slas.UpdateDerived(ctx, ticketID, health, frBreached, resBreached); err != nil {
		s.logger.Warn("failed to persist sla projection", zap.String("ticket_id", ticketID), zap.Error(err))
	}
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func (s *TicketService) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(ctx, keys...)
}

func asNotFound(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource)
	}
	return err
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" || len(email) > maxEmailLen || !strings.Contains(email, "@") {
		return apperrors.NewValidationError("invalid email address", map[string]any{"field": "requester_email"})
	}
	return nil
}

func validateTags(tags []string) error {
	if len(tags) > maxTags {
		return apperrors.NewValidationError("too many tags", map[string]any{"field": "tags", "max": maxTags})
	}
	for _, tag := range tags {
		if tag == "" || len(tag) > maxTagLen {
			return apperrors.NewValidationError("invalid tag", map[string]any{"field": "tags", "max_length": maxTagLen})
		}
	}
	return nil
}

func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
