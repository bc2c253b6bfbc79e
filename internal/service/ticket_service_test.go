package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryaminakshi71/helpdesk/internal/clock"
	"github.com/aryaminakshi71/helpdesk/internal/domain"
	"github.com/aryaminakshi71/helpdesk/internal/events"
	"github.com/aryaminakshi71/helpdesk/internal/repository"
	apperrors "github.com/aryaminakshi71/helpdesk/pkg/util"
)

var testStart = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// --------------------- Fakes ---------------------

type fakeStore struct {
	seq      int64
	tickets  map[string]*domain.Ticket
	slas     map[string]*domain.SLAStatus
	comments []domain.TicketComment
	tags     map[string][]string
	users    map[string]*domain.User
	events   []events.Event
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tickets: map[string]*domain.Ticket{},
		slas:    map[string]*domain.SLAStatus{},
		tags:    map[string][]string{},
		users:   map[string]*domain.User{},
	}
}

type fakeTicketRepo struct{ store *fakeStore }

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket, sla *domain.SLAStatus) error {
	r.store.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.store.seq)
	ticket.TicketNumber = domain.FormatTicketNumber(ticket.OrganizationID, r.store.seq)
	ticket.UpdatedAt = ticket.CreatedAt
	copied := *ticket
	r.store.tickets[ticket.ID] = &copied

	sla.TicketID = ticket.ID
	slaCopy := *sla
	r.store.slas[ticket.ID] = &slaCopy
	if len(ticket.Tags) > 0 {
		r.store.tags[ticket.ID] = append([]string(nil), ticket.Tags...)
	}
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	existing, ok := r.store.tickets[ticket.ID]
	if !ok || existing.OrganizationID != ticket.OrganizationID {
		return pgx.ErrNoRows
	}
	copied := *ticket
	r.store.tickets[ticket.ID] = &copied
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, organizationID, id string) (*domain.Ticket, error) {
	ticket, ok := r.store.tickets[id]
	if !ok || ticket.OrganizationID != organizationID {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, int, error) {
	var result []domain.Ticket
	for _, ticket := range r.store.tickets {
		if ticket.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		result = append(result, *ticket)
	}
	return result, len(result), nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, organizationID, id string) error {
	ticket, ok := r.store.tickets[id]
	if !ok || ticket.OrganizationID != organizationID {
		return pgx.ErrNoRows
	}
	delete(r.store.tickets, id)
	delete(r.store.slas, id)
	return nil
}

func (r *fakeTicketRepo) TouchUpdatedAt(_ context.Context, id string) error {
	return nil
}

type fakeCommentRepo struct{ store *fakeStore }

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.TicketComment) error {
	comment.ID = fmt.Sprintf("comment-%d", len(r.store.comments)+1)
	r.store.comments = append(r.store.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketComment, error) {
	var result []domain.TicketComment
	for _, c := range r.store.comments {
		if c.TicketID == ticketID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (r *fakeCommentRepo) CountPublicByTicket(_ context.Context, ticketID string) (int, error) {
	count := 0
	for _, c := range r.store.comments {
		if c.TicketID == ticketID && !c.IsInternal {
			count++
		}
	}
	return count, nil
}

type fakeSLARepo struct{ store *fakeStore }

func (r *fakeSLARepo) GetByTicket(_ context.Context, ticketID string) (*domain.SLAStatus, error) {
	status, ok := r.store.slas[ticketID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *status
	return &copied, nil
}

func (r *fakeSLARepo) StampFirstResponse(_ context.Context, ticketID string, at time.Time) error {
	status, ok := r.store.slas[ticketID]
	if !ok {
		return pgx.ErrNoRows
	}
	if status.FirstResponseAt == nil {
		stamped := at
		status.FirstResponseAt = &stamped
	}
	return nil
}

func (r *fakeSLARepo) StampResolved(_ context.Context, ticketID string, at time.Time) error {
	status, ok := r.store.slas[ticketID]
	if !ok {
		return pgx.ErrNoRows
	}
	if status.ResolvedAt == nil {
		stamped := at
		status.ResolvedAt = &stamped
	}
	return nil
}

func (r *fakeSLARepo) UpdateDerived(_ context.Context, ticketID string, health domain.SLAHealth, firstResponseBreached, resolutionBreached bool) error {
	status, ok := r.store.slas[ticketID]
	if !ok {
		return pgx.ErrNoRows
	}
	status.CurrentStatus = health
	status.FirstResponseBreached = firstResponseBreached
	status.ResolutionBreached = resolutionBreached
	return nil
}

type fakeAttachmentRepo struct {
	attachments []domain.TicketAttachment
}

func (r *fakeAttachmentRepo) Create(_ context.Context, attachment *domain.TicketAttachment) error {
	attachment.ID = fmt.Sprintf("attachment-%d", len(r.attachments)+1)
	r.attachments = append(r.attachments, *attachment)
	return nil
}

func (r *fakeAttachmentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketAttachment, error) {
	var result []domain.TicketAttachment
	for _, a := range r.attachments {
		if a.TicketID == ticketID {
			result = append(result, a)
		}
	}
	return result, nil
}

type fakeTagRepo struct{ store *fakeStore }

func (r *fakeTagRepo) ListByTicket(_ context.Context, ticketID string) ([]string, error) {
	return r.store.tags[ticketID], nil
}

func (r *fakeTagRepo) Replace(_ context.Context, ticketID string, tags []string) error {
	r.store.tags[ticketID] = append([]string(nil), tags...)
	return nil
}

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.store.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.store.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.store.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByOrganization(_ context.Context, organizationID, id string) (*domain.User, error) {
	user, ok := r.store.users[id]
	if !ok || user.OrganizationID != organizationID {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	user, ok := r.store.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) CountActiveByOrganization(_ context.Context, organizationID string) (int, error) {
	count := 0
	for _, user := range r.store.users {
		if user.OrganizationID == organizationID && user.IsActive {
			count++
		}
	}
	return count, nil
}

type recordingDispatcher struct {
	store *fakeStore
	fail  bool
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.store.events = append(d.store.events, event)
	if d.fail {
		return errors.New("handler failed")
	}
	return nil
}

func (d *recordingDispatcher) Subscribe(_ events.EventType, _ events.EventHandler) {}

// --------------------- Setup ---------------------

func newTestService(t *testing.T) (*TicketService, *fakeStore, *clock.Fixed) {
	t.Helper()
	store := newFakeStore()
	fixed := &clock.Fixed{Instant: testStart}
	svc := NewTicketService(TicketDependencies{
		TicketRepo:     &fakeTicketRepo{store: store},
		CommentRepo:    &fakeCommentRepo{store: store},
		SLARepo:        &fakeSLARepo{store: store},
		AttachmentRepo: &fakeAttachmentRepo{},
		TagRepo:        &fakeTagRepo{store: store},
		UserRepo:       &fakeUserRepo{store: store},
		Dispatcher:     &recordingDispatcher{store: store},
		Clock:          fixed,
	})
	return svc, store, fixed
}

func eventTypes(store *fakeStore) []events.EventType {
	types := make([]events.EventType, 0, len(store.events))
	for _, e := range store.events {
		types = append(types, e.Type)
	}
	return types
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	return de.Code
}

// --------------------- Create ---------------------

func TestCreate_SetsDueDatesFromPriority(t *testing.T) {
	svc, store, _ := newTestService(t)

	ticket, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{
		Subject:  "Server down",
		Priority: domain.TicketPriorityUrgent,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.NotEmpty(t, ticket.TicketNumber)

	status := store.slas[ticket.ID]
	require.NotNil(t, status)
	assert.Equal(t, testStart.Add(15*time.Minute), *status.FirstResponseDue)
	assert.Equal(t, testStart.Add(120*time.Minute), *status.ResolutionDue)
	assert.Equal(t, domain.SLAOnTrack, status.CurrentStatus)
}

func TestCreate_DefaultsToMediumPriority(t *testing.T) {
	svc, store, _ := newTestService(t)

	ticket, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{Subject: "Question"})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)

	status := store.slas[ticket.ID]
	assert.Equal(t, testStart.Add(240*time.Minute), *status.FirstResponseDue)
	assert.Equal(t, testStart.Add(1440*time.Minute), *status.ResolutionDue)
}

func TestCreate_PublishesCreatedEvent(t *testing.T) {
	svc, store, _ := newTestService(t)

	_, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{Subject: "Hello"})
	require.NoError(t, err)
	require.Len(t, store.events, 1)
	assert.Equal(t, events.EventTicketCreated, store.events[0].Type)
	assert.Equal(t, "org-1", store.events[0].OrganizationID)
}

func TestCreate_RejectsEmptySubject(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{Subject: "   "})
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}

func TestCreate_RejectsInvalidPriority(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{
		Subject:  "Hello",
		Priority: domain.TicketPriority("critical"),
	})
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}

func TestCreate_RejectsBadRequesterEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	bad := "not-an-email"
	_, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{
		Subject:        "Hello",
		RequesterEmail: &bad,
	})
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}

func TestCreate_RejectsTooManyTags(t *testing.T) {
	svc, _, _ := newTestService(t)

	tags := make([]string, 11)
	for i := range tags {
		tags[i] = fmt.Sprintf("tag-%d", i)
	}
	_, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{Subject: "Hello", Tags: tags})
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}

func TestCreate_SurvivesFailingDispatcher(t *testing.T) {
	store := newFakeStore()
	svc := NewTicketService(TicketDependencies{
		TicketRepo:     &fakeTicketRepo{store: store},
		CommentRepo:    &fakeCommentRepo{store: store},
		SLARepo:        &fakeSLARepo{store: store},
		AttachmentRepo: &fakeAttachmentRepo{},
		TagRepo:        &fakeTagRepo{store: store},
		UserRepo:       &fakeUserRepo{store: store},
		Dispatcher:     &recordingDispatcher{store: store, fail: true},
		Clock:          &clock.Fixed{Instant: testStart},
	})

	ticket, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{Subject: "Hello"})
	require.NoError(t, err)
	assert.NotEmpty(t, ticket.ID)
}

// --------------------- AddComment ---------------------

func TestAddComment_FirstPublicCommentStampsFirstResponse(t *testing.T) {
	svc, store, fixed := newTestService(t)

	ticket, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{Subject: "Hello"})
	require.NoError(t, err)

	fixed.Advance(10 * time.Minute)
	_, err = svc.AddComment(context.Background(), "org-1", "agent-1", ticket.ID, "We are on it", false)
	require.NoError(t, err)

	status := store.slas[ticket.ID]
	require.NotNil(t, status.FirstResponseAt)
	assert.Equal(t, testStart.Add(10*time.Minute), *status.FirstResponseAt)
}

func TestAddComment_SecondPublicCommentDoesNotMoveStamp(t *testing.T) {
	svc, store, fixed := newTestService(t)

	ticket, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{Subject: "Hello"})
	require.NoError(t, err)

	fixed.Advance(10 * time.Minute)
	_, err = svc.AddComment(context.Background(), "org-1", "agent-1", ticket.ID, "First reply", false)
	require.NoError(t, err)

	fixed.Advance(30 * time.Minute)
	_, err = svc.AddComment(context.Background(), "org-1", "agent-1", ticket.ID, "Second reply", false)
	require.NoError(t, err)

	status := store.slas[ticket.ID]
	assert.Equal(t, testStart.Add(10*time.Minute), *status.FirstResponseAt)
}

func TestAddComment_InternalCommentDoesNotStamp(t *testing.T) {
	svc, store, fixed := newTestService(t)

	ticket, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{Subject: "Hello"})
	require.NoError(t, err)

	fixed.Advance(5 * time.Minute)
	_, err = svc.AddComment(context.Background(), "org-1", "agent-1", ticket.ID, "internal note", true)
	require.NoError(t, err)

	assert.Nil(t, store.slas[ticket.ID].FirstResponseAt)
}

func TestAddComment_PublicAfterInternalStampsAtPublicTime(t *testing.T) {
	svc, store, fixed := newTestService(t)

	ticket, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{Subject: "Hello"})
	require.NoError(t, err)

	fixed.Advance(5 * time.Minute)
	_, err = svc.AddComment(context.Background(), "org-1", "agent-1", ticket.ID, "internal note", true)
	require.NoError(t, err)

	fixed.Advance(15 * time.Minute)
	_, err = svc.AddComment(context.Background(), "org-1", "agent-1", ticket.ID, "public reply", false)
	require.NoError(t, err)

	status := store.slas[ticket.ID]
	require.NotNil(t, status.FirstResponseAt)
	assert.Equal(t, testStart.Add(20*time.Minute), *status.FirstResponseAt)
}

func TestAddComment_RejectsEmptyContent(t *testing.T) {
	svc, _, _ := newTestService(t)

	ticket, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{Subject: "Hello"})
	require.NoError(t, err)

	_, err = svc.AddComment(context.Background(), "org-1", "agent-1", ticket.ID, "   ", false)
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}

// --------------------- Update ---------------------

func TestUpdate_ResolvingStampsResolvedOnce(t *testing.T) {
	svc, store, fixed := newTestService(t)

	ticket, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{Subject: "Hello"})
	require.NoError(t, err)

	fixed.Advance(time.Hour)
	resolved := domain.TicketStatusResolved
	updated, err := svc.Update(context.Background(), "org-1", "agent-1", ticket.ID, TicketUpdateInput{Status: &resolved})
	require.NoError(t, err)
	require.NotNil(t, updated.ResolvedAt)
	firstStamp := *updated.ResolvedAt

	// Reopen and resolve again much later; neither stamp moves.
	open := domain.TicketStatusOpen
	_, err = svc.Update(context.Background(), "org-1", "agent-1", ticket.ID, TicketUpdateInput{Status: &open})
	require.NoError(t, err)

	fixed.Advance(24 * time.Hour)
	again, err := svc.Update(context.Background(), "org-1", "agent-1", ticket.ID, TicketUpdateInput{Status: &resolved})
	require.NoError(t, err)
	assert.Equal(t, firstStamp, *again.ResolvedAt)
	assert.Equal(t, firstStamp, *store.slas[ticket.ID].ResolvedAt)
}

func TestUpdate_ClosingStampsClosedAt(t *testing.T) {
	svc, _, fixed := newTestService(t)

	ticket, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{Subject: "Hello"})
	require.NoError(t, err)

	fixed.Advance(2 * time.Hour)
	closed := domain.TicketStatusClosed
	updated, err := svc.Update(context.Background(), "org-1", "agent-1", ticket.ID, TicketUpdateInput{Status: &closed})
	require.NoError(t, err)
	require.NotNil(t, updated.ClosedAt)
	assert.Equal(t, testStart.Add(2*time.Hour), *updated.ClosedAt)
}

func TestUpdate_ResolvingFiresResolvedAndUpdatedEvents(t *testing.T) {
	svc, store, _ := newTestService(t)

	ticket, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{Subject: "Hello"})
	require.NoError(t, err)

	resolved := domain.TicketStatusResolved
	_, err = svc.Update(context.Background(), "org-1", "agent-1", ticket.ID, TicketUpdateInput{Status: &resolved})
	require.NoError(t, err)

	types := eventTypes(store)
	assert.Contains(t, types, events.EventTicketResolved)
	assert.Contains(t, types, events.EventTicketUpdated)
}

func TestUpdate_NoStatusChangeNoStatusEvent(t *testing.T) {
	svc, store, _ := newTestService(t)

	ticket, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{Subject: "Hello"})
	require.NoError(t, err)
	store.events = nil

	subject := "New subject"
	_, err = svc.Update(context.Background(), "org-1", "agent-1", ticket.ID, TicketUpdateInput{Subject: &subject})
	require.NoError(t, err)
	assert.Empty(t, store.events)
}

func TestUpdate_ReplacesTags(t *testing.T) {
	svc, store, _ := newTestService(t)

	ticket, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{
		Subject: "Hello",
		Tags:    []string{"billing"},
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), "org-1", "agent-1", ticket.ID, TicketUpdateInput{
		Tags: []string{"billing", "escalated"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"billing", "escalated"}, store.tags[ticket.ID])
}

func TestUpdate_UnknownTicketIsNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	subject := "x"
	_, err := svc.Update(context.Background(), "org-1", "agent-1", "missing", TicketUpdateInput{Subject: &subject})
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

// --------------------- Tenant isolation ---------------------

func TestTenantIsolation_ForeignTicketLooksMissing(t *testing.T) {
	svc, _, _ := newTestService(t)

	ticket, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{Subject: "Hello"})
	require.NoError(t, err)

	_, err = svc.GetWithDetail(context.Background(), "org-2", ticket.ID)
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))

	_, err = svc.AddComment(context.Background(), "org-2", "agent-1", ticket.ID, "hi", false)
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))

	err = svc.Delete(context.Background(), "org-2", ticket.ID)
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

// --------------------- Assign ---------------------

func TestAssign_SetsAssigneeAndNotifies(t *testing.T) {
	svc, store, _ := newTestService(t)
	store.users["agent-1"] = &domain.User{
		ID:             "agent-1",
		OrganizationID: "org-1",
		Email:          "agent@example.com",
		Name:           "Agent",
		IsActive:       true,
	}

	ticket, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{Subject: "Hello"})
	require.NoError(t, err)

	assignee := "agent-1"
	updated, err := svc.Assign(context.Background(), "org-1", "user-1", ticket.ID, &assignee)
	require.NoError(t, err)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, "agent-1", *updated.AssignedTo)
	assert.Contains(t, eventTypes(store), events.EventTicketAssigned)
}

func TestAssign_UnknownAssigneeIsNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	ticket, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{Subject: "Hello"})
	require.NoError(t, err)

	assignee := "stranger"
	_, err = svc.Assign(context.Background(), "org-1", "user-1", ticket.ID, &assignee)
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

func TestAssign_ForeignOrgAssigneeIsNotFound(t *testing.T) {
	svc, store, _ := newTestService(t)
	store.users["agent-2"] = &domain.User{
		ID:             "agent-2",
		OrganizationID: "org-2",
		IsActive:       true,
	}

	ticket, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{Subject: "Hello"})
	require.NoError(t, err)

	assignee := "agent-2"
	_, err = svc.Assign(context.Background(), "org-1", "user-1", ticket.ID, &assignee)
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

func TestAssign_NilClearsAssignment(t *testing.T) {
	svc, store, _ := newTestService(t)
	store.users["agent-1"] = &domain.User{ID: "agent-1", OrganizationID: "org-1", IsActive: true}

	ticket, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{Subject: "Hello"})
	require.NoError(t, err)

	assignee := "agent-1"
	_, err = svc.Assign(context.Background(), "org-1", "user-1", ticket.ID, &assignee)
	require.NoError(t, err)

	updated, err := svc.Assign(context.Background(), "org-1", "user-1", ticket.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, updated.AssignedTo)
}

// --------------------- GetWithDetail ---------------------

func TestGetWithDetail_ReevaluatesHealthAtReadTime(t *testing.T) {
	svc, _, fixed := newTestService(t)

	ticket, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{
		Subject:  "Hello",
		Priority: domain.TicketPriorityUrgent,
	})
	require.NoError(t, err)

	detail, err := svc.GetWithDetail(context.Background(), "org-1", ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SLAOnTrack, detail.SLA.CurrentStatus)

	// Past the 15 minute first response deadline the same row reads breached.
	fixed.Advance(16 * time.Minute)
	detail, err = svc.GetWithDetail(context.Background(), "org-1", ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SLABreached, detail.SLA.CurrentStatus)
	assert.True(t, detail.SLA.FirstResponseBreached)
}

func TestGetWithDetail_AtRiskNearDeadline(t *testing.T) {
	svc, _, fixed := newTestService(t)

	ticket, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{
		Subject:  "Hello",
		Priority: domain.TicketPriorityUrgent,
	})
	require.NoError(t, err)

	fixed.Advance(10 * time.Minute)
	detail, err := svc.GetWithDetail(context.Background(), "org-1", ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SLAAtRisk, detail.SLA.CurrentStatus)
}

func TestGetWithDetail_MetDeadlinesStayOnTrack(t *testing.T) {
	svc, _, fixed := newTestService(t)

	ticket, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{
		Subject:  "Hello",
		Priority: domain.TicketPriorityUrgent,
	})
	require.NoError(t, err)

	fixed.Advance(5 * time.Minute)
	_, err = svc.AddComment(context.Background(), "org-1", "agent-1", ticket.ID, "on it", false)
	require.NoError(t, err)

	fixed.Advance(60 * time.Minute)
	resolved := domain.TicketStatusResolved
	_, err = svc.Update(context.Background(), "org-1", "agent-1", ticket.ID, TicketUpdateInput{Status: &resolved})
	require.NoError(t, err)

	fixed.Advance(7 * 24 * time.Hour)
	detail, err := svc.GetWithDetail(context.Background(), "org-1", ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SLAOnTrack, detail.SLA.CurrentStatus)
	assert.False(t, detail.SLA.FirstResponseBreached)
	assert.False(t, detail.SLA.ResolutionBreached)
}

func TestGetWithDetail_IncludesThreadAndTags(t *testing.T) {
	svc, _, _ := newTestService(t)

	ticket, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{
		Subject: "Hello",
		Tags:    []string{"billing"},
	})
	require.NoError(t, err)

	_, err = svc.AddComment(context.Background(), "org-1", "agent-1", ticket.ID, "first", false)
	require.NoError(t, err)
	_, err = svc.AddComment(context.Background(), "org-1", "agent-1", ticket.ID, "second", true)
	require.NoError(t, err)

	detail, err := svc.GetWithDetail(context.Background(), "org-1", ticket.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Comments, 2)
	assert.Equal(t, []string{"billing"}, detail.Tags)
}

// --------------------- AddAttachment ---------------------

func TestAddAttachment_RecordsMetadata(t *testing.T) {
	svc, _, _ := newTestService(t)

	ticket, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{Subject: "Hello"})
	require.NoError(t, err)

	attachment, err := svc.AddAttachment(context.Background(), "org-1", "user-1", ticket.ID, AttachmentInput{
		FileName: "crash.log",
		FileKey:  "uploads/crash.log",
		FileSize: 2048,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, attachment.ID)
	assert.Equal(t, "user-1", attachment.UploadedBy)
	assert.Equal(t, "application/octet-stream", attachment.MimeType)

	detail, err := svc.GetWithDetail(context.Background(), "org-1", ticket.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Attachments, 1)
}

func TestAddAttachment_RejectsMissingFileName(t *testing.T) {
	svc, _, _ := newTestService(t)

	ticket, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{Subject: "Hello"})
	require.NoError(t, err)

	_, err = svc.AddAttachment(context.Background(), "org-1", "user-1", ticket.ID, AttachmentInput{FileKey: "k"})
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}

// --------------------- List / Delete ---------------------

func TestList_RejectsInvalidStatusFilter(t *testing.T) {
	svc, _, _ := newTestService(t)

	bad := domain.TicketStatus("sleeping")
	_, _, err := svc.List(context.Background(), "org-1", TicketListInput{Status: &bad})
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}

func TestList_ScopedToOrganization(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{Subject: "A"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "org-2", "user-2", TicketCreateInput{Subject: "B"})
	require.NoError(t, err)

	tickets, total, err := svc.List(context.Background(), "org-1", TicketListInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, tickets, 1)
}

func TestDelete_RemovesTicket(t *testing.T) {
	svc, store, _ := newTestService(t)

	ticket, err := svc.Create(context.Background(), "org-1", "user-1", TicketCreateInput{Subject: "Hello"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "org-1", ticket.ID))
	assert.Empty(t, store.tickets)
}
