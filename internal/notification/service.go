package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/aryaminakshi71/helpdesk/internal/events"
)

// Service turns ticket lifecycle events into emails. Delivery is
// best-effort: a failing mailer is logged and never surfaces to the
// operation that published the event.
type Service struct {
	mailer    Mailer
	templates Templates
	logger    *zap.Logger
}

// NewService creates the service.
func NewService(mailer Mailer, templates Templates, logger *zap.Logger) *Service {
	return &Service{mailer: mailer, templates: templates, logger: logger}
}

// RegisterHandlers subscribes to the lifecycle events.
func (s *Service) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketCreated, s.handleTicketCreated)
	dispatcher.Subscribe(events.EventTicketUpdated, s.handleTicketUpdated)
	dispatcher.Subscribe(events.EventTicketResolved, s.handleTicketResolved)
	dispatcher.Subscribe(events.EventTicketAssigned, s.handleTicketAssigned)
}

func (s *Service) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok || payload.RequesterEmail == nil {
		return nil
	}
	name := ""
	if payload.RequesterName != nil {
		name = *payload.RequesterName
	}
	msg := s.templates.TicketCreated(payload.TicketNumber, payload.Subject, name, *payload.RequesterEmail, string(payload.Priority))
	return s.send(ctx, event, msg)
}

func (s *Service) handleTicketUpdated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketUpdatedPayload)
	if !ok || payload.RequesterEmail == nil {
		return nil
	}
	msg := s.templates.TicketUpdated(payload.TicketNumber, payload.Subject, string(payload.NewStatus), *payload.RequesterEmail)
	return s.send(ctx, event, msg)
}

func (s *Service) handleTicketResolved(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketResolvedPayload)
	if !ok || payload.RequesterEmail == nil {
		return nil
	}
	msg := s.templates.TicketResolved(payload.TicketNumber, payload.Subject, *payload.RequesterEmail)
	return s.send(ctx, event, msg)
}

func (s *Service) handleTicketAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok || payload.AssigneeEmail == nil {
		return nil
	}
	msg := s.templates.TicketAssigned(payload.TicketNumber, payload.Subject, *payload.AssigneeEmail)
	return s.send(ctx, event, msg)
}

func (s *Service) send(ctx context.Context, event events.Event, msg Message) error {
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Warn("notification delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
	}
	return nil
}
