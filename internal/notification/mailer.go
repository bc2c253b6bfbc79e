package notification

import (
	"context"

	"go.uber.org/zap"
)

// Message is a rendered email ready for delivery.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// Mailer delivers email. Implementations wrap a provider; the service
// treats every Send as best-effort.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// logMailer records outgoing mail instead of delivering it. Used in
// development and wherever no provider is configured.
type logMailer struct {
	logger *zap.Logger
	from   string
}

// NewLogMailer builds the logging Mailer.
func NewLogMailer(logger *zap.Logger, from string) Mailer {
	return &logMailer{logger: logger, from: from}
}

func (m *logMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("email (log only)",
		zap.String("from", m.from),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}
