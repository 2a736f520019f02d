package mailer

import (
	"context"

	"go.uber.org/zap"
)

// ConsoleMailer logs messages instead of sending them. Used in development
// and as the fallback when no provider key is configured.
type ConsoleMailer struct {
	logger *zap.Logger
}

var _ Mailer = (*ConsoleMailer)(nil)

// NewConsoleMailer constructs a console mailer.
func NewConsoleMailer(logger *zap.Logger) *ConsoleMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleMailer{logger: logger}
}

// Send writes the message to the log.
func (m *ConsoleMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("email (console)",
		zap.String("to", msg.ToAddress),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.TextBody),
	)
	return nil
}
