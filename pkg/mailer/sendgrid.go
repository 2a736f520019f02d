package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/AD-Archer/Student-interaction-sub000/pkg/config"
)

// SendgridMailer delivers messages through the SendGrid v3 API.
type SendgridMailer struct {
	client     *sendgrid.Client
	from       *sgmail.Email
	subjPrefix string
	logger     *zap.Logger
}

var _ Mailer = (*SendgridMailer)(nil)

// NewSendgridMailer constructs a SendGrid-backed mailer.
func NewSendgridMailer(cfg config.EmailConfig, logger *zap.Logger) *SendgridMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SendgridMailer{
		client:     sendgrid.NewSendClient(cfg.SendgridKey),
		from:       sgmail.NewEmail(cfg.FromName, cfg.FromAddress),
		subjPrefix: cfg.SubjPrefix,
		logger:     logger,
	}
}

// Send delivers a single message, returning an error on non-2xx responses.
func (m *SendgridMailer) Send(ctx context.Context, msg Message) error {
	subject := msg.Subject
	if m.subjPrefix != "" {
		subject = m.subjPrefix + " " + subject
	}
	to := sgmail.NewEmail(msg.ToName, msg.ToAddress)
	html := msg.HTMLBody
	if html == "" {
		html = msg.TextBody
	}
	message := sgmail.NewSingleEmail(m.from, subject, to, msg.TextBody, html)

	res, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		m.logger.Warn("sendgrid rejected message",
			zap.Int("status", res.StatusCode),
			zap.String("to", msg.ToAddress),
		)
		return fmt.Errorf("sendgrid send: status %d", res.StatusCode)
	}
	return nil
}
