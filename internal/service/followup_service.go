package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/AD-Archer/Student-interaction-sub000/internal/dto"
	"github.com/AD-Archer/Student-interaction-sub000/internal/models"
	appErrors "github.com/AD-Archer/Student-interaction-sub000/pkg/errors"
	"github.com/AD-Archer/Student-interaction-sub000/pkg/mailer"
)

type followUpRepository interface {
	ListDueFollowUps(ctx context.Context, asOf string) ([]models.DueFollowUp, error)
	MarkFollowUpSent(ctx context.Context, id string) error
}

// FollowUpService dispatches reminder emails for follow-ups that have come
// due. It backs both the daily cron run and the manual trigger endpoint.
type FollowUpService struct {
	repo     followUpRepository
	settings formulaProvider
	mail     mailer.Mailer
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
}

// NewFollowUpService constructs a FollowUpService.
func NewFollowUpService(repo followUpRepository, settings formulaProvider, mail mailer.Mailer, metrics *MetricsService, logger *zap.Logger) *FollowUpService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FollowUpService{repo: repo, settings: settings, mail: mail, metrics: metrics, logger: logger, now: time.Now}
}

// ProcessDue sends a reminder for every unsent follow-up dated today or
// earlier. Each item is handled independently: one failed send is recorded
// and the run continues with the rest.
func (s *FollowUpService) ProcessDue(ctx context.Context) (*dto.FollowUpRunResult, error) {
	cfg, defaulted := s.settings.GetFormula(ctx)
	if !cfg.AutoFollowUpEnabled {
		s.logger.Info("automatic follow-up dispatch disabled, skipping run")
		return &dto.FollowUpRunResult{}, nil
	}
	if defaulted {
		s.logger.Debug("follow-up run using default formula settings")
	}

	today := s.now().UTC().Format("2006-01-02")
	due, err := s.repo.ListDueFollowUps(ctx, today)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load due follow-ups")
	}

	result := &dto.FollowUpRunResult{Processed: len(due)}
	for _, item := range due {
		if err := s.dispatch(ctx, item); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", item.InteractionID, err))
			s.logger.Error("follow-up dispatch failed",
				zap.String("interaction_id", item.InteractionID),
				zap.String("student_id", item.StudentID),
				zap.Error(err))
			continue
		}
		result.Sent++
	}

	if s.metrics != nil {
		s.metrics.RecordFollowUpDispatch(result.Sent, result.Failed)
	}
	s.logger.Info("follow-up run completed",
		zap.Int("processed", result.Processed),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed))
	return result, nil
}

func (s *FollowUpService) dispatch(ctx context.Context, item models.DueFollowUp) error {
	msg := followUpMessage(item)
	if err := s.mail.Send(ctx, msg); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}
	if err := s.repo.MarkFollowUpSent(ctx, item.InteractionID); err != nil {
		// The email went out; surface the bookkeeping failure so the run
		// report shows it, the next run will retry the send.
		return fmt.Errorf("mark follow-up sent: %w", err)
	}
	return nil
}

// SendTest delivers a test message so operators can verify mail settings.
func (s *FollowUpService) SendTest(ctx context.Context, req dto.TestEmailRequest) error {
	msg := mailer.Message{
		ToName:    req.ToName,
		ToAddress: req.ToAddress,
		Subject:   "Test email",
		TextBody:  "This is a test message confirming the outbound email configuration works.",
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to send test email")
	}
	return nil
}

func followUpMessage(item models.DueFollowUp) mailer.Message {
	toName := item.StudentName
	toAddress := item.StudentEmail
	if item.ToStaff {
		toName = item.StaffName
		toAddress = item.StaffEmail
	}
	subject := fmt.Sprintf("Follow-up due: %s", item.StudentName)
	body := fmt.Sprintf("A follow-up with %s was scheduled for %s.\n\nNotes from the last interaction:\n%s\n",
		item.StudentName, item.FollowUpDate, item.Notes)
	return mailer.Message{
		ToName:    toName,
		ToAddress: toAddress,
		Subject:   subject,
		TextBody:  body,
	}
}
