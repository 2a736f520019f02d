package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/AD-Archer/Student-interaction-sub000/internal/formula"
	"github.com/AD-Archer/Student-interaction-sub000/internal/models"
	appErrors "github.com/AD-Archer/Student-interaction-sub000/pkg/errors"
)

const analyticsSummaryCacheKey = "analytics:summary"

// analyticsRepository describes the aggregate queries behind the summary.
type analyticsRepository interface {
	StudentCounts(ctx context.Context) (total, active int, err error)
	InteractionTotal(ctx context.Context) (int, error)
	InteractionsByProgram(ctx context.Context) ([]models.ProgramInteractionCount, error)
	InteractionsByType(ctx context.Context) ([]models.TypeInteractionCount, error)
	PendingFollowUps(ctx context.Context) ([]models.PendingFollowUp, error)
}

type dueEvaluator interface {
	NeedingInteraction(ctx context.Context) []models.StudentDueInfo
}

// AnalyticsService builds the aggregate summary payload with cache integration.
type AnalyticsService struct {
	repo     analyticsRepository
	students dueEvaluator
	settings formulaProvider
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
}

// NewAnalyticsService constructs an analytics service.
func NewAnalyticsService(repo analyticsRepository, students dueEvaluator, settings formulaProvider, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{repo: repo, students: students, settings: settings, cache: cache, metrics: metrics, logger: logger, now: time.Now}
}

// Summary returns the analytics payload. The boolean indicates whether the
// data originated from cache.
func (s *AnalyticsService) Summary(ctx context.Context) (*models.AnalyticsSummary, bool, error) {
	var cached models.AnalyticsSummary
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, analyticsSummaryCacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	start := time.Now()
	summary, err := s.build(ctx)
	if err != nil {
		return nil, false, err
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("analytics_summary", time.Since(start))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, analyticsSummaryCacheKey, summary, 0); err != nil {
			s.logger.Warn("cache analytics summary", zap.Error(err))
		}
	}
	return summary, false, nil
}

func (s *AnalyticsService) build(ctx context.Context) (*models.AnalyticsSummary, error) {
	total, active, err := s.repo.StudentCounts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}
	interactions, err := s.repo.InteractionTotal(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count interactions")
	}
	byProgram, err := s.repo.InteractionsByProgram(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to group interactions by program")
	}
	byType, err := s.repo.InteractionsByType(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to group interactions by type")
	}

	pending, overdue, err := s.followUpCounts(ctx)
	if err != nil {
		return nil, err
	}

	return &models.AnalyticsSummary{
		TotalStudents:              total,
		ActiveStudents:             active,
		TotalInteractions:          interactions,
		InteractionsByProgram:      byProgram,
		InteractionsByType:         byType,
		FollowUpsPending:           pending,
		FollowUpsOverdue:           overdue,
		StudentsNeedingInteraction: len(s.students.NeedingInteraction(ctx)),
		GeneratedAt:                s.now().UTC(),
	}, nil
}

// followUpCounts splits unsent follow-ups into pending and overdue using the
// grace-period rule. Overdue entries are counted in both buckets.
func (s *AnalyticsService) followUpCounts(ctx context.Context) (pending, overdue int, err error) {
	rows, err := s.repo.PendingFollowUps(ctx)
	if err != nil {
		return 0, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pending follow-ups")
	}
	cfg, _ := s.settings.GetFormula(ctx)
	now := s.now()
	for _, row := range rows {
		pending++
		if formula.IsFollowUpOverdue(row.FollowUpDate, cfg, now) {
			overdue++
		}
	}
	return pending, overdue, nil
}

// Invalidate drops the cached summary, e.g. after bulk imports.
func (s *AnalyticsService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "analytics:*"); err != nil {
		s.logger.Warn("invalidate analytics cache", zap.Error(err))
	}
}

// SystemMetrics exposes the runtime metrics snapshot.
func (s *AnalyticsService) SystemMetrics() models.SystemMetrics {
	if s.metrics == nil {
		return models.SystemMetrics{GeneratedAt: time.Now().UTC()}
	}
	return s.metrics.Snapshot()
}
