package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/AD-Archer/Student-interaction-sub000/internal/dto"
	"github.com/AD-Archer/Student-interaction-sub000/internal/models"
	appErrors "github.com/AD-Archer/Student-interaction-sub000/pkg/errors"
)

const dashboardCacheKey = "dashboard:overview"

type dashboardInteractionLister interface {
	List(ctx context.Context, filter models.InteractionFilter) ([]models.InteractionDetail, int, error)
}

// DashboardService composes the staff landing-page payload from analytics,
// due-status evaluation and recent activity.
type DashboardService struct {
	analytics *AnalyticsService
	students  dueEvaluator
	recent    dashboardInteractionLister
	cache     *CacheService
	logger    *zap.Logger
	now       func() time.Time
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(analytics *AnalyticsService, students dueEvaluator, recent dashboardInteractionLister, cache *CacheService, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{analytics: analytics, students: students, recent: recent, cache: cache, logger: logger, now: time.Now}
}

// Overview returns the dashboard payload. The boolean indicates whether the
// data originated from cache.
func (s *DashboardService) Overview(ctx context.Context) (*dto.DashboardResponse, bool, error) {
	var cached dto.DashboardResponse
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, dashboardCacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	summary, _, err := s.analytics.Summary(ctx)
	if err != nil {
		return nil, false, err
	}

	notArchived := false
	recent, _, err := s.recent.List(ctx, models.InteractionFilter{
		Archived: &notArchived,
		Page:     1,
		PageSize: 10,
	})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recent interactions")
	}

	resp := &dto.DashboardResponse{
		Summary:            *summary,
		NeedingInteraction: s.students.NeedingInteraction(ctx),
		RecentInteractions: recent,
		GeneratedAt:        s.now().UTC(),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardCacheKey, resp, 0); err != nil {
			s.logger.Warn("cache dashboard overview", zap.Error(err))
		}
	}
	return resp, false, nil
}
