package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AD-Archer/Student-interaction-sub000/internal/formula"
	"github.com/AD-Archer/Student-interaction-sub000/internal/models"
)

type analyticsRepoStub struct {
	total, active int
	interactions  int
	byProgram     []models.ProgramInteractionCount
	byType        []models.TypeInteractionCount
	pending       []models.PendingFollowUp
	err           error
}

func (s *analyticsRepoStub) StudentCounts(ctx context.Context) (int, int, error) {
	return s.total, s.active, s.err
}

func (s *analyticsRepoStub) InteractionTotal(ctx context.Context) (int, error) {
	return s.interactions, s.err
}

func (s *analyticsRepoStub) InteractionsByProgram(ctx context.Context) ([]models.ProgramInteractionCount, error) {
	return s.byProgram, s.err
}

func (s *analyticsRepoStub) InteractionsByType(ctx context.Context) ([]models.TypeInteractionCount, error) {
	return s.byType, s.err
}

func (s *analyticsRepoStub) PendingFollowUps(ctx context.Context) ([]models.PendingFollowUp, error) {
	return s.pending, s.err
}

type dueEvaluatorStub struct {
	due []models.StudentDueInfo
}

func (s dueEvaluatorStub) NeedingInteraction(ctx context.Context) []models.StudentDueInfo {
	return s.due
}

func TestAnalyticsServiceSummarySplitsFollowUps(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	repo := &analyticsRepoStub{
		total:        12,
		active:       10,
		interactions: 40,
		byProgram:    []models.ProgramInteractionCount{{Program: "foundations", Count: 25}},
		byType:       []models.TypeInteractionCount{{Type: "CALL", Count: 30}},
		pending: []models.PendingFollowUp{
			{InteractionID: "int-1", FollowUpDate: "2025-06-01"}, // 9 days ago, overdue
			{InteractionID: "int-2", FollowUpDate: "2025-06-09"}, // within grace
			{InteractionID: "int-3", FollowUpDate: "2025-06-20"}, // future
		},
	}
	students := dueEvaluatorStub{due: []models.StudentDueInfo{{}, {}}}
	service := NewAnalyticsService(repo, students, formulaProviderStub{cfg: formula.DefaultConfig()}, nil, nil, nil)
	service.now = func() time.Time { return now }

	summary, cached, err := service.Summary(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 12, summary.TotalStudents)
	assert.Equal(t, 10, summary.ActiveStudents)
	assert.Equal(t, 40, summary.TotalInteractions)
	assert.Equal(t, 3, summary.FollowUpsPending)
	assert.Equal(t, 1, summary.FollowUpsOverdue)
	assert.Equal(t, 2, summary.StudentsNeedingInteraction)
	assert.Equal(t, now, summary.GeneratedAt)
}

func TestAnalyticsServiceSummaryNoOverdueWhenAutoDisabled(t *testing.T) {
	cfg := formula.DefaultConfig()
	cfg.AutoFollowUpEnabled = false
	repo := &analyticsRepoStub{
		pending: []models.PendingFollowUp{{InteractionID: "int-1", FollowUpDate: "2020-01-01"}},
	}
	service := NewAnalyticsService(repo, dueEvaluatorStub{}, formulaProviderStub{cfg: cfg}, nil, nil, nil)

	summary, _, err := service.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FollowUpsPending)
	assert.Zero(t, summary.FollowUpsOverdue)
}
