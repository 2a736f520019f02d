package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AD-Archer/Student-interaction-sub000/internal/dto"
	"github.com/AD-Archer/Student-interaction-sub000/internal/formula"
	"github.com/AD-Archer/Student-interaction-sub000/internal/models"
	appErrors "github.com/AD-Archer/Student-interaction-sub000/pkg/errors"
)

type settingsRepoStub struct {
	stored *models.FormulaSettings
	getErr error
	upErr  error
}

func (s *settingsRepoStub) Get(ctx context.Context) (*models.FormulaSettings, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.stored == nil {
		return nil, sql.ErrNoRows
	}
	copied := *s.stored
	return &copied, nil
}

func (s *settingsRepoStub) Upsert(ctx context.Context, settings *models.FormulaSettings) error {
	if s.upErr != nil {
		return s.upErr
	}
	copied := *settings
	s.stored = &copied
	return nil
}

type cacheInvalidatorStub struct {
	patterns []string
}

func (c *cacheInvalidatorStub) Invalidate(ctx context.Context, pattern string) error {
	c.patterns = append(c.patterns, pattern)
	return nil
}

func TestSettingsServiceGetFormulaDefaultsWhenMissing(t *testing.T) {
	service := NewSettingsService(&settingsRepoStub{}, nil, validator.New(), nil)

	cfg, defaulted := service.GetFormula(context.Background())
	assert.True(t, defaulted)
	assert.Equal(t, formula.DefaultConfig(), cfg)
}

func TestSettingsServiceGetFormulaDefaultsOnError(t *testing.T) {
	service := NewSettingsService(&settingsRepoStub{getErr: errors.New("db down")}, nil, validator.New(), nil)

	cfg, defaulted := service.GetFormula(context.Background())
	assert.True(t, defaulted)
	assert.Equal(t, formula.DefaultConfig(), cfg)
}

func TestSettingsServiceGetFormulaUsesStoredValues(t *testing.T) {
	repo := &settingsRepoStub{stored: &models.FormulaSettings{
		ID:                       models.FormulaSettingsID,
		DefaultIntervalDays:      45,
		FoundationsIntervalDays:  10,
		LiftoffIntervalDays:      20,
		LightspeedIntervalDays:   5,
		Program101IntervalDays:   15,
		EnablePriorityEscalation: false,
		PriorityEscalationDays:   9,
		FollowUpGraceDays:        1,
		AutoFollowUpEnabled:      false,
	}}
	service := NewSettingsService(repo, nil, validator.New(), nil)

	cfg, defaulted := service.GetFormula(context.Background())
	assert.False(t, defaulted)
	assert.Equal(t, 45, cfg.DefaultIntervalDays)
	assert.Equal(t, 10, cfg.FoundationsIntervalDays)
	assert.False(t, cfg.EnablePriorityEscalation)
	assert.False(t, cfg.AutoFollowUpEnabled)
}

func TestSettingsServiceGetReportsDefaulted(t *testing.T) {
	service := NewSettingsService(&settingsRepoStub{}, nil, validator.New(), nil)

	resp, err := service.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.Defaulted)
	assert.Equal(t, 30, resp.DefaultIntervalDays)
	assert.Equal(t, 14, resp.FoundationsIntervalDays)
}

func TestSettingsServiceUpdateInvalidatesCaches(t *testing.T) {
	repo := &settingsRepoStub{}
	cache := &cacheInvalidatorStub{}
	service := NewSettingsService(repo, cache, validator.New(), nil)

	req := dto.UpdateFormulaSettingsRequest{
		DefaultIntervalDays:      40,
		FoundationsIntervalDays:  14,
		LiftoffIntervalDays:      21,
		LightspeedIntervalDays:   7,
		Program101IntervalDays:   30,
		EnablePriorityEscalation: true,
		PriorityEscalationDays:   5,
		FollowUpGraceDays:        2,
		AutoFollowUpEnabled:      true,
	}
	resp, err := service.Update(context.Background(), req, &models.JWTClaims{UserID: "usr-1"})
	require.NoError(t, err)
	assert.False(t, resp.Defaulted)
	assert.Equal(t, 40, resp.DefaultIntervalDays)
	require.NotNil(t, repo.stored)
	require.NotNil(t, repo.stored.UpdatedBy)
	assert.Equal(t, "usr-1", *repo.stored.UpdatedBy)
	assert.Contains(t, cache.patterns, "analytics:*")
	assert.Contains(t, cache.patterns, "dashboard:*")
}

func TestSettingsServiceUpdateRejectsInvalidPayload(t *testing.T) {
	service := NewSettingsService(&settingsRepoStub{}, nil, validator.New(), nil)

	_, err := service.Update(context.Background(), dto.UpdateFormulaSettingsRequest{}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

type settingsCacheRepoStub struct {
	deleted []string
}

func (c *settingsCacheRepoStub) Get(ctx context.Context, key string, dest interface{}) error {
	return appErrors.ErrCacheMiss
}

func (c *settingsCacheRepoStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (c *settingsCacheRepoStub) DeleteByPattern(ctx context.Context, pattern string) error {
	c.deleted = append(c.deleted, pattern)
	return nil
}

func TestSettingsServiceUpdateInvalidatesThroughCacheService(t *testing.T) {
	cacheRepo := &settingsCacheRepoStub{}
	cacheSvc := NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	service := NewSettingsService(&settingsRepoStub{}, cacheSvc, validator.New(), nil)

	req := dto.UpdateFormulaSettingsRequest{
		DefaultIntervalDays:      30,
		FoundationsIntervalDays:  14,
		LiftoffIntervalDays:      21,
		LightspeedIntervalDays:   7,
		Program101IntervalDays:   30,
		EnablePriorityEscalation: true,
		PriorityEscalationDays:   5,
		FollowUpGraceDays:        2,
		AutoFollowUpEnabled:      true,
	}
	_, err := service.Update(context.Background(), req, &models.JWTClaims{UserID: "usr-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"analytics:*", "dashboard:*"}, cacheRepo.deleted)
}
