package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/AD-Archer/Student-interaction-sub000/internal/dto"
	"github.com/AD-Archer/Student-interaction-sub000/internal/formula"
	"github.com/AD-Archer/Student-interaction-sub000/internal/models"
	appErrors "github.com/AD-Archer/Student-interaction-sub000/pkg/errors"
)

type settingsRepository interface {
	Get(ctx context.Context) (*models.FormulaSettings, error)
	Upsert(ctx context.Context, settings *models.FormulaSettings) error
}

type settingsCacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// SettingsService manages the interaction-frequency configuration. Reads
// never fail: a missing or unreadable settings row yields the built-in
// defaults with the Defaulted flag set so callers can surface it.
type SettingsService struct {
	repo      settingsRepository
	cache     settingsCacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(repo settingsRepository, cache settingsCacheInvalidator, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// GetFormula loads the effective formula configuration. The boolean reports
// whether built-in defaults were substituted for a missing or failed read.
func (s *SettingsService) GetFormula(ctx context.Context) (formula.Config, bool) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to load formula settings, using defaults", zap.Error(err))
		}
		return formula.DefaultConfig(), true
	}
	return formula.Config{
		DefaultIntervalDays:      settings.DefaultIntervalDays,
		FoundationsIntervalDays:  settings.FoundationsIntervalDays,
		LiftoffIntervalDays:      settings.LiftoffIntervalDays,
		LightspeedIntervalDays:   settings.LightspeedIntervalDays,
		Program101IntervalDays:   settings.Program101IntervalDays,
		EnablePriorityEscalation: settings.EnablePriorityEscalation,
		PriorityEscalationDays:   settings.PriorityEscalationDays,
		FollowUpGraceDays:        settings.FollowUpGraceDays,
		AutoFollowUpEnabled:      settings.AutoFollowUpEnabled,
	}, false
}

// Get returns the effective settings for display.
func (s *SettingsService) Get(ctx context.Context) (*dto.FormulaSettingsResponse, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			cfg := formula.DefaultConfig()
			return settingsResponseFromConfig(cfg, true), nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load formula settings")
	}
	resp := &dto.FormulaSettingsResponse{
		DefaultIntervalDays:      settings.DefaultIntervalDays,
		FoundationsIntervalDays:  settings.FoundationsIntervalDays,
		LiftoffIntervalDays:      settings.LiftoffIntervalDays,
		LightspeedIntervalDays:   settings.LightspeedIntervalDays,
		Program101IntervalDays:   settings.Program101IntervalDays,
		EnablePriorityEscalation: settings.EnablePriorityEscalation,
		PriorityEscalationDays:   settings.PriorityEscalationDays,
		FollowUpGraceDays:        settings.FollowUpGraceDays,
		AutoFollowUpEnabled:      settings.AutoFollowUpEnabled,
		Defaulted:                false,
		UpdatedBy:                settings.UpdatedBy,
	}
	updatedAt := settings.UpdatedAt
	resp.UpdatedAt = &updatedAt
	return resp, nil
}

// Update replaces the stored settings and invalidates derived caches.
func (s *SettingsService) Update(ctx context.Context, req dto.UpdateFormulaSettingsRequest, actor *models.JWTClaims) (*dto.FormulaSettingsResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}

	settings := &models.FormulaSettings{
		DefaultIntervalDays:      req.DefaultIntervalDays,
		FoundationsIntervalDays:  req.FoundationsIntervalDays,
		LiftoffIntervalDays:      req.LiftoffIntervalDays,
		LightspeedIntervalDays:   req.LightspeedIntervalDays,
		Program101IntervalDays:   req.Program101IntervalDays,
		EnablePriorityEscalation: req.EnablePriorityEscalation,
		PriorityEscalationDays:   req.PriorityEscalationDays,
		FollowUpGraceDays:        req.FollowUpGraceDays,
		AutoFollowUpEnabled:      req.AutoFollowUpEnabled,
	}
	if actor != nil && actor.UserID != "" {
		userID := actor.UserID
		settings.UpdatedBy = &userID
	}

	if err := s.repo.Upsert(ctx, settings); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save formula settings")
	}

	s.invalidateDerivedCaches(ctx)

	resp := settingsResponseFromConfig(formula.Config{
		DefaultIntervalDays:      settings.DefaultIntervalDays,
		FoundationsIntervalDays:  settings.FoundationsIntervalDays,
		LiftoffIntervalDays:      settings.LiftoffIntervalDays,
		LightspeedIntervalDays:   settings.LightspeedIntervalDays,
		Program101IntervalDays:   settings.Program101IntervalDays,
		EnablePriorityEscalation: settings.EnablePriorityEscalation,
		PriorityEscalationDays:   settings.PriorityEscalationDays,
		FollowUpGraceDays:        settings.FollowUpGraceDays,
		AutoFollowUpEnabled:      settings.AutoFollowUpEnabled,
	}, false)
	resp.UpdatedBy = settings.UpdatedBy
	updatedAt := settings.UpdatedAt
	resp.UpdatedAt = &updatedAt
	return resp, nil
}

// Due status baked into analytics and dashboard payloads depends on the
// thresholds, so both caches are stale after any settings write.
func (s *SettingsService) invalidateDerivedCaches(ctx context.Context) {
	if s.cache == nil {
		return
	}
	for _, pattern := range []string{"analytics:*", "dashboard:*"} {
		if err := s.cache.Invalidate(ctx, pattern); err != nil {
			s.logger.Warn("failed to invalidate cache after settings update",
				zap.String("pattern", pattern), zap.Error(err))
		}
	}
}

func settingsResponseFromConfig(cfg formula.Config, defaulted bool) *dto.FormulaSettingsResponse {
	return &dto.FormulaSettingsResponse{
		DefaultIntervalDays:      cfg.DefaultIntervalDays,
		FoundationsIntervalDays:  cfg.FoundationsIntervalDays,
		LiftoffIntervalDays:      cfg.LiftoffIntervalDays,
		LightspeedIntervalDays:   cfg.LightspeedIntervalDays,
		Program101IntervalDays:   cfg.Program101IntervalDays,
		EnablePriorityEscalation: cfg.EnablePriorityEscalation,
		PriorityEscalationDays:   cfg.PriorityEscalationDays,
		FollowUpGraceDays:        cfg.FollowUpGraceDays,
		AutoFollowUpEnabled:      cfg.AutoFollowUpEnabled,
		Defaulted:                defaulted,
	}
}
