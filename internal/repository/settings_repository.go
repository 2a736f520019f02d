package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/AD-Archer/Student-interaction-sub000/internal/models"
)

// SettingsRepository manages the single global formula settings row.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository constructs a SettingsRepository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get fetches the formula settings row by its fixed identifier.
func (r *SettingsRepository) Get(ctx context.Context) (*models.FormulaSettings, error) {
	const query = `SELECT id, default_interval_days, foundations_interval_days, liftoff_interval_days,
        lightspeed_interval_days, program_101_interval_days, enable_priority_escalation,
        priority_escalation_days, follow_up_grace_days, auto_follow_up_enabled, updated_by, updated_at
        FROM formula_settings WHERE id = $1`
	var settings models.FormulaSettings
	if err := r.db.GetContext(ctx, &settings, query, models.FormulaSettingsID); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Upsert writes the formula settings row, creating it when absent.
func (r *SettingsRepository) Upsert(ctx context.Context, settings *models.FormulaSettings) error {
	settings.ID = models.FormulaSettingsID
	settings.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO formula_settings (id, default_interval_days, foundations_interval_days,
        liftoff_interval_days, lightspeed_interval_days, program_101_interval_days,
        enable_priority_escalation, priority_escalation_days, follow_up_grace_days,
        auto_follow_up_enabled, updated_by, updated_at)
        VALUES (:id, :default_interval_days, :foundations_interval_days, :liftoff_interval_days,
        :lightspeed_interval_days, :program_101_interval_days, :enable_priority_escalation,
        :priority_escalation_days, :follow_up_grace_days, :auto_follow_up_enabled, :updated_by, :updated_at)
        ON CONFLICT (id) DO UPDATE SET
        default_interval_days = EXCLUDED.default_interval_days,
        foundations_interval_days = EXCLUDED.foundations_interval_days,
        liftoff_interval_days = EXCLUDED.liftoff_interval_days,
        lightspeed_interval_days = EXCLUDED.lightspeed_interval_days,
        program_101_interval_days = EXCLUDED.program_101_interval_days,
        enable_priority_escalation = EXCLUDED.enable_priority_escalation,
        priority_escalation_days = EXCLUDED.priority_escalation_days,
        follow_up_grace_days = EXCLUDED.follow_up_grace_days,
        auto_follow_up_enabled = EXCLUDED.auto_follow_up_enabled,
        updated_by = EXCLUDED.updated_by,
        updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, settings); err != nil {
		return fmt.Errorf("upsert formula settings: %w", err)
	}
	return nil
}
