package models

import "time"

// FormulaSettingsID is the fixed identifier of the single global settings row.
const FormulaSettingsID = "interaction-formula"

// FormulaSettings is the persisted interaction-frequency configuration.
// A missing row means every field falls back to its documented default.
type FormulaSettings struct {
	ID                       string    `db:"id" json:"id"`
	DefaultIntervalDays      int       `db:"default_interval_days" json:"default_interval_days"`
	FoundationsIntervalDays  int       `db:"foundations_interval_days" json:"foundations_interval_days"`
	LiftoffIntervalDays      int       `db:"liftoff_interval_days" json:"liftoff_interval_days"`
	LightspeedIntervalDays   int       `db:"lightspeed_interval_days" json:"lightspeed_interval_days"`
	Program101IntervalDays   int       `db:"program_101_interval_days" json:"program_101_interval_days"`
	EnablePriorityEscalation bool      `db:"enable_priority_escalation" json:"enable_priority_escalation"`
	PriorityEscalationDays   int       `db:"priority_escalation_days" json:"priority_escalation_days"`
	FollowUpGraceDays        int       `db:"follow_up_grace_days" json:"follow_up_grace_days"`
	AutoFollowUpEnabled      bool      `db:"auto_follow_up_enabled" json:"auto_follow_up_enabled"`
	UpdatedBy                *string   `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt                time.Time `db:"updated_at" json:"updated_at"`
}
