package dto

import "time"

// UpdateFormulaSettingsRequest replaces the interaction-frequency settings.
type UpdateFormulaSettingsRequest struct {
	DefaultIntervalDays      int  `json:"default_interval_days" validate:"required,min=1,max=365"`
	FoundationsIntervalDays  int  `json:"foundations_interval_days" validate:"required,min=1,max=365"`
	LiftoffIntervalDays      int  `json:"liftoff_interval_days" validate:"required,min=1,max=365"`
	LightspeedIntervalDays   int  `json:"lightspeed_interval_days" validate:"required,min=1,max=365"`
	Program101IntervalDays   int  `json:"program_101_interval_days" validate:"required,min=1,max=365"`
	EnablePriorityEscalation bool `json:"enable_priority_escalation"`
	PriorityEscalationDays   int  `json:"priority_escalation_days" validate:"required,min=1,max=365"`
	FollowUpGraceDays        int  `json:"follow_up_grace_days" validate:"min=0,max=90"`
	AutoFollowUpEnabled      bool `json:"auto_follow_up_enabled"`
}

// FormulaSettingsResponse returns the effective settings. Defaulted reports
// whether the values came from built-in defaults rather than a stored row.
type FormulaSettingsResponse struct {
	DefaultIntervalDays      int        `json:"default_interval_days"`
	FoundationsIntervalDays  int        `json:"foundations_interval_days"`
	LiftoffIntervalDays      int        `json:"liftoff_interval_days"`
	LightspeedIntervalDays   int        `json:"lightspeed_interval_days"`
	Program101IntervalDays   int        `json:"program_101_interval_days"`
	EnablePriorityEscalation bool       `json:"enable_priority_escalation"`
	PriorityEscalationDays   int        `json:"priority_escalation_days"`
	FollowUpGraceDays        int        `json:"follow_up_grace_days"`
	AutoFollowUpEnabled      bool       `json:"auto_follow_up_enabled"`
	Defaulted                bool       `json:"defaulted"`
	UpdatedBy                *string    `json:"updated_by,omitempty"`
	UpdatedAt                *time.Time `json:"updated_at,omitempty"`
}
