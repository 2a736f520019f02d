package models

import "time"

// Student represents a program participant tracked by staff.
type Student struct {
	ID        string    `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Email     string    `db:"email" json:"email"`
	Program   string    `db:"program" json:"program"`
	Cohort    *int      `db:"cohort" json:"cohort,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	Program   string
	Cohort    *int
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// StudentWithLastInteraction pairs a student with their most recent
// non-archived interaction timestamp, when one exists.
type StudentWithLastInteraction struct {
	Student
	LastInteractionAt *time.Time `db:"last_interaction_at" json:"last_interaction_at,omitempty"`
}

// StudentDueInfo is a student annotated with interaction-due status.
type StudentDueInfo struct {
	Student           Student    `json:"student"`
	LastInteractionAt *time.Time `json:"last_interaction_at,omitempty"`
	NeedsInteraction  bool       `json:"needs_interaction"`
	IsPriority        bool       `json:"is_priority"`
	// DaysSinceLast is omitted for students never contacted; NeverContacted
	// is set instead because JSON cannot carry +Inf.
	DaysSinceLast  *int `json:"days_since_last_interaction,omitempty"`
	NeverContacted bool `json:"never_contacted"`
}
