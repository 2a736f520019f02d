package models

import "time"

// InteractionType enumerates how staff contacted a student.
type InteractionType string

const (
	InteractionTypeCall    InteractionType = "CALL"
	InteractionTypeEmail   InteractionType = "EMAIL"
	InteractionTypeMeeting InteractionType = "MEETING"
	InteractionTypeOther   InteractionType = "OTHER"
)

// Interaction is a logged contact event between a staff member and a student.
type Interaction struct {
	ID        string          `db:"id" json:"id"`
	StudentID string          `db:"student_id" json:"student_id"`
	StaffID   string          `db:"staff_id" json:"staff_id"`
	Type      InteractionType `db:"type" json:"type"`
	Notes     string          `db:"notes" json:"notes"`
	Archived  bool            `db:"archived" json:"archived"`

	// Follow-up scheduling. FollowUpDate is calendar-date granularity
	// (YYYY-MM-DD); empty when no follow-up is required.
	FollowUpRequired bool   `db:"follow_up_required" json:"follow_up_required"`
	FollowUpDate     string `db:"follow_up_date" json:"follow_up_date,omitempty"`
	FollowUpToStaff  bool   `db:"follow_up_to_staff" json:"follow_up_to_staff"`
	FollowUpSent     bool   `db:"follow_up_sent" json:"follow_up_sent"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// InteractionFilter captures list criteria for interactions.
type InteractionFilter struct {
	StudentID       string
	StaffID         string
	Type            string
	Archived        *bool
	FollowUpPending *bool
	Page            int
	PageSize        int
	SortBy          string
	SortOrder       string
}

// InteractionDetail joins interaction rows with student and staff names.
type InteractionDetail struct {
	Interaction
	StudentName  string `db:"student_name" json:"student_name"`
	StudentEmail string `db:"student_email" json:"student_email"`
	StaffName    string `db:"staff_name" json:"staff_name"`
	StaffEmail   string `db:"staff_email" json:"staff_email"`
}

// DueFollowUp is an interaction whose scheduled follow-up is ready to send.
type DueFollowUp struct {
	InteractionID string `db:"interaction_id" json:"interaction_id"`
	StudentID     string `db:"student_id" json:"student_id"`
	StudentName   string `db:"student_name" json:"student_name"`
	StudentEmail  string `db:"student_email" json:"student_email"`
	StaffName     string `db:"staff_name" json:"staff_name"`
	StaffEmail    string `db:"staff_email" json:"staff_email"`
	ToStaff       bool   `db:"to_staff" json:"to_staff"`
	Notes         string `db:"notes" json:"notes"`
	FollowUpDate  string `db:"follow_up_date" json:"follow_up_date"`
}
