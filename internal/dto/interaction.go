package dto

// CreateInteractionRequest is the payload for logging a contact event.
type CreateInteractionRequest struct {
	StudentID        string `json:"student_id" validate:"required"`
	Type             string `json:"type" validate:"required,oneof=CALL EMAIL MEETING OTHER"`
	Notes            string `json:"notes" validate:"max=5000"`
	FollowUpRequired bool   `json:"follow_up_required"`
	FollowUpDate     string `json:"follow_up_date" validate:"omitempty,datetime=2006-01-02"`
	FollowUpToStaff  bool   `json:"follow_up_to_staff"`
}

// UpdateInteractionRequest edits a logged interaction. Nil fields are left
// unchanged.
type UpdateInteractionRequest struct {
	Type             *string `json:"type" validate:"omitempty,oneof=CALL EMAIL MEETING OTHER"`
	Notes            *string `json:"notes" validate:"omitempty,max=5000"`
	FollowUpRequired *bool   `json:"follow_up_required"`
	FollowUpDate     *string `json:"follow_up_date" validate:"omitempty,datetime=2006-01-02"`
	FollowUpToStaff  *bool   `json:"follow_up_to_staff"`
}
