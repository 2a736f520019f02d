package dto

// TestEmailRequest sends a test message to verify mail configuration.
type TestEmailRequest struct {
	ToName    string `json:"to_name" validate:"omitempty,max=150"`
	ToAddress string `json:"to_address" validate:"required,email"`
}

// FollowUpRunResult summarises one cron/manual follow-up dispatch run.
type FollowUpRunResult struct {
	Processed int      `json:"processed"`
	Sent      int      `json:"sent"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}
