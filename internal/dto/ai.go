package dto

// SummarizeRequest asks the AI proxy for a summary of interaction notes.
type SummarizeRequest struct {
	Text        string `json:"text" validate:"required,max=20000"`
	Instruction string `json:"instruction" validate:"omitempty,max=500"`
}

// SummarizeResponse carries the generated summary.
type SummarizeResponse struct {
	Summary string `json:"summary"`
	Model   string `json:"model"`
}
