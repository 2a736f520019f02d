package models

import "time"

// ExportType selects the dataset to render.
type ExportType string

const (
	ExportTypeStudents     ExportType = "STUDENTS"
	ExportTypeInteractions ExportType = "INTERACTIONS"
)

// ExportFormat selects the output rendering.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "CSV"
	ExportFormatPDF ExportFormat = "PDF"
)

// ExportStatus tracks asynchronous export lifecycle.
type ExportStatus string

const (
	ExportStatusQueued    ExportStatus = "QUEUED"
	ExportStatusRunning   ExportStatus = "RUNNING"
	ExportStatusCompleted ExportStatus = "COMPLETED"
	ExportStatusFailed    ExportStatus = "FAILED"
)

// ExportJob describes a queued or finished export.
type ExportJob struct {
	ID          string       `json:"id"`
	Type        ExportType   `json:"type"`
	Format      ExportFormat `json:"format"`
	Status      ExportStatus `json:"status"`
	RequestedBy string       `json:"requested_by"`
	FilePath    string       `json:"-"`
	DownloadURL string       `json:"download_url,omitempty"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty"`
}

// ImportRowError reports a CSV import row that failed validation.
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult summarises a CSV import run.
type ImportResult struct {
	Created int              `json:"created"`
	Skipped int              `json:"skipped"`
	Errors  []ImportRowError `json:"errors,omitempty"`
}
