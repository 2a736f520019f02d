package dto

// CreateExportRequest queues an asynchronous export.
type CreateExportRequest struct {
	Type   string `json:"type" validate:"required,oneof=STUDENTS INTERACTIONS"`
	Format string `json:"format" validate:"required,oneof=CSV PDF"`
}
