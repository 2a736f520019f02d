package dto

// CreateStudentRequest is the payload for registering a student.
type CreateStudentRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Program   string `json:"program" validate:"required,max=50"`
	Cohort    *int   `json:"cohort" validate:"omitempty,min=1"`
}

// UpdateStudentRequest is the payload for editing a student. Nil fields are
// left unchanged.
type UpdateStudentRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Program   *string `json:"program" validate:"omitempty,max=50"`
	Cohort    *int    `json:"cohort" validate:"omitempty,min=1"`
	Active    *bool   `json:"active"`
}
