package dto

// CreateUserRequest registers a staff account.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,max=150"`
	Role     string `json:"role" validate:"required,oneof=ADMIN STAFF"`
}

// UpdateUserRequest edits a staff account. Nil fields are left unchanged.
type UpdateUserRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,max=150"`
	Role     *string `json:"role" validate:"omitempty,oneof=ADMIN STAFF"`
	Active   *bool   `json:"active"`
}

// ChangePasswordRequest rotates the caller's own password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}
