package user

import "estate-crm/internal/features/permission"

type CreateUserRequest struct {
	Email        string          `json:"email"`
	Password     string          `json:"password"`
	FirstName    string          `json:"firstName,omitempty"`
	LastName     string          `json:"lastName,omitempty"`
	Role         permission.Role `json:"role"`
	SupervisorID string          `json:"supervisorId,omitempty"`
}

// UpdateUserRequest carries optional changes; nil fields are left alone.
type UpdateUserRequest struct {
	FirstName    *string          `json:"firstName,omitempty"`
	LastName     *string          `json:"lastName,omitempty"`
	Password     *string          `json:"password,omitempty"`
	Role         *permission.Role `json:"role,omitempty"`
	SupervisorID *string          `json:"supervisorId,omitempty"`
	IsActive     *bool            `json:"isActive,omitempty"`
}

const minPasswordLength = 8
