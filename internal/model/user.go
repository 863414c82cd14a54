package model

import "time"

// Roles assignable to a user. Role is set at creation and never mutable
// through profile updates.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a user record in the database. PasswordHash never leaves
// the repository and service layers.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         string
	Bio          string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SessionUser is the minimal projection returned by login and signup.
type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Profile is the safe projection of the authenticated user.
type Profile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	Bio       string `json:"bio"`
	IsActive  bool   `json:"isActive"`
}

// ActionResult is the envelope returned by every auth action. Field-level
// errors are keyed by input name; form-level errors use the "_form" key.
type ActionResult struct {
	Success bool                `json:"success"`
	Errors  map[string][]string `json:"errors,omitempty"`
	User    *SessionUser        `json:"user,omitempty"`
}

// FormErrorKey is the pseudo-field carrying form-level error messages.
const FormErrorKey = "_form"

// CreateAccountRequest carries the signup form fields.
type CreateAccountRequest struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// UpdateProfileRequest carries the profile-update form fields. Role is
// deliberately absent: it cannot be changed through this path.
type UpdateProfileRequest struct {
	FirstName string
	LastName  string
	Email     string
}
