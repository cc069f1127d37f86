package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a team member profile. Profiles pair 1:1 with an identity at the
// hosted auth provider; passwords never live here.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"` // 'admin', 'editor', 'assistant'
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Role constants for team members.
const (
	RoleAdmin     = "admin"
	RoleEditor    = "editor"
	RoleAssistant = "assistant"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleAdmin, RoleEditor, RoleAssistant}

// IsValidRole checks if the given role is valid.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user has the admin role. Admins see and edit
// every project; editors and assistants are scoped to their assignments.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
