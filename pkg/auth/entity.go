package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the authorization level attached to a user and its tokens.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a client-supplied role string onto a known Role.
// Anything other than an explicit "admin" becomes RoleUser.
func ParseRole(s string) Role {
	if Role(strings.TrimSpace(s)) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// User is a domain entity representing a system user.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// PublicUser is the client-facing view of a User. The password hash
// never leaves the domain layer.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// NormalizeEmail lowercases and trims an email address. The normalized
// form is the uniqueness key for the whole system.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
