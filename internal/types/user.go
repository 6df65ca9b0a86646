package types

import (
	"time"

	"github.com/google/uuid"
)

// Role names assigned to users. Unrecognized requested roles collapse to
// RoleUser.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// User represents the core user entity in the domain.
type User struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	Password         string    `json:"-"` // Hashed password (never exposed).
	Roles            []string  `json:"roles"`
	VerificationCode *string   `json:"-"` // Cleared (NULL) once consumed.
	Enabled          bool      `json:"enabled"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
