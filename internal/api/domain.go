package api

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Domain error kinds. Handlers translate these into HTTP statuses at the
// transport boundary; anything unrecognized is a store failure and surfaces
// as a 500 without retry.
var (
	ErrValidation      = errors.New("invalid input")
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrForbidden       = errors.New("action forbidden")
	ErrInvalidCode     = errors.New("invalid verification code")
)

// Claims represents the custom claims included in the JWT access token.
type Claims struct {
	UserID string   `json:"uid"` // Custom claim for User ID.
	Email  string   `json:"eml"` // Custom claim for Email.
	Roles  []string `json:"rol"` // Custom claim for the user's role names.
	jwt.RegisteredClaims
}
