package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the claims carried by access tokens issued by the backend's auth service.
// The subject is the user id.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`

	jwt.RegisteredClaims
}

// UserID returns the authenticated user's id.
func (c *Claims) UserID() string {
	return c.Subject
}
