package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenPayload captures the user data available when minting a JWT.
type TokenPayload struct {
	UserID   uint
	Username string
	Email    string
	Role     string
}

// Claims is the typed JWT issued to clients. The subject carries the
// username; email and role are present on access tokens only.
type Claims struct {
	UserID uint   `json:"userId"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Username returns the subject claim.
func (c *Claims) Username() string {
	return c.Subject
}
