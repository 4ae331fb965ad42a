package middleware

import (
	"context"

	"github.com/elvis1056/fivepapa-backend/pkg/db/models"
)

type contextKey string

const ctxPrincipal contextKey = "principal"

// Principal is the authenticated identity derived from a validated
// bearer token.
type Principal struct {
	UserID   uint
	Username string
	Email    string
	Role     string
}

// IsAdmin reports whether the principal carries the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == models.RoleAdmin
}

// PrincipalFromContext returns the request principal, or nil when the
// request carried no valid bearer token.
func PrincipalFromContext(ctx context.Context) *Principal {
	if ctx == nil {
		return nil
	}
	if p, ok := ctx.Value(ctxPrincipal).(*Principal); ok {
		return p
	}
	return nil
}

// WithPrincipal injects the principal into the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, p)
}
