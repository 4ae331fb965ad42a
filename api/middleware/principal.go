package middleware

import (
	"net/http"
	"strings"

	pkgauth "github.com/elvis1056/fivepapa-backend/pkg/auth"
	"github.com/elvis1056/fivepapa-backend/pkg/config"
	"github.com/elvis1056/fivepapa-backend/pkg/logger"
)

// Principal extracts a bearer token and seeds the request context with
// the authenticated identity. A missing or invalid token is not an
// error here: the request continues with no principal and the
// authorization policy decides whether the route tolerates that.
func PrincipalExtractor(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" || !strings.HasPrefix(raw, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := pkgauth.ParseToken(cfg, token)
			if err != nil {
				if logg != nil {
					ctx := logg.WithField(r.Context(), "error", err.Error())
					logg.Warn(ctx, "auth.token_rejected")
				}
				next.ServeHTTP(w, r)
				return
			}

			principal := &Principal{
				UserID:   claims.UserID,
				Username: claims.Subject,
				Email:    claims.Email,
				Role:     claims.Role,
			}

			ctx := WithPrincipal(r.Context(), principal)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":  principal.UserID,
					"username": principal.Username,
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
