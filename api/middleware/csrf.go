package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/elvis1056/fivepapa-backend/api/responses"
	pkgerrors "github.com/elvis1056/fivepapa-backend/pkg/errors"
	"github.com/elvis1056/fivepapa-backend/pkg/logger"
)

const (
	// CSRFCookieName is the non-HttpOnly cookie carrying the double-submit token.
	CSRFCookieName = "XSRF-TOKEN"
	// CSRFHeaderName must echo the cookie value on guarded requests.
	CSRFHeaderName = "X-XSRF-TOKEN"
)

// csrfExemptPrefixes bypass the guard entirely. The product, category
// and cart surfaces authenticate with bearer tokens, not cookies, so
// forged cross-site requests cannot ride ambient credentials there.
var csrfExemptPrefixes = []string{
	"/health",
	"/metrics",
	"/api/csrf",
	"/api/auth/",
	"/api/products",
	"/api/categories",
	"/api/cart",
}

// CSRF verifies the double-submit token on state-changing requests
// outside the exemption set.
func CSRF(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isStateChanging(r.Method) || isCSRFExempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(CSRFCookieName)
			if err != nil || cookie.Value == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeCsrfInvalid, "missing CSRF token"))
				return
			}

			header := strings.TrimSpace(r.Header.Get(CSRFHeaderName))
			if header == "" || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(header)) != 1 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeCsrfInvalid, "CSRF token mismatch"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isStateChanging(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func isCSRFExempt(path string) bool {
	if path == "/" {
		return true
	}
	for _, prefix := range csrfExemptPrefixes {
		trimmed := strings.TrimSuffix(prefix, "/")
		if path == trimmed || strings.HasPrefix(path, trimmed+"/") {
			return true
		}
	}
	return false
}
