package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/elvis1056/fivepapa-backend/api/responses"
	pkgerrors "github.com/elvis1056/fivepapa-backend/pkg/errors"
	"github.com/elvis1056/fivepapa-backend/pkg/logger"
)

// Requirement is the access level a route rule demands.
type Requirement int

const (
	// RequirePublic allows the request through with or without a principal.
	RequirePublic Requirement = iota
	// RequireAuthenticated demands any valid principal.
	RequireAuthenticated
	// RequireAdmin demands a principal with the ADMIN role.
	RequireAdmin
	// RequireSelfOrAdmin demands ADMIN or a principal whose user id
	// equals the {id} path segment.
	RequireSelfOrAdmin
)

// Rule binds a path pattern and optional method set to a requirement.
// Patterns support exact segments, a single "{id}" segment matching a
// positive integer, and a trailing "/**" matching the prefix itself plus
// any descendants.
type Rule struct {
	Pattern     string
	Methods     []string
	Requirement Requirement
}

// DefaultRules is the route authorization matrix, evaluated in order
// with first match winning.
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: "/", Requirement: RequirePublic},
		{Pattern: "/health", Requirement: RequirePublic},
		{Pattern: "/metrics", Requirement: RequirePublic},
		{Pattern: "/api/csrf", Requirement: RequirePublic},
		{Pattern: "/api/auth/login", Requirement: RequirePublic},
		{Pattern: "/api/auth/register", Requirement: RequirePublic},
		{Pattern: "/api/auth/refresh", Requirement: RequirePublic},
		{Pattern: "/api/auth/logout", Requirement: RequirePublic},
		{Pattern: "/api/products/**", Methods: []string{http.MethodGet}, Requirement: RequirePublic},
		{Pattern: "/api/products/**", Methods: []string{http.MethodPost, http.MethodPut, http.MethodDelete}, Requirement: RequireAdmin},
		{Pattern: "/api/categories/**", Methods: []string{http.MethodGet}, Requirement: RequirePublic},
		{Pattern: "/api/categories/**", Methods: []string{http.MethodPost, http.MethodPut, http.MethodDelete}, Requirement: RequireAdmin},
		{Pattern: "/api/cart/**", Requirement: RequireAuthenticated},
		{Pattern: "/api/users/{id}", Methods: []string{http.MethodGet}, Requirement: RequireSelfOrAdmin},
		{Pattern: "/api/users/**", Requirement: RequireAdmin},
	}
}

// Authorize evaluates the rule table against each request. Unmatched
// routes require an authenticated principal.
func Authorize(rules []Rule, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())

			requirement := RequireAuthenticated
			var matchedID uint
			for _, rule := range rules {
				id, ok := matchRule(rule, r.Method, r.URL.Path)
				if !ok {
					continue
				}
				requirement = rule.Requirement
				matchedID = id
				break
			}

			if err := evaluate(requirement, principal, matchedID); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func evaluate(requirement Requirement, principal *Principal, pathID uint) error {
	switch requirement {
	case RequirePublic:
		return nil
	case RequireAuthenticated:
		if principal == nil {
			return pkgerrors.New(pkgerrors.CodeUnauthenticated, "authentication required")
		}
		return nil
	case RequireAdmin:
		if principal == nil {
			return pkgerrors.New(pkgerrors.CodeUnauthenticated, "authentication required")
		}
		if !principal.IsAdmin() {
			return pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
		}
		return nil
	case RequireSelfOrAdmin:
		if principal == nil {
			return pkgerrors.New(pkgerrors.CodeUnauthenticated, "authentication required")
		}
		if principal.IsAdmin() || principal.UserID == pathID {
			return nil
		}
		return pkgerrors.New(pkgerrors.CodeForbidden, "access restricted to the account owner")
	}
	return pkgerrors.New(pkgerrors.CodeInternal, "unknown authorization requirement")
}

// matchRule reports whether the rule covers method+path; the returned id
// carries the value bound to an {id} segment when present.
func matchRule(rule Rule, method, path string) (uint, bool) {
	if len(rule.Methods) > 0 && !containsMethod(rule.Methods, method) {
		return 0, false
	}
	return matchPattern(rule.Pattern, path)
}

func containsMethod(methods []string, method string) bool {
	for _, m := range methods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

func matchPattern(pattern, path string) (uint, bool) {
	patternSegs := splitPath(pattern)
	pathSegs := splitPath(path)

	var id uint
	for i, seg := range patternSegs {
		if seg == "**" {
			// trailing wildcard matches the bare prefix and anything below
			return id, true
		}
		if i >= len(pathSegs) {
			return 0, false
		}
		switch {
		case seg == "{id}":
			value, err := strconv.ParseUint(pathSegs[i], 10, 64)
			if err != nil {
				return 0, false
			}
			id = uint(value)
		case seg != pathSegs[i]:
			return 0, false
		}
	}
	if len(pathSegs) != len(patternSegs) {
		return 0, false
	}
	return id, true
}

func splitPath(p string) []string {
	trimmed := strings.Trim(p, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
