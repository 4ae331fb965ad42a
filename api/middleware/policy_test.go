package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elvis1056/fivepapa-backend/pkg/db/models"
)

func serveWithPolicy(t *testing.T, method, path string, principal *Principal) *httptest.ResponseRecorder {
	t.Helper()

	handler := Authorize(DefaultRules(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(method, path, nil)
	if principal != nil {
		req = req.WithContext(WithPrincipal(req.Context(), principal))
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestPolicyPublicRoutes(t *testing.T) {
	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/"},
		{http.MethodGet, "/health"},
		{http.MethodGet, "/api/csrf"},
		{http.MethodPost, "/api/auth/login"},
		{http.MethodPost, "/api/auth/register"},
		{http.MethodPost, "/api/auth/refresh"},
		{http.MethodPost, "/api/auth/logout"},
		{http.MethodGet, "/api/products"},
		{http.MethodGet, "/api/products/3"},
		{http.MethodGet, "/api/categories"},
		{http.MethodGet, "/api/categories/top-level"},
		{http.MethodGet, "/api/categories/2/children"},
	}

	for _, tc := range cases {
		if w := serveWithPolicy(t, tc.method, tc.path, nil); w.Code != http.StatusOK {
			t.Errorf("%s %s: expected 200 without principal, got %d", tc.method, tc.path, w.Code)
		}
	}
}

func TestPolicyAdminWriteRoutes(t *testing.T) {
	user := &Principal{UserID: 1, Username: "alice", Role: models.RoleUser}
	admin := &Principal{UserID: 2, Username: "root", Role: models.RoleAdmin}

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/products"},
		{http.MethodPut, "/api/products/3"},
		{http.MethodDelete, "/api/products/3"},
		{http.MethodPost, "/api/categories"},
		{http.MethodDelete, "/api/categories/5"},
		{http.MethodGet, "/api/users"},
		{http.MethodGet, "/api/users/enabled"},
		{http.MethodPatch, "/api/users/9/status"},
		{http.MethodDelete, "/api/users/9"},
	}

	for _, tc := range cases {
		if w := serveWithPolicy(t, tc.method, tc.path, nil); w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401 without principal, got %d", tc.method, tc.path, w.Code)
		}
		if w := serveWithPolicy(t, tc.method, tc.path, user); w.Code != http.StatusForbidden {
			t.Errorf("%s %s: expected 403 for USER, got %d", tc.method, tc.path, w.Code)
		}
		if w := serveWithPolicy(t, tc.method, tc.path, admin); w.Code != http.StatusOK {
			t.Errorf("%s %s: expected 200 for ADMIN, got %d", tc.method, tc.path, w.Code)
		}
	}
}

func TestPolicyCartRequiresAuthentication(t *testing.T) {
	if w := serveWithPolicy(t, http.MethodGet, "/api/cart", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without principal, got %d", w.Code)
	}
	user := &Principal{UserID: 1, Username: "alice", Role: models.RoleUser}
	if w := serveWithPolicy(t, http.MethodPost, "/api/cart/items", user); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for authenticated user, got %d", w.Code)
	}
}

func TestPolicyUserByIDSelfOrAdmin(t *testing.T) {
	self := &Principal{UserID: 7, Username: "alice", Role: models.RoleUser}
	other := &Principal{UserID: 8, Username: "bob", Role: models.RoleUser}
	admin := &Principal{UserID: 1, Username: "root", Role: models.RoleAdmin}

	if w := serveWithPolicy(t, http.MethodGet, "/api/users/7", self); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for self, got %d", w.Code)
	}
	if w := serveWithPolicy(t, http.MethodGet, "/api/users/7", other); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for other user, got %d", w.Code)
	}
	if w := serveWithPolicy(t, http.MethodGet, "/api/users/7", admin); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", w.Code)
	}
	if w := serveWithPolicy(t, http.MethodGet, "/api/users/7", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without principal, got %d", w.Code)
	}
}

func TestPolicyUnmatchedRoutesRequireAuthentication(t *testing.T) {
	if w := serveWithPolicy(t, http.MethodGet, "/api/unknown", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unmatched route, got %d", w.Code)
	}
	user := &Principal{UserID: 1, Username: "alice", Role: models.RoleUser}
	if w := serveWithPolicy(t, http.MethodGet, "/api/unknown", user); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for authenticated user, got %d", w.Code)
	}
}

func TestMatchPatternBindsID(t *testing.T) {
	id, ok := matchPattern("/api/users/{id}", "/api/users/42")
	if !ok || id != 42 {
		t.Fatalf("expected id 42, got %d ok=%v", id, ok)
	}
	if _, ok := matchPattern("/api/users/{id}", "/api/users/enabled"); ok {
		t.Fatal("non-numeric segment must not bind {id}")
	}
	if _, ok := matchPattern("/api/products/**", "/api/products"); !ok {
		t.Fatal("wildcard must match the bare prefix")
	}
	if _, ok := matchPattern("/api/products/**", "/api/products/1/anything"); !ok {
		t.Fatal("wildcard must match descendants")
	}
}
