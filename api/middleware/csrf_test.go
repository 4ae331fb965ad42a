package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func serveWithCSRF(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	handler := CSRF(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestCSRFIgnoresSafeMethods(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/users/1", nil)
	if w := serveWithCSRF(t, req); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for GET, got %d", w.Code)
	}
}

func TestCSRFExemptSurfaces(t *testing.T) {
	paths := []string{
		"/api/auth/login",
		"/api/auth/register",
		"/api/products",
		"/api/products/3",
		"/api/categories/5",
		"/api/cart/items",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		if w := serveWithCSRF(t, req); w.Code != http.StatusOK {
			t.Errorf("POST %s: expected exemption, got %d", path, w.Code)
		}
	}
}

func TestCSRFMissingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/api/users/1/status", nil)
	if w := serveWithCSRF(t, req); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without token, got %d", w.Code)
	}
}

func TestCSRFHeaderMismatch(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/api/users/1", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "expected"})
	req.Header.Set(CSRFHeaderName, "forged")
	if w := serveWithCSRF(t, req); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 on mismatch, got %d", w.Code)
	}
}

func TestCSRFDoubleSubmitMatch(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/api/users/1", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "token-123"})
	req.Header.Set(CSRFHeaderName, "token-123")
	if w := serveWithCSRF(t, req); w.Code != http.StatusOK {
		t.Fatalf("expected 200 on matching tokens, got %d", w.Code)
	}
}
