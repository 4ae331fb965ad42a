package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	pkgauth "github.com/elvis1056/fivepapa-backend/pkg/auth"
	"github.com/elvis1056/fivepapa-backend/pkg/config"
)

func principalJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:              strings.Repeat("0123456789abcdef", 4),
		ExpirationMS:        15 * 60 * 1000,
		RefreshExpirationMS: 7 * 24 * 60 * 60 * 1000,
	}
}

func capturePrincipal(t *testing.T, cfg config.JWTConfig, authorization string) *Principal {
	t.Helper()

	var captured *Principal
	handler := PrincipalExtractor(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("extractor must never fail the request, got %d", w.Code)
	}
	return captured
}

func TestPrincipalExtractorValidToken(t *testing.T) {
	cfg := principalJWTConfig()
	token, err := pkgauth.MintAccessToken(cfg, time.Now(), pkgauth.TokenPayload{
		UserID:   42,
		Username: "alice",
		Email:    "a@x.io",
		Role:     "USER",
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	principal := capturePrincipal(t, cfg, "Bearer "+token)
	if principal == nil {
		t.Fatal("expected a principal")
	}
	if principal.UserID != 42 || principal.Username != "alice" || principal.Role != "USER" {
		t.Fatalf("unexpected principal %+v", principal)
	}
}

func TestPrincipalExtractorMissingHeader(t *testing.T) {
	if principal := capturePrincipal(t, principalJWTConfig(), ""); principal != nil {
		t.Fatalf("expected no principal, got %+v", principal)
	}
}

func TestPrincipalExtractorNonBearerScheme(t *testing.T) {
	if principal := capturePrincipal(t, principalJWTConfig(), "Basic dXNlcjpwYXNz"); principal != nil {
		t.Fatalf("expected no principal for non-bearer scheme, got %+v", principal)
	}
}

func TestPrincipalExtractorInvalidTokenPassesThrough(t *testing.T) {
	if principal := capturePrincipal(t, principalJWTConfig(), "Bearer not-a-token"); principal != nil {
		t.Fatalf("expected no principal for invalid token, got %+v", principal)
	}
}

func TestPrincipalExtractorExpiredTokenPassesThrough(t *testing.T) {
	cfg := principalJWTConfig()
	token, err := pkgauth.MintAccessToken(cfg, time.Now().Add(-time.Hour), pkgauth.TokenPayload{
		UserID:   1,
		Username: "alice",
		Role:     "USER",
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	if principal := capturePrincipal(t, cfg, "Bearer "+token); principal != nil {
		t.Fatalf("expected no principal for expired token, got %+v", principal)
	}
}
