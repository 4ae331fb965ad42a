package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/elvis1056/fivepapa-backend/pkg/errors"
)

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]string{"hello": "world"})

	if got := w.Code; got != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", got)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["hello"] != "world" {
		t.Fatalf("unexpected payload %v", body)
	}
}

func TestWriteSuccessStatusNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccessStatus(w, http.StatusNoContent, nil)

	if got := w.Code; got != http.StatusNoContent {
		t.Fatalf("expected status 204 but got %d", got)
	}
	if w.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", w.Body.String())
	}
}

func TestWriteErrorRendersProblemDocument(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"username": "is required"})
	WriteError(context.Background(), nil, w, err)

	if got := w.Code; got != http.StatusBadRequest {
		t.Fatalf("expected status 400 but got %d", got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var body Problem
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode problem document: %v", err)
	}
	if body.Type != "https://api.5dpapa.com/errors/validation-failed" {
		t.Fatalf("unexpected type %s", body.Type)
	}
	if body.Title != "Validation Failed" || body.Status != http.StatusBadRequest {
		t.Fatalf("unexpected title/status: %s/%d", body.Title, body.Status)
	}
	if body.Errors["username"] != "is required" {
		t.Fatalf("expected field errors, got %v", body.Errors)
	}
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, errors.New("pq: connection refused"))

	if got := w.Code; got != http.StatusInternalServerError {
		t.Fatalf("expected status 500 but got %d", got)
	}

	var body Problem
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode problem document: %v", err)
	}
	if body.Detail != "An unexpected error occurred" {
		t.Fatalf("internal error detail leaked: %q", body.Detail)
	}
	if body.Errors != nil {
		t.Fatalf("errors map should be omitted, got %v", body.Errors)
	}
}

func TestWriteErrorOmitsDetailsWhenNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeForbidden, "not your cart").
		WithDetails(map[string]string{"cartId": "7"})
	WriteError(context.Background(), nil, w, err)

	var body Problem
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode problem document: %v", err)
	}
	if body.Errors != nil {
		t.Fatalf("details must not render for forbidden responses")
	}
	if body.Detail != "not your cart" {
		t.Fatalf("unexpected detail %q", body.Detail)
	}
}
