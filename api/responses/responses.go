package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/elvis1056/fivepapa-backend/pkg/errors"
	"github.com/elvis1056/fivepapa-backend/pkg/logger"
)

// problemTypeBase prefixes every problem document type URI.
const problemTypeBase = "https://api.5dpapa.com/errors/"

// Problem is an RFC 7807 problem document. Errors carries the
// field→message map for validation failures.
type Problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail"`
	Errors map[string]string `json:"errors,omitempty"`
}

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	if data == nil {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, data)
}

// WriteError maps err onto a problem document. Untyped errors become 500
// with a generic detail; internals never leak raw messages to clients.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	detail := typed.Message()
	if typed.Code() == pkgerrors.CodeInternal || detail == "" {
		detail = "An unexpected error occurred"
	}

	problem := Problem{
		Type:   problemTypeBase + meta.Slug,
		Title:  meta.Title,
		Status: meta.HTTPStatus,
		Detail: detail,
	}

	if meta.DetailsAllowed {
		if fields, ok := typed.Details().(map[string]string); ok {
			problem.Errors = fields
		}
	}

	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"error_code":  string(typed.Code()),
			"http_status": meta.HTTPStatus,
		})
		if meta.HTTPStatus >= http.StatusInternalServerError {
			logg.Error(ctx, "request.error", err)
		} else {
			logg.Warn(logg.WithField(ctx, "error", err.Error()), "request.rejected")
		}
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(meta.HTTPStatus)
	if err := json.NewEncoder(w).Encode(problem); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode problem document","err":"%v"}`, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
