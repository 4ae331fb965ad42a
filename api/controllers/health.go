package controllers

import (
	"net/http"
	"time"

	"github.com/elvis1056/fivepapa-backend/api/responses"
	"github.com/elvis1056/fivepapa-backend/pkg/config"
)

// Banner serves the service banner at the root path.
func Banner(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"service": "fivepapa-backend",
			"env":     cfg.App.Env,
		})
	}
}

// Health reports liveness.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status":    "UP",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
