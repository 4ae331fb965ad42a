package controllers

import (
	"net/http"

	"github.com/elvis1056/fivepapa-backend/api/middleware"
	"github.com/elvis1056/fivepapa-backend/api/responses"
	"github.com/elvis1056/fivepapa-backend/pkg/config"
	"github.com/google/uuid"
)

// CSRFToken issues the double-submit token. The cookie is deliberately
// not HttpOnly so the browser client can echo it in the X-XSRF-TOKEN
// header.
func CSRFToken(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := uuid.NewString()

		http.SetCookie(w, &http.Cookie{
			Name:     middleware.CSRFCookieName,
			Value:    token,
			Path:     "/",
			Secure:   cfg.Cookie.IsSecure(),
			HttpOnly: false,
			SameSite: http.SameSiteNoneMode,
		})
		w.Header().Set(middleware.CSRFHeaderName, token)

		responses.WriteSuccess(w, map[string]string{"token": token})
	}
}
