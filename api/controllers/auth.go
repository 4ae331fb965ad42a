package controllers

import (
	"net/http"

	"github.com/elvis1056/fivepapa-backend/api/responses"
	"github.com/elvis1056/fivepapa-backend/api/validators"
	"github.com/elvis1056/fivepapa-backend/internal/auth"
	"github.com/elvis1056/fivepapa-backend/pkg/config"
	pkgerrors "github.com/elvis1056/fivepapa-backend/pkg/errors"
	"github.com/elvis1056/fivepapa-backend/pkg/logger"
)

const refreshCookieName = "refreshToken"

type registerRequest struct {
	Username    string  `json:"username" validate:"required,max=50"`
	Email       string  `json:"email" validate:"required,email,max=100"`
	Password    string  `json:"password" validate:"required,min=8"`
	FullName    string  `json:"fullName" validate:"required,max=100"`
	PhoneNumber *string `json:"phoneNumber,omitempty" validate:"omitempty,max=30"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// tokenResponse is the JSON body for every successful auth operation.
// The refresh token travels only in the cookie.
type tokenResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// AuthRegister wires account creation into the HTTP layer.
func AuthRegister(svc auth.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body registerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Register(r.Context(), auth.RegisterInput{
			Username:    body.Username,
			Email:       body.Email,
			Password:    body.Password,
			FullName:    body.FullName,
			PhoneNumber: body.PhoneNumber,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setRefreshCookie(w, cfg, result.RefreshToken)
		responses.WriteSuccessStatus(w, http.StatusCreated, toTokenResponse(result))
	}
}

// AuthLogin wires the login endpoint into the HTTP layer.
func AuthLogin(svc auth.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), auth.LoginInput{
			Username: body.Username,
			Password: body.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setRefreshCookie(w, cfg, result.RefreshToken)
		responses.WriteSuccess(w, toTokenResponse(result))
	}
}

// AuthRefresh rotates the token pair using the refresh cookie.
func AuthRefresh(svc auth.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		cookie, err := r.Cookie(refreshCookieName)
		if err != nil || cookie.Value == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthenticated, "refresh token is missing"))
			return
		}

		result, err := svc.Refresh(r.Context(), cookie.Value)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setRefreshCookie(w, cfg, result.RefreshToken)
		responses.WriteSuccess(w, toTokenResponse(result))
	}
}

// AuthLogout clears the refresh cookie. The design is stateless, so
// nothing is revoked server-side.
func AuthLogout(cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clearRefreshCookie(w, cfg)
		responses.WriteSuccess(w, map[string]string{"message": "Logged out"})
	}
}

func setRefreshCookie(w http.ResponseWriter, cfg *config.Config, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   cfg.Cookie.RefreshMaxAge(),
		HttpOnly: true,
		Secure:   cfg.Cookie.IsSecure(),
		SameSite: http.SameSiteNoneMode,
	})
}

func clearRefreshCookie(w http.ResponseWriter, cfg *config.Config) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Cookie.IsSecure(),
		SameSite: http.SameSiteNoneMode,
	})
}

func toTokenResponse(result *auth.Result) tokenResponse {
	return tokenResponse{
		Token:    result.Token,
		Username: result.Username,
		Email:    result.Email,
		Role:     result.Role,
	}
}
