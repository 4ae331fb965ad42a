package auth

import (
	"fmt"
	"time"

	"github.com/elvis1056/fivepapa-backend/pkg/config"
	apperrors "github.com/elvis1056/fivepapa-backend/pkg/errors"
	"github.com/golang-jwt/jwt/v5"
)

var jwtSigningMethod = jwt.SigningMethodHS512

// MintAccessToken issues a short-lived signed JWT carrying the full
// identity claims (userId, email, role).
func MintAccessToken(cfg config.JWTConfig, now time.Time, payload TokenPayload) (string, error) {
	claims := Claims{
		UserID: payload.UserID,
		Email:  payload.Email,
		Role:   payload.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   payload.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessTTL())),
		},
	}
	return mint(cfg, claims)
}

// MintRefreshToken issues a long-lived signed JWT carrying only the
// subject and userId.
func MintRefreshToken(cfg config.JWTConfig, now time.Time, payload TokenPayload) (string, error) {
	claims := Claims{
		UserID: payload.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   payload.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.RefreshTTL())),
		},
	}
	return mint(cfg, claims)
}

func mint(cfg config.JWTConfig, claims Claims) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("token subject is required")
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// ParseToken validates the JWT string and returns typed claims. Bad
// signatures, malformed tokens, and expired tokens all surface as
// CodeTokenInvalid.
func ParseToken(cfg config.JWTConfig, tokenString string) (*Claims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeTokenInvalid, err, "token is invalid or expired")
	}

	return claims, nil
}

// IsValid reports whether the token parses and has not expired.
func IsValid(cfg config.JWTConfig, tokenString string) bool {
	_, err := ParseToken(cfg, tokenString)
	return err == nil
}

// ExtractUsername parses the token and returns its subject.
func ExtractUsername(cfg config.JWTConfig, tokenString string) (string, error) {
	claims, err := ParseToken(cfg, tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ExtractUserID parses the token and returns its userId claim.
func ExtractUserID(cfg config.JWTConfig, tokenString string) (uint, error) {
	claims, err := ParseToken(cfg, tokenString)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// ExtractRole parses the token and returns its role claim, empty for
// refresh tokens.
func ExtractRole(cfg config.JWTConfig, tokenString string) (string, error) {
	claims, err := ParseToken(cfg, tokenString)
	if err != nil {
		return "", err
	}
	return claims.Role, nil
}
