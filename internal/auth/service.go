package auth

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	pkgauth "github.com/elvis1056/fivepapa-backend/pkg/auth"
	"github.com/elvis1056/fivepapa-backend/pkg/config"
	"github.com/elvis1056/fivepapa-backend/pkg/db"
	"github.com/elvis1056/fivepapa-backend/pkg/db/models"
	pkgerrors "github.com/elvis1056/fivepapa-backend/pkg/errors"
	"github.com/elvis1056/fivepapa-backend/pkg/logger"
	"github.com/elvis1056/fivepapa-backend/pkg/security"
)

const minPasswordLength = 8

type userStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsernameInsensitive(ctx context.Context, username string) (bool, error)
	ExistsByEmailInsensitive(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *models.User) error
}

// Service implements the stateless dual-token authentication flow.
// Tokens are never stored server-side; expiry is the only invalidation.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*Result, error)
	Login(ctx context.Context, input LoginInput) (*Result, error)
	Refresh(ctx context.Context, refreshToken string) (*Result, error)
}

// ServiceParams carries the dependencies for NewService.
type ServiceParams struct {
	Users    userStore
	JWT      config.JWTConfig
	Password config.PasswordConfig
	Logger   *logger.Logger
	Now      func() time.Time
}

type service struct {
	users  userStore
	jwt    config.JWTConfig
	pwd    config.PasswordConfig
	logg   *logger.Logger
	now    func() time.Time
	hash   func(password string, cfg config.PasswordConfig) (string, error)
	verify func(password, encoded string) (bool, error)
}

// NewService builds the auth service.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user store required")
	}
	if params.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		users:  params.Users,
		jwt:    params.JWT,
		pwd:    params.Password,
		logg:   params.Logger,
		now:    now,
		hash:   security.HashPassword,
		verify: security.VerifyPassword,
	}, nil
}

// Register creates a USER account and issues the first token pair.
func (s *service) Register(ctx context.Context, input RegisterInput) (*Result, error) {
	if err := validateRegister(input); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	taken, err := s.users.ExistsByUsernameInsensitive(ctx, username)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeDuplicateUsername, "username already exists")
	}

	taken, err = s.users.ExistsByEmailInsensitive(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeDuplicateEmail, "email already exists")
	}

	hash, err := s.hash(input.Password, s.pwd)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(input.FullName),
		PhoneNumber:  input.PhoneNumber,
		Role:         models.RoleUser,
		Enabled:      true,
	}
	if err := s.users.Save(ctx, user); err != nil {
		if db.IsUniqueViolation(err) {
			// store constraint lost the race with a concurrent register
			return nil, pkgerrors.New(pkgerrors.CodeDuplicateUsername, "username or email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	if s.logg != nil {
		logCtx := s.logg.WithUserID(ctx, user.ID)
		s.logg.Info(logCtx, "auth.registered")
	}
	return s.issueTokens(user)
}

// Login verifies credentials by exact-case username. Missing users,
// password mismatches and disabled accounts all map to 401; only the
// disabled message differs.
func (s *service) Login(ctx context.Context, input LoginInput) (*Result, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, "Invalid username or password")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, "Invalid username or password")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	ok, err := s.verify(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, "Invalid username or password")
	}
	if !user.Enabled {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, "Account is disabled")
	}

	if s.logg != nil {
		logCtx := s.logg.WithUserID(ctx, user.ID)
		s.logg.Info(logCtx, "auth.logged_in")
	}
	return s.issueTokens(user)
}

// Refresh validates the refresh token from the cookie, re-loads the user
// and rotates the full pair.
func (s *service) Refresh(ctx context.Context, refreshToken string) (*Result, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthenticated, "refresh token is missing")
	}

	claims, err := pkgauth.ParseToken(s.jwt, refreshToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeTokenInvalid, err, "refresh token is invalid or expired")
	}

	user, err := s.users.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeTokenInvalid, "refresh token is invalid or expired")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if !user.Enabled {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, "Account is disabled")
	}

	if s.logg != nil {
		logCtx := s.logg.WithUserID(ctx, user.ID)
		s.logg.Info(logCtx, "auth.refreshed")
	}
	return s.issueTokens(user)
}

func (s *service) issueTokens(user *models.User) (*Result, error) {
	payload := pkgauth.TokenPayload{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
	now := s.now()

	access, err := pkgauth.MintAccessToken(s.jwt, now, payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	refresh, err := pkgauth.MintRefreshToken(s.jwt, now, payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint refresh token")
	}

	return &Result{
		Token:        access,
		RefreshToken: refresh,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
	}, nil
}

func validateRegister(input RegisterInput) error {
	fields := map[string]string{}
	if strings.TrimSpace(input.Username) == "" {
		fields["username"] = "is required"
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		fields["email"] = "is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		fields["email"] = "must be a valid email"
	}
	if input.Password == "" {
		fields["password"] = "is required"
	} else if len(input.Password) < minPasswordLength {
		fields["password"] = fmt.Sprintf("must be at least %d characters", minPasswordLength)
	}
	if strings.TrimSpace(input.FullName) == "" {
		fields["fullName"] = "is required"
	}
	if len(fields) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(fields)
	}
	return nil
}
