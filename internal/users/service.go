package users

import (
	"context"
	"fmt"

	"github.com/elvis1056/fivepapa-backend/pkg/db"
	pkgerrors "github.com/elvis1056/fivepapa-backend/pkg/errors"
	"github.com/elvis1056/fivepapa-backend/pkg/logger"
)

// Service exposes the admin and self-service user operations.
type Service interface {
	GetByID(ctx context.Context, id uint) (*UserDTO, error)
	List(ctx context.Context) ([]UserDTO, error)
	ListEnabled(ctx context.Context) ([]UserDTO, error)
	UpdateStatus(ctx context.Context, id uint, enabled bool) (*UserDTO, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService builds a user service backed by the provided repository.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*UserDTO, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return toDTO(user), nil
}

func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	return toDTOs(list), nil
}

func (s *service) ListEnabled(ctx context.Context) ([]UserDTO, error) {
	list, err := s.repo.ListEnabled(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list enabled users")
	}
	return toDTOs(list), nil
}

// UpdateStatus soft-disables or re-enables the account; disabled users
// fail login and refresh until re-enabled.
func (s *service) UpdateStatus(ctx context.Context, id uint, enabled bool) (*UserDTO, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	user.Enabled = enabled
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user status")
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{"target_user_id": id, "enabled": enabled})
		s.logg.Info(logCtx, "user.status_updated")
	}
	return toDTO(user), nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}
	return nil
}
