package categories

import (
	"context"
	"fmt"
	"strings"

	"github.com/elvis1056/fivepapa-backend/pkg/db"
	"github.com/elvis1056/fivepapa-backend/pkg/db/models"
	pkgerrors "github.com/elvis1056/fivepapa-backend/pkg/errors"
	"github.com/elvis1056/fivepapa-backend/pkg/logger"
)

// Service exposes the catalog category operations. The category tree is
// at most two levels deep: a category with a parent must be a leaf.
type Service interface {
	List(ctx context.Context) ([]CategoryDTO, error)
	ListTopLevel(ctx context.Context) ([]CategoryDTO, error)
	GetByID(ctx context.Context, id uint) (*CategoryDTO, error)
	Children(ctx context.Context, parentID uint) ([]CategoryDTO, error)
	Create(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
	Update(ctx context.Context, id uint, input UpdateCategoryInput) (*CategoryDTO, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService builds a category service backed by the provided repository.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) List(ctx context.Context) ([]CategoryDTO, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	return s.toDTOs(ctx, list)
}

func (s *service) ListTopLevel(ctx context.Context) ([]CategoryDTO, error) {
	list, err := s.repo.ListTopLevel(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list top-level categories")
	}
	return s.toDTOs(ctx, list)
}

func (s *service) GetByID(ctx context.Context, id uint) (*CategoryDTO, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}
	count, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count category products")
	}
	return toDTO(category, count), nil
}

func (s *service) Children(ctx context.Context, parentID uint) ([]CategoryDTO, error) {
	if _, err := s.repo.GetByID(ctx, parentID); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}
	list, err := s.repo.ListChildren(ctx, parentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list category children")
	}
	return s.toDTOs(ctx, list)
}

func (s *service) Create(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required").
			WithDetails(map[string]string{"name": "is required"})
	}

	if err := s.ensureNameAvailable(ctx, name, 0); err != nil {
		return nil, err
	}
	if err := s.ensureValidParent(ctx, input.ParentID, 0); err != nil {
		return nil, err
	}

	record := &models.Category{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		ParentID:    input.ParentID,
		Active:      true,
	}
	if input.Active != nil {
		record.Active = *input.Active
	}
	if err := s.repo.Save(ctx, record); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeDuplicateCategoryName, "category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}

	if s.logg != nil {
		logCtx := s.logg.WithField(ctx, "category_id", record.ID)
		s.logg.Info(logCtx, "category.created")
	}
	return toDTO(record, 0), nil
}

func (s *service) Update(ctx context.Context, id uint, input UpdateCategoryInput) (*CategoryDTO, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required").
			WithDetails(map[string]string{"name": "is required"})
	}
	if err := s.ensureNameAvailable(ctx, name, id); err != nil {
		return nil, err
	}
	if err := s.ensureValidParent(ctx, input.ParentID, id); err != nil {
		return nil, err
	}

	category.Name = name
	category.Description = strings.TrimSpace(input.Description)
	category.ParentID = input.ParentID
	if input.Active != nil {
		category.Active = *input.Active
	}

	if err := s.repo.Save(ctx, category); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeDuplicateCategoryName, "category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update category")
	}

	count, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count category products")
	}
	return toDTO(category, count), nil
}

// Delete removes the category only when it has no children and no
// products referencing it.
func (s *service) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}

	children, err := s.repo.CountChildren(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count category children")
	}
	if children > 0 {
		return pkgerrors.New(pkgerrors.CodeCategoryInUse, fmt.Sprintf("category has %d child categories", children))
	}

	products, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count category products")
	}
	if products > 0 {
		return pkgerrors.New(pkgerrors.CodeCategoryInUse, fmt.Sprintf("category has %d products", products))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
	}
	return nil
}

func (s *service) ensureNameAvailable(ctx context.Context, name string, excludeID uint) error {
	exists, err := s.repo.ExistsByNameInsensitive(ctx, name, excludeID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check category name")
	}
	if exists {
		return pkgerrors.New(pkgerrors.CodeDuplicateCategoryName, "category name already exists")
	}
	return nil
}

// ensureValidParent enforces the two-level tree: the parent must exist,
// be top-level, differ from the category itself, and the category being
// re-parented must have no children of its own.
func (s *service) ensureValidParent(ctx context.Context, parentID *uint, selfID uint) error {
	if parentID == nil {
		return nil
	}
	if selfID != 0 && *parentID == selfID {
		return pkgerrors.New(pkgerrors.CodeCategoryCycle, "category cannot be its own parent")
	}

	parent, err := s.repo.GetByID(ctx, *parentID)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "parent category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load parent category")
	}
	if !parent.IsTopLevel() {
		return pkgerrors.New(pkgerrors.CodeCategoryDepth, "parent must be a top-level category")
	}

	if selfID != 0 {
		children, err := s.repo.CountChildren(ctx, selfID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count category children")
		}
		if children > 0 {
			return pkgerrors.New(pkgerrors.CodeCategoryDepth, "category with children cannot have a parent")
		}
	}
	return nil
}

func (s *service) toDTOs(ctx context.Context, list []models.Category) ([]CategoryDTO, error) {
	out := make([]CategoryDTO, 0, len(list))
	for i := range list {
		count, err := s.repo.CountProducts(ctx, list[i].ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count category products")
		}
		out = append(out, *toDTO(&list[i], count))
	}
	return out, nil
}
