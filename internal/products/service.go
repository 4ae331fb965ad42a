package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/elvis1056/fivepapa-backend/pkg/db"
	"github.com/elvis1056/fivepapa-backend/pkg/db/models"
	pkgerrors "github.com/elvis1056/fivepapa-backend/pkg/errors"
	"github.com/elvis1056/fivepapa-backend/pkg/logger"
)

type categoryChecker interface {
	GetByID(ctx context.Context, id uint) (*models.Category, error)
}

// Service exposes the product catalog operations.
type Service interface {
	List(ctx context.Context, filter ListFilter) ([]ProductDTO, error)
	GetByID(ctx context.Context, id uint) (*ProductDTO, error)
	Create(ctx context.Context, input SaveProductInput) (*ProductDTO, error)
	Update(ctx context.Context, id uint, input SaveProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo       *Repository
	categories categoryChecker
	logg       *logger.Logger
}

// NewService builds a product service backed by the provided stack.
func NewService(repo *Repository, categories categoryChecker, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo, categories: categories, logg: logg}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]ProductDTO, error) {
	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return toDTOs(list), nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*ProductDTO, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return toDTO(product), nil
}

func (s *service) Create(ctx context.Context, input SaveProductInput) (*ProductDTO, error) {
	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Stock:       input.Stock,
		ImageURL:    strings.TrimSpace(input.ImageURL),
		CategoryID:  input.CategoryID,
		Active:      true,
	}
	if input.Active != nil {
		product.Active = *input.Active
	}
	if input.Featured != nil {
		product.Featured = *input.Featured
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}

	if s.logg != nil {
		logCtx := s.logg.WithField(ctx, "product_id", product.ID)
		s.logg.Info(logCtx, "product.created")
	}
	return toDTO(product), nil
}

func (s *service) Update(ctx context.Context, id uint, input SaveProductInput) (*ProductDTO, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Description = strings.TrimSpace(input.Description)
	product.Price = input.Price
	product.Stock = input.Stock
	product.ImageURL = strings.TrimSpace(input.ImageURL)
	product.CategoryID = input.CategoryID
	if input.Active != nil {
		product.Active = *input.Active
	}
	if input.Featured != nil {
		product.Featured = *input.Featured
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return toDTO(product), nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}

func (s *service) validateInput(ctx context.Context, input SaveProductInput) error {
	fields := map[string]string{}
	if strings.TrimSpace(input.Name) == "" {
		fields["name"] = "is required"
	}
	if !input.Price.IsPositive() {
		fields["price"] = "must be greater than 0"
	}
	if input.Stock < 0 {
		fields["stock"] = "must be non-negative"
	}
	if len(fields) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product").WithDetails(fields)
	}

	if input.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *input.CategoryID); err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
		}
	}
	return nil
}
