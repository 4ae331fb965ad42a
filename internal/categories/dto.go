package categories

import (
	"time"

	"github.com/elvis1056/fivepapa-backend/pkg/db/models"
)

// CategoryDTO is the client-facing projection of a category. The product
// count is computed on read, never persisted.
type CategoryDTO struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ParentID     *uint     `json:"parentId,omitempty"`
	Active       bool      `json:"active"`
	ProductCount int64     `json:"productCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateCategoryInput carries the fields accepted on create.
type CreateCategoryInput struct {
	Name        string
	Description string
	ParentID    *uint
	Active      *bool
}

// UpdateCategoryInput carries the fields accepted on update.
type UpdateCategoryInput struct {
	Name        string
	Description string
	ParentID    *uint
	Active      *bool
}

func toDTO(category *models.Category, productCount int64) *CategoryDTO {
	return &CategoryDTO{
		ID:           category.ID,
		Name:         category.Name,
		Description:  category.Description,
		ParentID:     category.ParentID,
		Active:       category.Active,
		ProductCount: productCount,
		CreatedAt:    category.CreatedAt,
		UpdatedAt:    category.UpdatedAt,
	}
}
