package categories

import (
	"context"

	"github.com/elvis1056/fivepapa-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository manages persistent categories.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided DB handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// GetByID loads a category by primary key.
func (r *Repository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// List returns all categories ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Category, error) {
	var list []models.Category
	if err := r.db.WithContext(ctx).Order("name").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListTopLevel returns categories with no parent.
func (r *Repository) ListTopLevel(ctx context.Context) ([]models.Category, error) {
	var list []models.Category
	if err := r.db.WithContext(ctx).Where("parent_id IS NULL").Order("name").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListChildren returns the direct children of the given category.
func (r *Repository) ListChildren(ctx context.Context, parentID uint) ([]models.Category, error) {
	var list []models.Category
	if err := r.db.WithContext(ctx).Where("parent_id = ?", parentID).Order("name").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ExistsByNameInsensitive reports whether another category uses the name
// under case-insensitive comparison; excludeID skips the row being updated.
func (r *Repository) ExistsByNameInsensitive(ctx context.Context, name string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("lower(name) = lower(?)", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

// CountChildren returns the number of direct children.
func (r *Repository) CountChildren(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("parent_id = ?", id).
		Count(&count).Error
	return count, err
}

// CountProducts returns the number of products referencing the category.
func (r *Repository) CountProducts(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id = ?", id).
		Count(&count).Error
	return count, err
}

// Save inserts or updates the category.
func (r *Repository) Save(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// Delete removes the category by id.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, id).Error
}
