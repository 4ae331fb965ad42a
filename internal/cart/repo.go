package cart

import (
	"context"

	"github.com/elvis1056/fivepapa-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository manages persistent carts and their line items.
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

// GetByUserID loads the user's cart with its items.
func (r *Repository) GetByUserID(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.id")
		}).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// EnsureForUser inserts an empty cart for the user unless one already
// exists. The insert uses ON CONFLICT DO NOTHING over the unique
// (user_id) index, so concurrent callers converge on one row.
func (r *Repository) EnsureForUser(ctx context.Context, userID uint) error {
	cart := models.Cart{UserID: userID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&cart).Error
}

// GetItemByID loads a line item by primary key.
func (r *Repository) GetItemByID(ctx context.Context, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).First(&item, itemID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItemByCartAndProduct loads the line item for (cartID, productID).
func (r *Repository) GetItemByCartAndProduct(ctx context.Context, cartID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetCartByID loads a cart row without items.
func (r *Repository) GetCartByID(ctx context.Context, cartID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.WithContext(ctx).First(&cart, cartID).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// SaveItem inserts or updates the line item.
func (r *Repository) SaveItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// DeleteItem removes a line item by id.
func (r *Repository) DeleteItem(ctx context.Context, itemID uint) error {
	return r.db.WithContext(ctx).Delete(&models.CartItem{}, itemID).Error
}

// DeleteItemsByCartID removes every line item in the cart.
func (r *Repository) DeleteItemsByCartID(ctx context.Context, cartID uint) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}
