package models

import "time"

// CartItem is a single product line inside a cart. The composite unique
// index on (cart_id, product_id) guarantees a product appears at most once
// per cart; adds merge into the existing row instead of inserting a second.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"column:cart_id;not null;uniqueIndex:idx_cart_product" json:"cartId"`
	ProductID uint      `gorm:"column:product_id;not null;uniqueIndex:idx_cart_product" json:"productId"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
