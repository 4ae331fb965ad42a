package cart

import (
	"time"

	"github.com/elvis1056/fivepapa-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// CartItemDTO is a line item with its price snapshot and subtotal.
type CartItemDTO struct {
	ID          uint   `json:"id"`
	ProductID   uint   `json:"productId"`
	ProductName string `json:"productName"`
	Price       string `json:"price"`
	Quantity    int    `json:"quantity"`
	Subtotal    string `json:"subtotal"`
}

// CartDTO is the client-facing cart with aggregates computed on read.
type CartDTO struct {
	ID            uint          `json:"id"`
	Items         []CartItemDTO `json:"items"`
	TotalItems    int           `json:"totalItems"`
	TotalQuantity int           `json:"totalQuantity"`
	TotalAmount   string        `json:"totalAmount"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// AddItemInput is the payload for adding a product to the cart.
type AddItemInput struct {
	ProductID uint
	Quantity  int
}

// UpdateItemInput sets a line item quantity absolutely.
type UpdateItemInput struct {
	Quantity int
}

func buildCartDTO(cart *models.Cart, productsByID map[uint]*models.Product) *CartDTO {
	dto := &CartDTO{
		ID:        cart.ID,
		Items:     make([]CartItemDTO, 0, len(cart.Items)),
		UpdatedAt: cart.UpdatedAt,
	}

	total := decimal.Zero
	for i := range cart.Items {
		item := &cart.Items[i]
		product := productsByID[item.ProductID]
		if product == nil {
			continue
		}
		subtotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(subtotal)

		dto.Items = append(dto.Items, CartItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: product.Name,
			Price:       product.Price.StringFixed(2),
			Quantity:    item.Quantity,
			Subtotal:    subtotal.StringFixed(2),
		})
		dto.TotalQuantity += item.Quantity
	}

	dto.TotalItems = len(dto.Items)
	dto.TotalAmount = total.StringFixed(2)
	return dto
}
