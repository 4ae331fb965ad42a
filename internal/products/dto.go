package products

import (
	"time"

	"github.com/elvis1056/fivepapa-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// ProductDTO is the client-facing projection of a product. Price renders
// as a decimal string to avoid float drift.
type ProductDTO struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CategoryID  *uint     `json:"categoryId,omitempty"`
	Active      bool      `json:"active"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SaveProductInput carries the fields accepted on create and update.
type SaveProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	ImageURL    string
	CategoryID  *uint
	Active      *bool
	Featured    *bool
}

func toDTO(product *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price.StringFixed(2),
		Stock:       product.Stock,
		ImageURL:    product.ImageURL,
		CategoryID:  product.CategoryID,
		Active:      product.Active,
		Featured:    product.Featured,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func toDTOs(list []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(list))
	for i := range list {
		out = append(out, *toDTO(&list[i]))
	}
	return out
}
