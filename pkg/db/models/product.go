package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog listing. Price is a positive decimal with
// two-digit scale; stock is the advisory quantity checked by cart mutations.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:200;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	ImageURL    string          `gorm:"column:image_url;size:500" json:"imageUrl"`
	CategoryID  *uint           `gorm:"column:category_id;index" json:"categoryId,omitempty"`
	Active      bool            `gorm:"not null;default:true" json:"active"`
	Featured    bool            `gorm:"not null;default:false" json:"featured"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
