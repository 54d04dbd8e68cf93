package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategory is used when a product is saved without a category
const DefaultCategory = "Other"

// Product Model
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`                     // Primary key
	Name        string          `gorm:"size:191;not null" json:"name"`            // Product name
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"` // Unit price
	Description string          `gorm:"type:text" json:"description"`             // Free text description
	ImagePath   string          `gorm:"size:255" json:"image_path"`               // Relative image path
	Category    string          `gorm:"size:64;default:Other;index" json:"category"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
