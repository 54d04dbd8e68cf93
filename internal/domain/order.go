package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment methods accepted for an order
const (
	PaymentCOD    = "cod"    // Cash on delivery
	PaymentWallet = "wallet" // Debited from the internal wallet
)

// IsValidPaymentMethod reports whether method is cod or wallet
func IsValidPaymentMethod(method string) bool {
	return method == PaymentCOD || method == PaymentWallet
}

// Order Model
type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`                            // Primary key
	UserID          uint            `gorm:"not null;index" json:"user_id"`                   // Owner of the order
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"` // Order total at creation time
	Status          OrderStatus     `gorm:"size:16;not null;index" json:"status"`            // Lifecycle status
	PaymentMethod   string          `gorm:"size:16;not null;default:cod" json:"payment_method"`
	ShippingAddress string          `gorm:"size:255" json:"shipping_address"`
	Phone           string          `gorm:"size:32" json:"phone"`
	ReturnReason    *string         `gorm:"type:text" json:"return_reason"`            // Set when a return is requested or accepted
	CreatedAt       time.Time       `json:"created_at"`                                // Placement time
	DeliveredAt     *time.Time      `json:"delivered_at"`                              // Stamped on delivery
	UserName        string          `gorm:"->;-:migration" json:"user_name,omitempty"` // Filled by listing joins only
	Items           []OrderItem     `gorm:"constraint:OnDelete:CASCADE;" json:"items,omitempty"`
}

// OrderItem Model, a snapshot of a purchased product
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`                     // Primary key
	OrderID   uint            `gorm:"not null;index" json:"order_id"`           // Owning order
	ProductID uint            `gorm:"not null;index" json:"product_id"`         // Referenced product (may since be deleted)
	Name      string          `gorm:"size:191" json:"name"`                     // Product name at order time
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"` // Unit price at order time
	Quantity  int             `gorm:"not null" json:"quantity"`
}

// LineTotal returns price × quantity
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemsTotal sums the line totals of items
func ItemsTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}
