package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Top-up request statuses
const (
	TopupPending   = "pending"
	TopupCompleted = "completed"
	TopupRejected  = "rejected"
)

// WalletTopup is a user's request to add funds, resolved by an admin
type WalletTopup struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentMethod string          `gorm:"size:32;not null" json:"payment_method"`
	Status        string          `gorm:"size:16;not null;index" json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	UserName      string          `gorm:"->;-:migration" json:"user_name,omitempty"`
}
