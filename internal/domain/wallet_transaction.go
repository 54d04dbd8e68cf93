package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledger entry types
const (
	TxTypePayment = "payment" // Order payment or refund
	TxTypeTopUp   = "top_up"  // Admin approved top-up
)

// Ledger entry statuses
const (
	TxStatusPending   = "pending"
	TxStatusCompleted = "completed"
	TxStatusRejected  = "rejected"
)

// Ledger entry directions
const (
	DirectionCredit = "credit"
	DirectionDebit  = "debit"
)

// WalletTransaction is an append-only ledger row
type WalletTransaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`                      // Primary key
	UserID      uint            `gorm:"not null;index" json:"user_id"`             // Wallet owner
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"` // Always positive
	Direction   string          `gorm:"size:8;not null" json:"direction"`          // credit or debit
	Type        string          `gorm:"size:16;not null;index" json:"type"`        // payment or top_up
	Status      string          `gorm:"size:16;not null;index" json:"status"`      // pending, completed, rejected
	Description string          `gorm:"size:255" json:"description"`               // Human readable reason
	ReferenceID *uint           `gorm:"index" json:"reference_id"`                 // Top-up id for top_up, order id for payment
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Signed returns the amount as it affects the balance
func (t WalletTransaction) Signed() decimal.Decimal {
	if t.Direction == DirectionDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// ReplayBalance rebuilds a balance from ledger rows, counting completed entries only
func ReplayBalance(txs []WalletTransaction) decimal.Decimal {
	balance := decimal.Zero
	for _, t := range txs {
		if t.Status == TxStatusCompleted {
			balance = balance.Add(t.Signed())
		}
	}
	return balance
}
