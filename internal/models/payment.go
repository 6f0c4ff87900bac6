package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const PaymentMethodCard = "card"

// PaymentRecord is one entry in the append-only per-debt ledger. Rows are
// never updated or deleted after creation.
type PaymentRecord struct {
	ID            uint            `gorm:"primaryKey"`
	DebtID        uint            `gorm:"not null;index"`
	Amount        decimal.Decimal `gorm:"type:numeric;not null"`
	PaymentDate   time.Time       `gorm:"type:date;not null"`
	PaymentMethod string          `gorm:"not null"`
	Reference     string          `gorm:"not null"`
	Notes         string          `gorm:"not null;default:''"`
	CreatedAt     time.Time
}
