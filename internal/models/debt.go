package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending = "pending"
	StatusOverdue = "overdue"
	StatusPaid    = "paid"
)

const (
	FrequencyWeekly   = "weekly"
	FrequencyBiweekly = "biweekly"
	FrequencyMonthly  = "monthly"
)

const (
	UrgencyNormal  = "normal"
	UrgencyDueSoon = "due_soon"
	UrgencyOverdue = "overdue"
)

type Debt struct {
	ID                 uint            `gorm:"primaryKey"`
	UserID             uint            `gorm:"not null;index"`
	BankName           string          `gorm:"not null"`
	Description        string          `gorm:"not null"`
	Amount             decimal.Decimal `gorm:"type:numeric;not null"`
	PaidAmount         decimal.Decimal `gorm:"type:numeric;not null"`
	DueDate            time.Time       `gorm:"type:date;not null;index"`
	Frequency          string          `gorm:"not null;default:monthly"`
	Status             string          `gorm:"not null;default:pending;index"`
	TotalInstallments  int             `gorm:"not null;default:1"`
	CurrentInstallment int             `gorm:"not null;default:1"`
	BatchID            string          `gorm:"not null;index"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// RemainingAmount is the portion of the obligation still owed.
func (debt Debt) RemainingAmount() decimal.Decimal {
	return debt.Amount.Sub(debt.PaidAmount)
}

func IsKnownFrequency(frequency string) bool {
	switch frequency {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	default:
		return false
	}
}
