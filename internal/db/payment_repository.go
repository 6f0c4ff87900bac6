package db

import (
	"github.com/grupo09/debtmanager/internal/models"
	"gorm.io/gorm"
)

type PaymentRepository struct {
	database *gorm.DB
}

func NewPaymentRepository(database *gorm.DB) *PaymentRepository {
	return &PaymentRepository{database: database}
}

// ListForUser returns the payment history across all of the user's debts,
// most recent payment first.
func (repo *PaymentRepository) ListForUser(userID uint) ([]models.PaymentRecord, error) {
	records := make([]models.PaymentRecord, 0)
	if err := repo.database.
		Joins("JOIN debts ON debts.id = payment_records.debt_id").
		Where("debts.user_id = ?", userID).
		Order("payment_records.payment_date DESC, payment_records.id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (repo *PaymentRepository) ListForDebt(debtID uint) ([]models.PaymentRecord, error) {
	records := make([]models.PaymentRecord, 0)
	if err := repo.database.
		Where("debt_id = ?", debtID).
		Order("payment_date DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
