package db

import (
	"time"

	"github.com/grupo09/debtmanager/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DebtRepository struct {
	database *gorm.DB
}

func NewDebtRepository(database *gorm.DB) *DebtRepository {
	return &DebtRepository{database: database}
}

// CreateBatch inserts every installment of a scheduled debt in one
// transaction. Either all rows become visible or none do.
func (repo *DebtRepository) CreateBatch(debts []*models.Debt) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		for _, debt := range debts {
			if err := tx.Create(debt).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (repo *DebtRepository) FindOwned(debtID uint, userID uint) (models.Debt, error) {
	var debt models.Debt
	if err := repo.database.
		Where("id = ? AND user_id = ?", debtID, userID).
		First(&debt).Error; err != nil {
		return models.Debt{}, err
	}
	return debt, nil
}

func (repo *DebtRepository) FindByID(debtID uint) (models.Debt, error) {
	var debt models.Debt
	if err := repo.database.First(&debt, debtID).Error; err != nil {
		return models.Debt{}, err
	}
	return debt, nil
}

// ListActiveForUser returns the user's unpaid debts ordered by due date.
func (repo *DebtRepository) ListActiveForUser(userID uint) ([]models.Debt, error) {
	debts := make([]models.Debt, 0)
	if err := repo.database.
		Where("user_id = ? AND status <> ?", userID, models.StatusPaid).
		Order("due_date ASC, id ASC").
		Find(&debts).Error; err != nil {
		return nil, err
	}
	return debts, nil
}

func (repo *DebtRepository) ListAllForUser(userID uint) ([]models.Debt, error) {
	debts := make([]models.Debt, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("due_date ASC, id ASC").
		Find(&debts).Error; err != nil {
		return nil, err
	}
	return debts, nil
}

// UpdateOwned applies field updates scoped by both debt id and owner id.
// A miss on either looks identical to a missing debt.
func (repo *DebtRepository) UpdateOwned(debtID uint, userID uint, updates map[string]any) (int64, error) {
	result := repo.database.Model(&models.Debt{}).
		Where("id = ? AND user_id = ?", debtID, userID).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (repo *DebtRepository) DeleteOwned(debtID uint, userID uint) (int64, error) {
	result := repo.database.
		Where("id = ? AND user_id = ?", debtID, userID).
		Delete(&models.Debt{})
	return result.RowsAffected, result.Error
}

// MarkOverdue flips stored pending debts whose due date has passed. Run by
// the daily sweep so persisted status converges with the derived one.
func (repo *DebtRepository) MarkOverdue(today time.Time) (int64, error) {
	result := repo.database.Model(&models.Debt{}).
		Where("status = ? AND due_date < ?", models.StatusPending, today).
		Update("status", models.StatusOverdue)
	return result.RowsAffected, result.Error
}

// CommitPayment persists one accepted payment: the ledger row, the debt's
// new paid amount and status, and the payment notification, atomically.
func (repo *DebtRepository) CommitPayment(
	debtID uint,
	newPaidAmount decimal.Decimal,
	newStatus string,
	record *models.PaymentRecord,
	notification *models.Notification,
) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Debt{}).
			Where("id = ?", debtID).
			Updates(map[string]any{
				"paid_amount": newPaidAmount,
				"status":      newStatus,
			}).Error; err != nil {
			return err
		}
		return tx.Create(notification).Error
	})
}
