package db

import (
	"github.com/grupo09/debtmanager/internal/models"
	"gorm.io/gorm"
)

type BankRepository struct {
	database *gorm.DB
}

func NewBankRepository(database *gorm.DB) *BankRepository {
	return &BankRepository{database: database}
}

func (repo *BankRepository) ListActive() ([]models.Bank, error) {
	banks := make([]models.Bank, 0)
	if err := repo.database.
		Where("active = ?", true).
		Order("name ASC").
		Find(&banks).Error; err != nil {
		return nil, err
	}
	return banks, nil
}

func seedDefaultBanks(database *gorm.DB) error {
	var count int64
	if err := database.Model(&models.Bank{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return database.Transaction(func(tx *gorm.DB) error {
		for _, seed := range models.DefaultSeedBanks() {
			bank := models.Bank{Name: seed.Name, Code: seed.Code, Active: true}
			if err := tx.Create(&bank).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
