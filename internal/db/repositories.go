package db

import "gorm.io/gorm"

type Repositories struct {
	Users         *UserRepository
	Debts         *DebtRepository
	Payments      *PaymentRepository
	Notifications *NotificationRepository
	Banks         *BankRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(database),
		Debts:         NewDebtRepository(database),
		Payments:      NewPaymentRepository(database),
		Notifications: NewNotificationRepository(database),
		Banks:         NewBankRepository(database),
	}
}
