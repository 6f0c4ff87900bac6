package models

import "time"

const (
	NotificationTypeOverdueAlert   = "overdue_alert"
	NotificationTypePaymentSuccess = "payment_success"
	NotificationTypeDailyDigest    = "daily_digest"
)

type Notification struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	DebtID    *uint  `gorm:"index"`
	Type      string `gorm:"not null"`
	Title     string `gorm:"not null"`
	Message   string `gorm:"not null"`
	Read      bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
}
