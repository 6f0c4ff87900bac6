package services

import (
	"time"

	"github.com/grupo09/debtmanager/internal/models"
	"github.com/shopspring/decimal"
)

const dueSoonWindowDays = 7

// ComputeStatus derives a debt's status from its amounts and due date.
// Priority order: fully paid wins, then overdue, then pending. A debt due
// today is not overdue; only days strictly before today count.
func ComputeStatus(amount decimal.Decimal, paidAmount decimal.Decimal, dueDate time.Time, today time.Time) string {
	if paidAmount.GreaterThanOrEqual(amount) {
		return models.StatusPaid
	}
	if dueDay := truncateToDay(dueDate); dueDay.Before(truncateToDay(today)) {
		return models.StatusOverdue
	}
	return models.StatusPending
}

// ComputeUrgency derives the display-only urgency for a debt. It is never
// persisted.
func ComputeUrgency(status string, dueDate time.Time, today time.Time) string {
	if status == models.StatusOverdue {
		return models.UrgencyOverdue
	}
	if status != models.StatusPending {
		return models.UrgencyNormal
	}

	dueDay := truncateToDay(dueDate)
	windowEnd := truncateToDay(today).AddDate(0, 0, dueSoonWindowDays)
	if !dueDay.After(windowEnd) {
		return models.UrgencyDueSoon
	}
	return models.UrgencyNormal
}

// RecomputeStatusAfterPayment applies the ledger refinement: a partially
// paid debt that was overdue reverts to pending, its obligation is current
// even though history shows it was late.
func RecomputeStatusAfterPayment(debt models.Debt, newPaidAmount decimal.Decimal) string {
	if newPaidAmount.GreaterThanOrEqual(debt.Amount) {
		return models.StatusPaid
	}
	if debt.Status == models.StatusOverdue {
		return models.StatusPending
	}
	return debt.Status
}

func truncateToDay(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, value.Location())
}
