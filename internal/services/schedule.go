package services

import (
	"time"

	"github.com/grupo09/debtmanager/internal/models"
)

// DateAtLocation truncates a moment to its calendar date in the given
// location. All due-date comparisons happen at day granularity.
func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// InstallmentDueDate computes the due date of installment `index` (0-based)
// counted from the anchor date. Weekly advances 7 days, biweekly 15 days,
// monthly one calendar month preserving the day-of-month where the target
// month allows it.
func InstallmentDueDate(anchor time.Time, frequency string, index int) time.Time {
	if index <= 0 {
		return anchor
	}
	switch frequency {
	case models.FrequencyWeekly:
		return anchor.AddDate(0, 0, 7*index)
	case models.FrequencyBiweekly:
		return anchor.AddDate(0, 0, 15*index)
	default:
		return anchor.AddDate(0, index, 0)
	}
}

// ExpandInstallmentDates returns the full due-date calendar for a debt split
// into `count` installments, ordered by installment index.
func ExpandInstallmentDates(anchor time.Time, frequency string, count int) []time.Time {
	if count < 1 {
		count = 1
	}
	dates := make([]time.Time, 0, count)
	for index := 0; index < count; index++ {
		dates = append(dates, InstallmentDueDate(anchor, frequency, index))
	}
	return dates
}
