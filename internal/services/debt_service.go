package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grupo09/debtmanager/internal/models"
	"github.com/shopspring/decimal"
)

type DebtRepository interface {
	CreateBatch(debts []*models.Debt) error
	FindOwned(debtID uint, userID uint) (models.Debt, error)
	ListActiveForUser(userID uint) ([]models.Debt, error)
	ListAllForUser(userID uint) ([]models.Debt, error)
	UpdateOwned(debtID uint, userID uint, updates map[string]any) (int64, error)
	DeleteOwned(debtID uint, userID uint) (int64, error)
}

// OverdueAlerter receives the newly overdue debts of one creation request
// after their transaction commits. Implementations must not block.
type OverdueAlerter interface {
	AlertOverdueCreated(userID uint, debts []models.Debt)
}

type DebtService struct {
	debts    DebtRepository
	alerter  OverdueAlerter
	location *time.Location
	now      func() time.Time
}

func NewDebtService(debts DebtRepository, alerter OverdueAlerter, location *time.Location) *DebtService {
	if location == nil {
		location = time.UTC
	}
	return &DebtService{
		debts:    debts,
		alerter:  alerter,
		location: location,
		now:      time.Now,
	}
}

type CreateDebtInput struct {
	BankName     string
	Description  string
	Amount       decimal.Decimal
	DueDate      time.Time
	Frequency    string
	Installments int
}

// CreateDebtBatch expands one creation request into its installment calendar
// and persists every row atomically. If at least one installment lands
// overdue, exactly one alert is dispatched for the owner after commit.
func (service *DebtService) CreateDebtBatch(userID uint, input CreateDebtInput) ([]models.Debt, error) {
	normalized, err := service.normalizeCreateInput(input)
	if err != nil {
		return nil, err
	}

	today := DateAtLocation(service.now(), service.location)
	anchor := DateAtLocation(normalized.DueDate, service.location)
	batchID := uuid.NewString()

	rows := make([]*models.Debt, 0, normalized.Installments)
	for index, dueDate := range ExpandInstallmentDates(anchor, normalized.Frequency, normalized.Installments) {
		rows = append(rows, &models.Debt{
			UserID:             userID,
			BankName:           normalized.BankName,
			Description:        normalized.Description,
			Amount:             normalized.Amount,
			PaidAmount:         decimal.Zero,
			DueDate:            dueDate,
			Frequency:          normalized.Frequency,
			Status:             ComputeStatus(normalized.Amount, decimal.Zero, dueDate, today),
			TotalInstallments:  normalized.Installments,
			CurrentInstallment: index + 1,
			BatchID:            batchID,
		})
	}

	if err := service.debts.CreateBatch(rows); err != nil {
		return nil, err
	}

	created := make([]models.Debt, 0, len(rows))
	overdue := make([]models.Debt, 0)
	for _, row := range rows {
		created = append(created, *row)
		if row.Status == models.StatusOverdue {
			overdue = append(overdue, *row)
		}
	}

	if len(overdue) > 0 && service.alerter != nil {
		service.alerter.AlertOverdueCreated(userID, overdue)
	}

	return created, nil
}

func (service *DebtService) normalizeCreateInput(input CreateDebtInput) (CreateDebtInput, error) {
	input.BankName = strings.TrimSpace(input.BankName)
	input.Description = strings.TrimSpace(input.Description)
	if input.Frequency == "" {
		input.Frequency = models.FrequencyMonthly
	}
	if input.Installments == 0 {
		input.Installments = 1
	}

	switch {
	case input.BankName == "":
		return input, NewValidationError("bank name is required")
	case input.Description == "":
		return input, NewValidationError("description is required")
	case !input.Amount.IsPositive():
		return input, NewValidationError("amount must be greater than zero")
	case input.DueDate.IsZero():
		return input, NewValidationError("due date is required")
	case !models.IsKnownFrequency(input.Frequency):
		return input, NewValidationError("unknown frequency %q", input.Frequency)
	case input.Installments < 1:
		return input, NewValidationError("installments must be at least 1")
	}

	return input, nil
}

// DebtWithUrgency pairs a debt with its display urgency.
type DebtWithUrgency struct {
	models.Debt
	Urgency string
}

// ListActiveDebts returns the user's unpaid debts ordered by due date, each
// annotated with its computed urgency. Paid debts never appear. Status is
// recomputed against today so a stored pending debt whose due date has since
// passed reads as overdue.
func (service *DebtService) ListActiveDebts(userID uint) ([]DebtWithUrgency, error) {
	debts, err := service.debts.ListActiveForUser(userID)
	if err != nil {
		return nil, err
	}

	today := DateAtLocation(service.now(), service.location)
	annotated := make([]DebtWithUrgency, 0, len(debts))
	for _, debt := range debts {
		debt.Status = ComputeStatus(debt.Amount, debt.PaidAmount, debt.DueDate, today)
		annotated = append(annotated, DebtWithUrgency{
			Debt:    debt,
			Urgency: ComputeUrgency(debt.Status, debt.DueDate, today),
		})
	}
	return annotated, nil
}

type EditDebtInput struct {
	BankName    *string
	Description *string
	Amount      *decimal.Decimal
	DueDate     *time.Time
}

// EditDebt applies a partial update to an owned debt. Fields left nil keep
// their current values; status is always recomputed from the result, never
// taken from the caller.
func (service *DebtService) EditDebt(userID uint, debtID uint, input EditDebtInput) (models.Debt, error) {
	current, err := service.debts.FindOwned(debtID, userID)
	if err != nil {
		return models.Debt{}, ErrNotFound
	}

	updates := map[string]any{}
	amount := current.Amount
	dueDate := current.DueDate

	if input.BankName != nil {
		trimmed := strings.TrimSpace(*input.BankName)
		if trimmed == "" {
			return models.Debt{}, NewValidationError("bank name is required")
		}
		updates["bank_name"] = trimmed
	}
	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if trimmed == "" {
			return models.Debt{}, NewValidationError("description is required")
		}
		updates["description"] = trimmed
	}
	if input.Amount != nil {
		if !input.Amount.IsPositive() {
			return models.Debt{}, NewValidationError("amount must be greater than zero")
		}
		if input.Amount.LessThan(current.PaidAmount) {
			return models.Debt{}, NewValidationError("amount cannot be below the %s already paid", current.PaidAmount.StringFixed(2))
		}
		amount = *input.Amount
		updates["amount"] = amount
	}
	if input.DueDate != nil {
		if input.DueDate.IsZero() {
			return models.Debt{}, NewValidationError("due date is required")
		}
		dueDate = DateAtLocation(*input.DueDate, service.location)
		updates["due_date"] = dueDate
	}

	today := DateAtLocation(service.now(), service.location)
	updates["status"] = ComputeStatus(amount, current.PaidAmount, dueDate, today)

	affected, err := service.debts.UpdateOwned(debtID, userID, updates)
	if err != nil {
		return models.Debt{}, err
	}
	if affected == 0 {
		return models.Debt{}, ErrNotFound
	}

	return service.debts.FindOwned(debtID, userID)
}

func (service *DebtService) DeleteDebt(userID uint, debtID uint) error {
	affected, err := service.debts.DeleteOwned(debtID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Statistics aggregates the user's debts per status.
type Statistics struct {
	TotalDebts    int             `json:"total_debts"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PendingCount  int             `json:"pending_count"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
	OverdueCount  int             `json:"overdue_count"`
	OverdueAmount decimal.Decimal `json:"overdue_amount"`
	PaidCount     int             `json:"paid_count"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
}

func (service *DebtService) BuildStatistics(userID uint) (Statistics, error) {
	debts, err := service.debts.ListAllForUser(userID)
	if err != nil {
		return Statistics{}, err
	}

	stats := Statistics{
		TotalAmount:   decimal.Zero,
		PendingAmount: decimal.Zero,
		OverdueAmount: decimal.Zero,
		PaidAmount:    decimal.Zero,
	}
	today := DateAtLocation(service.now(), service.location)
	for _, debt := range debts {
		stats.TotalDebts++
		stats.TotalAmount = stats.TotalAmount.Add(debt.Amount)
		switch ComputeStatus(debt.Amount, debt.PaidAmount, debt.DueDate, today) {
		case models.StatusPending:
			stats.PendingCount++
			stats.PendingAmount = stats.PendingAmount.Add(debt.RemainingAmount())
		case models.StatusOverdue:
			stats.OverdueCount++
			stats.OverdueAmount = stats.OverdueAmount.Add(debt.RemainingAmount())
		case models.StatusPaid:
			stats.PaidCount++
			stats.PaidAmount = stats.PaidAmount.Add(debt.PaidAmount)
		}
	}
	return stats, nil
}
