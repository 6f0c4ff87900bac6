package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/grupo09/debtmanager/internal/models"
	"github.com/grupo09/debtmanager/internal/security"
	"github.com/shopspring/decimal"
)

type PaymentDebtRepository interface {
	FindOwned(debtID uint, userID uint) (models.Debt, error)
	CommitPayment(debtID uint, newPaidAmount decimal.Decimal, newStatus string, record *models.PaymentRecord, notification *models.Notification) error
}

// PaymentAcceptedNotifier delivers the post-commit "payment accepted"
// message. Implementations must not block and must swallow their own errors.
type PaymentAcceptedNotifier interface {
	NotifyPaymentAccepted(userID uint, debt models.Debt, amount decimal.Decimal, reference string)
}

type PaymentService struct {
	debts      PaymentDebtRepository
	authorizer CardAuthorizer
	notifier   PaymentAcceptedNotifier
	location   *time.Location
	now        func() time.Time
}

func NewPaymentService(debts PaymentDebtRepository, authorizer CardAuthorizer, notifier PaymentAcceptedNotifier, location *time.Location) *PaymentService {
	if location == nil {
		location = time.UTC
	}
	return &PaymentService{
		debts:      debts,
		authorizer: authorizer,
		notifier:   notifier,
		location:   location,
		now:        time.Now,
	}
}

type PayDebtInput struct {
	DebtID      uint
	Amount      decimal.Decimal
	PaymentDate time.Time
	CardNumber  string
	CardExpiry  string
	CardCVV     string
}

type PaymentReceipt struct {
	Reference       string          `json:"reference"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
}

// PayDebt charges the card and applies the payment to the debt in one
// atomic unit: ledger row, paid-amount update, status recompute and the
// notification row all commit together or not at all. The debt lookup and
// overpayment check run before the card is charged; a charge that cannot be
// committed is refunded, so a failed payment never drains the card.
func (service *PaymentService) PayDebt(userID uint, input PayDebtInput) (PaymentReceipt, error) {
	if err := validatePayInput(input); err != nil {
		return PaymentReceipt{}, err
	}

	debt, err := service.debts.FindOwned(input.DebtID, userID)
	if err != nil {
		return PaymentReceipt{}, ErrDebtNotFound
	}

	newPaidAmount := debt.PaidAmount.Add(input.Amount)
	if newPaidAmount.GreaterThan(debt.Amount) {
		return PaymentReceipt{}, &OverpaymentError{Remaining: debt.RemainingAmount()}
	}

	reference, err := buildAuthorizationReference()
	if err != nil {
		return PaymentReceipt{}, fmt.Errorf("build authorization reference: %w", err)
	}

	if _, err := service.authorizer.Authorize(input.CardNumber, input.CardCVV, input.CardExpiry, input.Amount); err != nil {
		return PaymentReceipt{}, err
	}

	paymentDate := input.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = service.now()
	}
	paymentDate = DateAtLocation(paymentDate, service.location)

	record := models.PaymentRecord{
		DebtID:        debt.ID,
		Amount:        input.Amount,
		PaymentDate:   paymentDate,
		PaymentMethod: models.PaymentMethodCard,
		Reference:     reference,
		Notes:         fmt.Sprintf("Card ending in %s", lastCardDigits(input.CardNumber)),
	}
	notification := models.Notification{
		UserID:  userID,
		DebtID:  &debt.ID,
		Type:    models.NotificationTypePaymentSuccess,
		Title:   "Payment accepted",
		Message: fmt.Sprintf("Payment of %s processed. Ref: %s", input.Amount.StringFixed(2), reference),
	}

	newStatus := RecomputeStatusAfterPayment(debt, newPaidAmount)
	if err := service.debts.CommitPayment(debt.ID, newPaidAmount, newStatus, &record, &notification); err != nil {
		service.authorizer.Refund(input.CardNumber, input.Amount)
		return PaymentReceipt{}, fmt.Errorf("commit payment: %w", err)
	}

	if service.notifier != nil {
		service.notifier.NotifyPaymentAccepted(userID, debt, input.Amount, reference)
	}

	log.Printf("payments: debt %d paid %s by user %d (ref %s, status %s)",
		debt.ID, input.Amount.StringFixed(2), userID, reference, newStatus)

	return PaymentReceipt{
		Reference:       reference,
		RemainingAmount: debt.Amount.Sub(newPaidAmount),
	}, nil
}

func validatePayInput(input PayDebtInput) error {
	if !input.Amount.IsPositive() {
		return NewValidationError("payment amount must be greater than zero")
	}
	if strings.TrimSpace(input.CardNumber) == "" ||
		strings.TrimSpace(input.CardExpiry) == "" ||
		strings.TrimSpace(input.CardCVV) == "" {
		return NewValidationError("card details are incomplete")
	}
	return nil
}

func buildAuthorizationReference() (string, error) {
	digits, err := security.RandomDigits(6)
	if err != nil {
		return "", err
	}
	return "AUT-" + digits, nil
}

func lastCardDigits(cardNumber string) string {
	cleaned := strings.ReplaceAll(strings.TrimSpace(cardNumber), " ", "")
	if len(cleaned) <= 4 {
		return cleaned
	}
	return cleaned[len(cleaned)-4:]
}
