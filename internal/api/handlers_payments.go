package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/grupo09/debtmanager/internal/services"
)

func (handler *Handler) CreatePayment(c *fiber.Ctx) error {
	var input createPaymentInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	var paymentDate time.Time
	if input.PaymentDate != "" {
		parsed, err := handler.parseDate(input.PaymentDate)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "payment_date must be YYYY-MM-DD")
		}
		paymentDate = parsed
	}

	receipt, err := handler.payments.PayDebt(currentUserID(c), services.PayDebtInput{
		DebtID:      input.DebtID,
		Amount:      input.Amount,
		PaymentDate: paymentDate,
		CardNumber:  input.CardNumber,
		CardExpiry:  input.CardExpiry,
		CardCVV:     input.CardCVV,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"reference":        receipt.Reference,
		"remaining_amount": receipt.RemainingAmount,
	})
}

func (handler *Handler) ListPayments(c *fiber.Ctx) error {
	records, err := handler.paymentsRepo.ListForUser(currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(records)
}
