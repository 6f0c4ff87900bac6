package api

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/grupo09/debtmanager/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Storage faults are logged with detail and surfaced generically.
func respondServiceError(c *fiber.Ctx, err error) error {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		return apiError(c, fiber.StatusBadRequest, validationErr.Message)
	}

	var overpaymentErr *services.OverpaymentError
	if errors.As(err, &overpaymentErr) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":            "payment exceeds debt total",
			"remaining_amount": overpaymentErr.Remaining,
		})
	}

	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrDebtNotFound):
		return apiError(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, services.ErrCardNotFound):
		return apiError(c, fiber.StatusBadRequest, "transaction declined: card not found")
	case errors.Is(err, services.ErrInvalidSecurityCode):
		return apiError(c, fiber.StatusBadRequest, "transaction declined: invalid security code")
	case errors.Is(err, services.ErrCardBlocked):
		return apiError(c, fiber.StatusBadRequest, "transaction declined: card blocked")
	case errors.Is(err, services.ErrInsufficientFunds):
		return apiError(c, fiber.StatusBadRequest, "transaction declined: insufficient funds")
	case errors.Is(err, services.ErrInvalidCredentials):
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrEmailTaken):
		return apiError(c, fiber.StatusConflict, "email already registered")
	case errors.Is(err, services.ErrResetCodeInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid or expired code")
	default:
		log.Printf("api: internal error on %s %s: %v", c.Method(), c.Path(), err)
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
}
