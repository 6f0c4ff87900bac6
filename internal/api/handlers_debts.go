package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/grupo09/debtmanager/internal/services"
)

func (handler *Handler) CreateDebt(c *fiber.Ctx) error {
	var input createDebtInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	dueDate, err := handler.parseDate(input.DueDate)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "due_date must be YYYY-MM-DD")
	}

	debts, err := handler.debts.CreateDebtBatch(currentUserID(c), services.CreateDebtInput{
		BankName:     input.BankName,
		Description:  input.Description,
		Amount:       input.Amount,
		DueDate:      dueDate,
		Frequency:    input.Frequency,
		Installments: input.Installments,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(debts)
}

func (handler *Handler) ListDebts(c *fiber.Ctx) error {
	debts, err := handler.debts.ListActiveDebts(currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(debts)
}

func (handler *Handler) UpdateDebt(c *fiber.Ctx) error {
	debtID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid debt id")
	}

	var input updateDebtInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	edit := services.EditDebtInput{
		BankName:    input.BankName,
		Description: input.Description,
		Amount:      input.Amount,
	}
	if input.DueDate != nil {
		dueDate, err := handler.parseDate(*input.DueDate)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "due_date must be YYYY-MM-DD")
		}
		edit.DueDate = &dueDate
	}

	debt, err := handler.debts.EditDebt(currentUserID(c), debtID, edit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(debt)
}

func (handler *Handler) DeleteDebt(c *fiber.Ctx) error {
	debtID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid debt id")
	}

	if err := handler.debts.DeleteDebt(currentUserID(c), debtID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "debt deleted"})
}

func (handler *Handler) GetStatistics(c *fiber.Ctx) error {
	stats, err := handler.debts.BuildStatistics(currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stats)
}

func (handler *Handler) parseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, raw, handler.location)
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	parsed, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || parsed == 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(parsed), nil
}
