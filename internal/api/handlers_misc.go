package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) ListBanks(c *fiber.Ctx) error {
	banks, err := handler.banks.ListActive()
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(banks)
}

func (handler *Handler) ListNotifications(c *fiber.Ctx) error {
	notifications, err := handler.notifications.ListForUser(currentUserID(c), 50)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(notifications)
}

func (handler *Handler) MarkNotificationRead(c *fiber.Ctx) error {
	notificationID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid notification id")
	}

	affected, err := handler.notifications.MarkRead(notificationID, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	if affected == 0 {
		return apiError(c, fiber.StatusNotFound, "not found")
	}
	return c.JSON(fiber.Map{"message": "marked read"})
}
