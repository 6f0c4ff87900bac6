package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/forgot-password", handler.ForgotPassword)
	auth.Post("/reset-password", handler.ResetPassword)

	debts := api.Group("/debts", handler.AuthRequired)
	debts.Get("", handler.ListDebts)
	debts.Post("", handler.CreateDebt)
	debts.Put("/:id", handler.UpdateDebt)
	debts.Delete("/:id", handler.DeleteDebt)

	payments := api.Group("/payments", handler.AuthRequired)
	payments.Get("", handler.ListPayments)
	payments.Post("", handler.CreatePayment)

	api.Get("/statistics", handler.AuthRequired, handler.GetStatistics)
	api.Get("/banks", handler.AuthRequired, handler.ListBanks)

	notifications := api.Group("/notifications", handler.AuthRequired)
	notifications.Get("", handler.ListNotifications)
	notifications.Post("/:id/read", handler.MarkNotificationRead)
}
