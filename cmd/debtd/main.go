package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/grupo09/debtmanager/internal/api"
	"github.com/grupo09/debtmanager/internal/config"
	"github.com/grupo09/debtmanager/internal/db"
	"github.com/grupo09/debtmanager/internal/services"
)

func main() {
	cfg := config.Load()

	location := mustLoadLocation(cfg.Timezone)
	time.Local = location

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}
	repos := db.NewRepositories(database)

	var resetCodes services.ResetCodeStore
	if cfg.RedisAddr != "" {
		resetCodes = services.NewRedisResetCodeStore(cfg.RedisAddr)
	} else {
		log.Print("REDIS_ADDR not set, using in-memory reset code store")
		resetCodes = services.NewMemoryResetCodeStore()
	}

	whatsapp := services.NewTwilioWhatsAppSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	if !whatsapp.Enabled() {
		log.Print("Twilio credentials not set, WhatsApp alerts disabled")
	}
	mailer := services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)

	notifier := services.NewNotifier(repos.Users, repos.Debts, repos.Notifications, whatsapp, location)
	authService := services.NewAuthService(repos.Users, resetCodes, mailer)
	debtService := services.NewDebtService(repos.Debts, notifier, location)
	cardVault := services.NewCardVault(services.DefaultSimulatorCards())
	paymentService := services.NewPaymentService(repos.Debts, cardVault, notifier, location)

	handler := api.NewHandler(authService, debtService, paymentService, repos, cfg.SecretKey, location)

	app := fiber.New(fiber.Config{
		AppName:               "DebtManager",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	api.RegisterRoutes(app, handler)

	sweep := services.NewDailySweep(repos.Users, repos.Debts, notifier, cfg.SweepHour, location)
	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()
	sweep.Start(lifecycleCtx)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("DebtManager listening on http://0.0.0.0:%s (db: %s, tz: %s)", cfg.Port, cfg.DBPath, location.String())
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}
