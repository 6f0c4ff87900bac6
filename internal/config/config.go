package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port      string
	DBPath    string
	SecretKey string
	Timezone  string

	RedisAddr string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	SweepHour int
}

func Load() Config {
	return Config{
		Port:      getEnv("PORT", "8080"),
		DBPath:    getEnv("DB_PATH", "data/debtmanager.db"),
		SecretKey: getEnv("SECRET_KEY", "change_me_in_production"),
		Timezone:  getEnv("TZ", "America/Lima"),

		RedisAddr: os.Getenv("REDIS_ADDR"),

		TwilioAccountSID: os.Getenv("TWILIO_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_TOKEN"),
		TwilioFromNumber: os.Getenv("TWILIO_WHATSAPP_NUMBER"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),

		SweepHour: getEnvInt("SWEEP_HOUR", 8),
	}
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
