package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AuthSecret        string // Required: HMAC secret for access token verification
	MaintenanceSecret string // Optional: if empty, the maintenance endpoints are disabled

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./taskdeck.db)
	BaseURL              string        // Optional: base URL used in email deep links (default: http://localhost:8080)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
	InvitationTTL        time.Duration // How long minted invitations stay redeemable (default: 7 days)

	// SMTP relay settings. When SMTPHost is empty, outgoing email is
	// disabled and mention emails are dropped.
	SMTPHost   string
	SMTPPort   string
	SMTPSender string
	SMTPPass   string
}

func LoadConfig() Config {
	return Config{
		AuthSecret:           os.Getenv("TASKDECK_AUTH_SECRET"),
		MaintenanceSecret:    os.Getenv("TASKDECK_MAINTENANCE_SECRET"),
		DatabaseFile:         getEnvOrDefault("TASKDECK_DATABASE_FILE", "taskdeck.db"),
		BaseURL:              getEnvOrDefault("TASKDECK_BASE_URL", "http://localhost:8080"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		InvitationTTL:        getEnvDurationOrDefault("INVITATION_TTL", 7*24*time.Hour),
		SMTPHost:             os.Getenv("SMTP_HOST"),
		SMTPPort:             getEnvOrDefault("SMTP_PORT", "587"),
		SMTPSender:           getEnvOrDefault("SMTP_SENDER", "taskdeck@localhost"),
		SMTPPass:             os.Getenv("SMTP_PASS"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
