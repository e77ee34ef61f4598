package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the send-reminders job.
type AppConfig struct {
	DatabaseURL       string
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string // Sender number for every reminder SMS
	InstancesDir      string
	TestCaseID        int
	LogLevel          string
	Environment       string
	CronSpec          string // Empty means run once and exit
	TelegramToken     string // Optional, enables the admin run report together with AdminTelegramID
	AdminTelegramID   int64
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load does not override variables that are already set.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.TwilioAccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	if cfg.TwilioAccountSID == "" {
		return nil, fmt.Errorf("TWILIO_ACCOUNT_SID is not set")
	}

	cfg.TwilioAuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	if cfg.TwilioAuthToken == "" {
		return nil, fmt.Errorf("TWILIO_AUTH_TOKEN is not set")
	}

	cfg.TwilioPhoneNumber = os.Getenv("TWILIO_PHONE_NUMBER")
	if cfg.TwilioPhoneNumber == "" {
		return nil, fmt.Errorf("TWILIO_PHONE_NUMBER is not set")
	}

	cfg.InstancesDir = os.Getenv("INSTANCES_DIR")
	if cfg.InstancesDir == "" {
		cfg.InstancesDir = "./instances"
	}

	cfg.TestCaseID = 1
	if raw := os.Getenv("TEST_CASE_ID"); raw != "" {
		cfg.TestCaseID, err = strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid TEST_CASE_ID: %w", err)
		}
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.CronSpec = strings.TrimSpace(os.Getenv("CRON_SPEC_SEND_REMINDERS"))

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID"); adminIDStr != "" {
		cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
	}

	return cfg, nil
}

// ReportEnabled reports whether run summaries should be sent to the admin Telegram chat.
func (c *AppConfig) ReportEnabled() bool {
	return c.TelegramToken != "" && c.AdminTelegramID != 0
}

// IsTest reports whether the process runs under a test harness and must not dispatch on its own.
func (c *AppConfig) IsTest() bool {
	return c.Environment == "test"
}
