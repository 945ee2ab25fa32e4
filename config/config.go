package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     string
	LogLevel string

	DatabaseURL string
	JWTSecret   string
	AdminFile   string
	AdminEmail  string

	BusinessName  string
	BusinessPhone string
	BusinessEmail string

	EmailProvider     string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SMTPHost          string
	SMTPPort          int
	EmailUser         string
	EmailPass         string

	RedisAddr        string
	RedisPassword    string
	SettingsCacheTTL time.Duration

	RemindersEnabled bool
	ReminderSchedule string

	CORSOrigins string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, bool) {
	loadedDotEnv := godotenv.Load() == nil

	cfg := &Config{
		Port:     getEnv("PORT", "8000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		AdminFile:   getEnv("ADMIN_FILE", "admin-data.json"),
		AdminEmail:  getEnv("ADMIN_EMAIL", "mralligatorrenovations@gmail.com"),

		BusinessName:  getEnv("BUSINESS_NAME", "Mr. Alligator Plumbing"),
		BusinessPhone: getEnv("BUSINESS_PHONE", "(813) 679-4905"),
		BusinessEmail: getEnv("BUSINESS_EMAIL", "mralligatorrenovations@gmail.com"),

		EmailProvider:     strings.ToLower(getEnv("EMAIL_PROVIDER", "sendgrid")),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Mr. Alligator Plumbing"),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getEnvAsInt("SMTP_PORT", 587),
		EmailUser:         getEnv("EMAIL_USER", ""),
		EmailPass:         getEnv("EMAIL_PASS", ""),

		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		SettingsCacheTTL: getEnvAsDuration("SETTINGS_CACHE_TTL", 5*time.Minute),

		RemindersEnabled: getEnvAsBool("REMINDERS_ENABLED", false),
		ReminderSchedule: getEnv("REMINDER_SCHEDULE", "0 18 * * *"),

		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
	return cfg, loadedDotEnv
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}
	switch c.EmailProvider {
	case "sendgrid":
		if c.SendGridAPIKey == "" || c.SendGridFromEmail == "" {
			errs = append(errs, errors.New("SENDGRID_API_KEY and SENDGRID_FROM_EMAIL are required for the sendgrid provider"))
		}
	case "smtp":
		if c.SMTPHost == "" {
			errs = append(errs, errors.New("SMTP_HOST is required for the smtp provider"))
		}
	case "stub":
	default:
		errs = append(errs, errors.New("EMAIL_PROVIDER must be sendgrid, smtp or stub"))
	}
	return errors.Join(errs...)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
