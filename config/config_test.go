package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("EMAIL_PROVIDER", "")
	t.Setenv("SETTINGS_CACHE_TTL", "")

	cfg, _ := Load()
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "sendgrid", cfg.EmailProvider)
	assert.Equal(t, 5*time.Minute, cfg.SettingsCacheTTL)
	assert.Equal(t, "0 18 * * *", cfg.ReminderSchedule)
	assert.Equal(t, "Mr. Alligator Plumbing", cfg.BusinessName)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("REMINDERS_ENABLED", "true")
	t.Setenv("SETTINGS_CACHE_TTL", "30s")
	t.Setenv("EMAIL_PROVIDER", "SMTP")

	cfg, _ := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.True(t, cfg.RemindersEnabled)
	assert.Equal(t, 30*time.Second, cfg.SettingsCacheTTL)
	assert.Equal(t, "smtp", cfg.EmailProvider)
}

func TestGetEnvHelpers_FallBackOnGarbage(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_BOOL", "maybe")
	t.Setenv("X_DUR", "soon")

	assert.Equal(t, 7, getEnvAsInt("X_INT", 7))
	assert.True(t, getEnvAsBool("X_BOOL", true))
	assert.Equal(t, time.Second, getEnvAsDuration("X_DUR", time.Second))
}

func TestValidate(t *testing.T) {
	cfg := &Config{EmailProvider: "sendgrid"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "SENDGRID_API_KEY")

	ok := &Config{DatabaseURL: "postgres://x", JWTSecret: "s", EmailProvider: "stub"}
	assert.NoError(t, ok.Validate())

	bad := &Config{DatabaseURL: "postgres://x", JWTSecret: "s", EmailProvider: "pigeon"}
	assert.Error(t, bad.Validate())
}
