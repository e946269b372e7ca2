package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	// Save current env and restore later
	origHost := os.Getenv("DB_HOST")
	defer os.Setenv("DB_HOST", origHost)

	os.Setenv("DB_HOST", "test-host")
	os.Setenv("DB_MAX_OPEN_CONNS", "20")
	os.Setenv("MINIO_USE_SSL", "true")
	os.Setenv("SENDGRID_API_KEY", "sg-test-key")
	os.Setenv("MAIL_FROM_ADDRESS", "noreply@example.com")
	os.Setenv("WORKER_POLL_INTERVAL_SEC", "5")
	os.Setenv("ORDER_CONFIRMATION_DELAY_SEC", "120")
	defer func() {
		os.Unsetenv("SENDGRID_API_KEY")
		os.Unsetenv("MAIL_FROM_ADDRESS")
		os.Unsetenv("WORKER_POLL_INTERVAL_SEC")
		os.Unsetenv("ORDER_CONFIRMATION_DELAY_SEC")
	}()

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "sg-test-key", cfg.SendGrid.APIKey)
	assert.Equal(t, "noreply@example.com", cfg.SendGrid.FromAddress)
	assert.Equal(t, "Print Shop", cfg.SendGrid.FromName)
	assert.Equal(t, 5, cfg.Worker.PollIntervalSec)
	assert.Equal(t, 120, cfg.Worker.ConfirmationDelaySec)
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}
