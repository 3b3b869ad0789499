package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("SMTP_HOST", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, 10, cfg.DatabaseMaxConns)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "log", cfg.Email.Provider)
	assert.Equal(t, cfg.Email.FromEmail, cfg.Email.AdminEmail)
	assert.Equal(t, 3, cfg.Email.MaxAttempts)
	assert.Empty(t, cfg.AdminPassword, "no admin password may be baked in")
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/waitlist")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM_EMAIL", "hello@example.com")
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.LogPretty)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "smtp", cfg.Email.Provider)
	assert.Equal(t, "hello@example.com", cfg.Email.AdminEmail)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "bad port", key: "PORT", val: "eighty"},
		{name: "bad driver", key: "DATABASE_DRIVER", val: "mysql"},
		{name: "bad ttl", key: "SESSION_TTL", val: "tomorrow"},
		{name: "bad bool", key: "LOG_PRETTY", val: "sometimes"},
		{name: "bad provider", key: "EMAIL_PROVIDER", val: "pigeon"},
		{name: "zero pool", key: "DATABASE_MAX_CONNS", val: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
