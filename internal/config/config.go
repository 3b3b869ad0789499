package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort int
	Env        string

	DatabaseDriver   string // "sqlite" or "postgres"
	DatabaseURL      string
	DatabaseMaxConns int

	JWTSecret  string
	SessionTTL time.Duration

	// Admin credentials used only to provision the first admin account.
	AdminUsername string
	AdminPassword string

	AllowedOrigins []string

	Email EmailConfig

	SubscribeRatePerMinute int
	SubscribeBurst         int

	FallbackFlushSchedule string

	LogLevel  string
	LogPretty bool

	OTLPEndpoint string
	OTLPInsecure bool
}

// EmailConfig holds outbound email settings.
type EmailConfig struct {
	Provider     string // "smtp", "brevo" or "log"
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	FromEmail    string
	FromName     string
	AdminEmail   string
	BrevoAPIKey  string
	Workers      int
	QueueSize    int
	MaxAttempts  int
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	var err error
	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		DatabaseDriver:        strings.ToLower(getEnv("DATABASE_DRIVER", "sqlite")),
		DatabaseURL:           getEnv("DATABASE_URL", "file:waitlist.db"),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		AdminUsername:         getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:         getEnv("ADMIN_PASSWORD", ""),
		AllowedOrigins:        splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		FallbackFlushSchedule: getEnv("FALLBACK_FLUSH_CRON", "*/5 * * * *"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		OTLPEndpoint:          getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if cfg.ServerPort, err = getEnvInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.DatabaseMaxConns, err = getEnvInt("DATABASE_MAX_CONNS", 10); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getEnvDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SubscribeRatePerMinute, err = getEnvInt("SUBSCRIBE_RATE_PER_MINUTE", 10); err != nil {
		return nil, err
	}
	if cfg.SubscribeBurst, err = getEnvInt("SUBSCRIBE_BURST", 5); err != nil {
		return nil, err
	}
	if cfg.LogPretty, err = getEnvBool("LOG_PRETTY", cfg.Env != "production"); err != nil {
		return nil, err
	}
	if cfg.OTLPInsecure, err = getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", false); err != nil {
		return nil, err
	}
	if cfg.Email, err = loadEmail(); err != nil {
		return nil, err
	}

	if cfg.DatabaseDriver != "sqlite" && cfg.DatabaseDriver != "postgres" {
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}
	if cfg.DatabaseMaxConns <= 0 {
		return nil, fmt.Errorf("DATABASE_MAX_CONNS must be positive, got %d", cfg.DatabaseMaxConns)
	}
	return cfg, nil
}

func loadEmail() (EmailConfig, error) {
	var err error
	ec := EmailConfig{
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		FromEmail:    getEnv("SMTP_FROM_EMAIL", "no-reply@localhost"),
		FromName:     getEnv("SMTP_FROM_NAME", "Waitlist"),
		BrevoAPIKey:  getEnv("BREVO_API_KEY", ""),
	}
	ec.AdminEmail = getEnv("ADMIN_EMAIL", "")
	if ec.AdminEmail == "" {
		ec.AdminEmail = ec.FromEmail
	}

	defaultProvider := "log"
	if ec.SMTPHost != "" {
		defaultProvider = "smtp"
	}
	ec.Provider = strings.ToLower(getEnv("EMAIL_PROVIDER", defaultProvider))
	switch ec.Provider {
	case "smtp", "brevo", "log":
	default:
		return EmailConfig{}, fmt.Errorf("unsupported EMAIL_PROVIDER %q", ec.Provider)
	}

	if ec.SMTPPort, err = getEnvInt("SMTP_PORT", 587); err != nil {
		return EmailConfig{}, err
	}
	if ec.Workers, err = getEnvInt("EMAIL_WORKERS", 2); err != nil {
		return EmailConfig{}, err
	}
	if ec.QueueSize, err = getEnvInt("EMAIL_QUEUE_SIZE", 100); err != nil {
		return EmailConfig{}, err
	}
	if ec.MaxAttempts, err = getEnvInt("EMAIL_MAX_ATTEMPTS", 3); err != nil {
		return EmailConfig{}, err
	}
	return ec, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
