package email

import (
	"fmt"

	"github.com/isdelr/waitlist-be/internal/config"
)

// NewProvider builds the Provider selected by cfg.Provider.
func NewProvider(cfg config.EmailConfig) (Provider, error) {
	switch cfg.Provider {
	case "smtp":
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("smtp provider requires SMTP_HOST")
		}
		return NewSMTPProvider(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.FromEmail, cfg.FromName), nil
	case "brevo":
		if cfg.BrevoAPIKey == "" {
			return nil, fmt.Errorf("brevo provider requires BREVO_API_KEY")
		}
		return NewBrevoProvider(cfg.BrevoAPIKey, cfg.FromEmail, cfg.FromName), nil
	case "log", "":
		return NewLogProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported email provider %q", cfg.Provider)
	}
}
