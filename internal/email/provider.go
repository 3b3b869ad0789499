// Package email sends welcome and admin notification emails for new signups.
package email

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Provider defines the interface for email sending implementations.
type Provider interface {
	// Send sends an email with the given parameters.
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// LogProvider writes emails to the log instead of sending them.
// It is used when no mail transport is configured.
type LogProvider struct{}

// NewLogProvider creates a new LogProvider.
func NewLogProvider() *LogProvider {
	return &LogProvider{}
}

// Send logs the email instead of sending it.
func (LogProvider) Send(ctx context.Context, to, subject, htmlBody string) error {
	log.Info().
		Str("to", to).
		Str("subject", subject).
		Int("body_length", len(htmlBody)).
		Msg("Email not sent, no mail provider configured")
	return nil
}
