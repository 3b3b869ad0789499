package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"
)

// SMTPProvider delivers mail through an SMTP relay.
type SMTPProvider struct {
	host     string
	port     int
	username string
	password string
	fromAddr string
	fromName string
}

// NewSMTPProvider creates a new SMTP email provider. Port 465 uses implicit TLS,
// any other port upgrades with STARTTLS when the server offers it.
func NewSMTPProvider(host string, port int, username, password, fromAddr, fromName string) *SMTPProvider {
	return &SMTPProvider{
		host:     host,
		port:     port,
		username: username,
		password: password,
		fromAddr: fromAddr,
		fromName: fromName,
	}
}

// Send sends a single HTML email.
func (p *SMTPProvider) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(p.fromName, p.fromAddr); err != nil {
		return Permanent(fmt.Errorf("set sender: %w", err))
	}
	if err := msg.To(to); err != nil {
		return Permanent(fmt.Errorf("set recipient: %w", err))
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(p.host, p.clientOptions()...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		err = fmt.Errorf("send via smtp: %w", err)
		if isRejectedRecipient(err) {
			return Permanent(err)
		}
		return err
	}
	return nil
}

func (p *SMTPProvider) clientOptions() []mail.Option {
	opts := []mail.Option{mail.WithPort(p.port)}
	if p.port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	if p.username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(p.username),
			mail.WithPassword(p.password),
		)
	}
	return opts
}

// isRejectedRecipient reports a 5xx reply to RCPT TO. 4xx replies stay retryable.
func isRejectedRecipient(err error) bool {
	var sendErr *mail.SendError
	if !errors.As(err, &sendErr) {
		return false
	}
	return sendErr.Reason == mail.ErrSMTPRcptTo && !sendErr.IsTemp()
}
