package email

import (
	"testing"

	"github.com/isdelr/waitlist-be/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.EmailConfig
		want    any
		wantErr bool
	}{
		{name: "log", cfg: config.EmailConfig{Provider: "log"}, want: &LogProvider{}},
		{name: "smtp", cfg: config.EmailConfig{Provider: "smtp", SMTPHost: "smtp.example.com", SMTPPort: 587}, want: &SMTPProvider{}},
		{name: "smtp without host", cfg: config.EmailConfig{Provider: "smtp"}, wantErr: true},
		{name: "brevo", cfg: config.EmailConfig{Provider: "brevo", BrevoAPIKey: "k"}, want: &BrevoProvider{}},
		{name: "brevo without key", cfg: config.EmailConfig{Provider: "brevo"}, wantErr: true},
		{name: "unknown", cfg: config.EmailConfig{Provider: "pigeon"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, p)
		})
	}
}

func TestSMTPProvider_ClientOptions(t *testing.T) {
	assert.Len(t, NewSMTPProvider("h", 587, "", "", "a@b.c", "").clientOptions(), 2)
	assert.Len(t, NewSMTPProvider("h", 465, "user", "pw", "a@b.c", "").clientOptions(), 5)
}
