package email

import (
	"fmt"
	"time"

	"github.com/jhoicas/stockit-api/internal/application/ports"
	"github.com/jhoicas/stockit-api/pkg/config"
)

// NewMailer elige el adaptador según EMAIL_PROVIDER.
func NewMailer(cfg config.EmailConfig, timeout time.Duration) (ports.Mailer, error) {
	switch cfg.Provider {
	case config.EmailProviderResend, "":
		return NewResendMailer(cfg.ResendAPIKey, cfg.ResendBaseURL, timeout), nil
	case config.EmailProviderSMTP:
		return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass), nil
	default:
		return nil, fmt.Errorf("email: proveedor desconocido %q", cfg.Provider)
	}
}
