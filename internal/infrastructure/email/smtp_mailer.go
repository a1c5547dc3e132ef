package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/stockit-api/internal/application/ports"
)

var _ ports.Mailer = (*SMTPMailer)(nil)

// SMTPMailer adaptador SMTP sobre gomail. Útil con un relay propio o Mailpit en desarrollo.
type SMTPMailer struct {
	dialer *gomail.Dialer
}

// NewSMTPMailer construye el adaptador. Sin usuario no se autentica.
func NewSMTPMailer(host string, port int, user, pass string) *SMTPMailer {
	return &SMTPMailer{dialer: gomail.NewDialer(host, port, user, pass)}
}

// Name identifica al proveedor.
func (m *SMTPMailer) Name() string { return "smtp" }

// Send arma el mensaje MIME y lo entrega. gomail no acepta contexto: se respeta
// la cancelación previa al envío y el resultado se descarta si el contexto vence antes.
func (m *SMTPMailer) Send(ctx context.Context, msg ports.OutgoingEmail) (string, error) {
	if m.dialer.Host == "" {
		return "", fmt.Errorf("smtp: SMTP_HOST no configurado")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	gm := buildMessage(msg)

	done := make(chan error, 1)
	go func() { done <- m.dialer.DialAndSend(gm) }()

	select {
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("smtp: enviar: %w", err)
		}
		return "", nil
	case <-ctx.Done():
		return "", fmt.Errorf("smtp: timeout o cancelación: %w", ctx.Err())
	}
}

func buildMessage(msg ports.OutgoingEmail) *gomail.Message {
	gm := gomail.NewMessage()
	gm.SetHeader("From", msg.From)
	gm.SetHeader("To", msg.To...)
	if len(msg.CC) > 0 {
		gm.SetHeader("Cc", msg.CC...)
	}
	if msg.ReplyTo != "" {
		gm.SetHeader("Reply-To", msg.ReplyTo)
	}
	gm.SetHeader("Subject", msg.Subject)
	if msg.Text != "" {
		gm.SetBody("text/plain", msg.Text)
		if msg.HTML != "" {
			gm.AddAlternative("text/html", msg.HTML)
		}
	} else {
		gm.SetBody("text/html", msg.HTML)
	}
	for _, a := range msg.Attachments {
		gm.Attach(a.Path, gomail.Rename(a.Filename))
	}
	return gm
}
