package email

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jhoicas/stockit-api/internal/application/ports"
)

// Verificar en tiempo de compilación que ResendMailer implementa Mailer.
var _ ports.Mailer = (*ResendMailer)(nil)

const resendEmailsPath = "/emails"

// ResendMailer adaptador que implementa Mailer usando la API REST de Resend.
type ResendMailer struct {
	apiKey string
	client *resty.Client
}

// NewResendMailer construye el adaptador.
// Si apiKey está vacío los envíos devuelven error descriptivo en lugar de panic.
func NewResendMailer(apiKey, baseURL string, timeout time.Duration) *ResendMailer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(apiKey)
	return &ResendMailer{apiKey: apiKey, client: client}
}

// ── Estructuras internas del protocolo Resend ─────────────────────────────────

type resendAttachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"` // base64
}

type resendRequest struct {
	From        string             `json:"from"`
	To          []string           `json:"to"`
	CC          []string           `json:"cc,omitempty"`
	ReplyTo     string             `json:"reply_to,omitempty"`
	Subject     string             `json:"subject"`
	HTML        string             `json:"html,omitempty"`
	Text        string             `json:"text,omitempty"`
	Attachments []resendAttachment `json:"attachments,omitempty"`
}

type resendResponse struct {
	ID string `json:"id"`
}

type resendError struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}

// Name identifica al proveedor.
func (m *ResendMailer) Name() string { return "resend" }

// Send envía el correo vía POST /emails.
func (m *ResendMailer) Send(ctx context.Context, msg ports.OutgoingEmail) (string, error) {
	if m.apiKey == "" {
		return "", fmt.Errorf("resend: RESEND_API_KEY no configurado")
	}

	payload := resendRequest{
		From:    msg.From,
		To:      msg.To,
		CC:      msg.CC,
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	}
	for _, a := range msg.Attachments {
		raw, err := os.ReadFile(a.Path)
		if err != nil {
			return "", fmt.Errorf("resend: leer adjunto %s: %w", a.Filename, err)
		}
		payload.Attachments = append(payload.Attachments, resendAttachment{
			Filename: a.Filename,
			Content:  base64.StdEncoding.EncodeToString(raw),
		})
	}

	var out resendResponse
	var apiErr resendError
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&out).
		SetError(&apiErr).
		Post(resendEmailsPath)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("resend: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("resend: llamada HTTP fallida: %w", err)
	}
	if resp.IsError() {
		if apiErr.Message != "" {
			return "", fmt.Errorf("resend: error %d (%s): %s", resp.StatusCode(), apiErr.Name, apiErr.Message)
		}
		return "", fmt.Errorf("resend: HTTP %d: %s", resp.StatusCode(), resp.String())
	}
	return out.ID, nil
}
