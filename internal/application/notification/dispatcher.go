package notification

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"github.com/jhoicas/stockit-api/internal/application/ports"
	"github.com/jhoicas/stockit-api/internal/domain"
)

// Estrategias de envío.
const (
	StrategyDirect     = "direct"
	StrategyIndividual = "individual"
)

// Sender identidad de quien origina la notificación; su correo se usa como Reply-To.
type Sender struct {
	Name  string
	Email string
}

// Request notificación a enviar. AttachmentPath, si existe, se borra al terminar el envío.
type Request struct {
	Principal      string
	CC             []string
	Subject        string
	Body           string
	AttachmentPath string
	AttachmentName string // nombre visible; por defecto el del archivo
	Sender         *Sender
}

// RecipientResult resultado por destinatario.
type RecipientResult struct {
	Email        string `json:"email"`
	Success      bool   `json:"success"`
	ID           string `json:"id,omitempty"`
	Error        string `json:"error,omitempty"`
	PublicDomain bool   `json:"isPublicDomain"`
}

// Result resumen de un envío.
type Result struct {
	Success     bool              `json:"success"`
	Strategy    string            `json:"strategy"`
	ID          string            `json:"id,omitempty"`
	Results     []RecipientResult `json:"results,omitempty"`
	TotalSent   int               `json:"totalSent"`
	TotalFailed int               `json:"totalFailed"`
	Recipients  []string          `json:"recipients"`
	NonPublic   []string          `json:"nonPublicRecipients,omitempty"`
}

// Config parámetros del dispatcher.
type Config struct {
	DomainVerified bool
	From           string
	SandboxFrom    string
	ReplyTo        string
	SendTimeout    time.Duration
}

// Recorder métricas de envíos.
type Recorder interface {
	EmailAttempt(provider, strategy, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) EmailAttempt(string, string, string) {}

// Dispatcher elige la estrategia de envío y entrega a través del Mailer.
type Dispatcher struct {
	mailer   ports.Mailer
	cfg      Config
	log      zerolog.Logger
	recorder Recorder
}

// NewDispatcher construye el dispatcher. recorder puede ser nil.
func NewDispatcher(mailer ports.Mailer, cfg Config, log zerolog.Logger, recorder Recorder) *Dispatcher {
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 30 * time.Second
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Dispatcher{mailer: mailer, cfg: cfg, log: log, recorder: recorder}
}

// Strategy estrategia inicial según la verificación del dominio.
func (d *Dispatcher) Strategy() string {
	if d.cfg.DomainVerified {
		return StrategyDirect
	}
	return StrategyIndividual
}

// DomainVerified indica si se envía desde el dominio propio.
func (d *Dispatcher) DomainVerified() bool {
	return d.cfg.DomainVerified
}

// Provider nombre del proveedor configurado.
func (d *Dispatcher) Provider() string {
	return d.mailer.Name()
}

// Send entrega la notificación. Con dominio verificado hace un único envío con copia y,
// si falla, recurre a envíos individuales. En modo sandbox envía a cada destinatario
// en paralelo y espera a todos. Retorna error si ningún destinatario recibió el correo.
func (d *Dispatcher) Send(ctx context.Context, req Request) (*Result, error) {
	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			if req.AttachmentPath == "" {
				return
			}
			if err := os.Remove(req.AttachmentPath); err != nil && !errors.Is(err, os.ErrNotExist) {
				d.log.Warn().Err(err).Str("path", req.AttachmentPath).Msg("no se pudo eliminar archivo temporal")
			}
		})
	}
	defer cleanup()

	principal := strings.TrimSpace(req.Principal)
	cc := dedupe(principal, req.CC)
	if principal == "" {
		if len(cc) == 0 {
			return nil, domain.Invalid("no hay destinatarios")
		}
		principal, cc = cc[0], cc[1:]
	}

	msg := d.baseMessage(req)

	if d.cfg.DomainVerified {
		res, err := d.sendDirect(ctx, msg, principal, cc)
		if err == nil {
			return res, nil
		}
		d.log.Warn().Err(err).Str("subject", req.Subject).Msg("envío con copia falló, usando envíos individuales")
	}

	res := d.sendIndividual(ctx, msg, append([]string{principal}, cc...))
	if !res.Success {
		return res, fmt.Errorf("%w: ningún destinatario recibió el correo", domain.ErrExternal)
	}
	return res, nil
}

func (d *Dispatcher) baseMessage(req Request) ports.OutgoingEmail {
	from := d.cfg.From
	if !d.cfg.DomainVerified {
		from = d.cfg.SandboxFrom
	}
	replyTo := d.cfg.ReplyTo
	if req.Sender != nil && req.Sender.Email != "" {
		replyTo = req.Sender.Email
	}
	msg := ports.OutgoingEmail{
		From:    from,
		ReplyTo: replyTo,
		Subject: req.Subject,
		HTML:    RenderHTML(req.Body),
		Text:    PlainText(req.Body),
	}
	if req.AttachmentPath != "" {
		if _, err := os.Stat(req.AttachmentPath); err == nil {
			name := req.AttachmentName
			if name == "" {
				name = filepath.Base(req.AttachmentPath)
			}
			msg.Attachments = []ports.Attachment{{Filename: name, Path: req.AttachmentPath}}
		} else {
			d.log.Warn().Err(err).Str("path", req.AttachmentPath).Msg("adjunto no disponible, se envía sin archivo")
		}
	}
	return msg
}

func (d *Dispatcher) sendDirect(ctx context.Context, msg ports.OutgoingEmail, principal string, cc []string) (*Result, error) {
	msg.To = []string{principal}
	msg.CC = cc

	sendCtx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout)
	defer cancel()

	id, err := d.mailer.Send(sendCtx, msg)
	if err != nil {
		d.recorder.EmailAttempt(d.mailer.Name(), StrategyDirect, "error")
		return nil, err
	}
	d.recorder.EmailAttempt(d.mailer.Name(), StrategyDirect, "ok")

	recipients := append([]string{principal}, cc...)
	d.log.Info().Str("id", id).Int("recipients", len(recipients)).Str("subject", msg.Subject).Msg("correo enviado con copia")
	return &Result{
		Success:    true,
		Strategy:   StrategyDirect,
		ID:         id,
		TotalSent:  len(recipients),
		Recipients: recipients,
	}, nil
}

func (d *Dispatcher) sendIndividual(ctx context.Context, msg ports.OutgoingEmail, recipients []string) *Result {
	res := &Result{Strategy: StrategyIndividual, Recipients: recipients}

	if !d.cfg.DomainVerified {
		for _, r := range recipients {
			if !IsPublicDomain(r) {
				res.NonPublic = append(res.NonPublic, r)
			}
		}
		if len(res.NonPublic) > 0 {
			d.log.Warn().Strs("recipients", res.NonPublic).Msg("dominio no verificado: estos destinatarios pueden no recibir el correo")
		}
	}

	type indexed struct {
		idx int
		RecipientResult
	}

	p := pool.NewWithResults[indexed]()
	for i, email := range recipients {
		p.Go(func() indexed {
			m := msg
			m.To = []string{email}
			m.CC = nil

			sendCtx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout)
			defer cancel()

			rr := RecipientResult{Email: email, PublicDomain: IsPublicDomain(email)}
			id, err := d.mailer.Send(sendCtx, m)
			if err != nil {
				rr.Error = err.Error()
				d.recorder.EmailAttempt(d.mailer.Name(), StrategyIndividual, "error")
				d.log.Error().Err(err).Str("to", email).Msg("envío individual falló")
			} else {
				rr.Success = true
				rr.ID = id
				d.recorder.EmailAttempt(d.mailer.Name(), StrategyIndividual, "ok")
			}
			return indexed{idx: i, RecipientResult: rr}
		})
	}
	out := p.Wait()
	sort.Slice(out, func(a, b int) bool { return out[a].idx < out[b].idx })

	for _, r := range out {
		res.Results = append(res.Results, r.RecipientResult)
		if r.Success {
			res.TotalSent++
		} else {
			res.TotalFailed++
		}
	}
	res.Success = res.TotalSent > 0

	d.log.Info().
		Int("sent", res.TotalSent).
		Int("failed", res.TotalFailed).
		Str("subject", msg.Subject).
		Msg("envíos individuales completados")
	return res
}

// dedupe limpia la lista de copias: sin vacíos, sin repetidos y sin el principal.
func dedupe(principal string, cc []string) []string {
	seen := map[string]struct{}{strings.ToLower(principal): {}}
	out := make([]string, 0, len(cc))
	for _, c := range cc {
		c = strings.TrimSpace(c)
		key := strings.ToLower(c)
		if c == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
