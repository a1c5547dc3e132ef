package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stockit-api/internal/application/dto"
	"github.com/jhoicas/stockit-api/internal/application/notification"
	"github.com/jhoicas/stockit-api/internal/application/ports"
	"github.com/jhoicas/stockit-api/internal/domain"
	"github.com/jhoicas/stockit-api/internal/domain/entity"
	"github.com/jhoicas/stockit-api/internal/domain/repository"
)

// claimTTL antigüedad a partir de la cual una reserva de envío se considera abandonada.
const claimTTL = 15 * time.Minute

// Generators resuelve el generador de un formato (vacío = por defecto).
type Generators interface {
	Get(format string) (ports.ReportGenerator, error)
	Default() string
}

// Dispatcher envía correos y expone el modo configurado.
type Dispatcher interface {
	Send(ctx context.Context, req notification.Request) (*notification.Result, error)
	DomainVerified() bool
	Provider() string
}

// UserLookup resuelve el correo del usuario que pide el reporte.
type UserLookup interface {
	FindByName(ctx context.Context, name string) (*entity.User, error)
}

// Recorder cuenta reportes por tipo y resultado.
type Recorder interface {
	Report(kind, outcome string)
}

// Tipos de reporte usados como etiqueta.
const (
	KindWeekly    = "weekly"
	KindScheduled = "scheduled"
	KindTest      = "test"
	KindPersonal  = "personal"
)

// Config destinatarios y zona horaria de los reportes.
type Config struct {
	Principal string
	CC        []string
	Location  *time.Location
}

// UseCase reportes semanal, de prueba y personal.
type UseCase struct {
	usageRepo  repository.UsageRepository
	users      UserLookup
	gens       Generators
	dispatcher Dispatcher
	cfg        Config
	recorder   Recorder
	log        zerolog.Logger
	now        func() time.Time
}

// NewUseCase construye el caso de uso de reportes.
func NewUseCase(
	usageRepo repository.UsageRepository,
	users UserLookup,
	gens Generators,
	dispatcher Dispatcher,
	cfg Config,
	log zerolog.Logger,
) *UseCase {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &UseCase{
		usageRepo:  usageRepo,
		users:      users,
		gens:       gens,
		dispatcher: dispatcher,
		cfg:        cfg,
		log:        log,
		now:        time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// WithRecorder registra el resultado de cada envío.
func (uc *UseCase) WithRecorder(r Recorder) *UseCase {
	uc.recorder = r
	return uc
}

// record ok, empty (nada que enviar), rejected (petición inválida) o error.
func (uc *UseCase) record(kind string, err error, empty bool) {
	if uc.recorder == nil {
		return
	}
	outcome := "ok"
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrForbidden):
		outcome = "rejected"
	case err != nil:
		outcome = "error"
	case empty:
		outcome = "empty"
	}
	uc.recorder.Report(kind, outcome)
}

// WeekStart lunes 00:00 de la semana de t en loc.
func WeekStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, loc)
}

func (uc *UseCase) recipients() dto.Recipients {
	return dto.Recipients{Principal: uc.cfg.Principal, CC: uc.cfg.CC}
}

// ValidateRecipients comprueba la forma de los destinatarios configurados.
func (uc *UseCase) ValidateRecipients() error {
	if !notification.ValidEmail(uc.cfg.Principal) {
		return domain.Invalid(fmt.Sprintf("email principal inválido: %q", uc.cfg.Principal))
	}
	for _, cc := range uc.cfg.CC {
		if !notification.ValidEmail(cc) {
			return domain.Invalid(fmt.Sprintf("email de copia inválido: %q", cc))
		}
	}
	return nil
}

// SendWeekly envía los usos desde el lunes 00:00 hasta ahora. automatic marca los
// registros como enviados por el programador.
func (uc *UseCase) SendWeekly(ctx context.Context, automatic bool) (*dto.WeeklyReportResponse, error) {
	kind := KindWeekly
	if automatic {
		kind = KindScheduled
	}
	res, err := uc.sendWeekly(ctx, automatic)
	uc.record(kind, err, res != nil && res.Records == 0)
	return res, err
}

func (uc *UseCase) sendWeekly(ctx context.Context, automatic bool) (*dto.WeeklyReportResponse, error) {
	if err := uc.ValidateRecipients(); err != nil {
		return nil, err
	}
	now := uc.now()
	from := WeekStart(now, uc.cfg.Location)

	recs, err := uc.usageRepo.ListBetween(ctx, from, now)
	if err != nil {
		return nil, err
	}
	rcpt := uc.recipients()
	if len(recs) == 0 {
		return &dto.WeeklyReportResponse{
			Message:    "No hay datos para reportar en el período seleccionado",
			Recipients: rcpt,
		}, nil
	}

	gen, err := uc.gens.Get("")
	if err != nil {
		return nil, err
	}
	artifact, err := gen.Generate(recs, "")
	if err != nil {
		return nil, fmt.Errorf("generar reporte semanal: %w", err)
	}

	desde := from.Format("02/01/2006")
	hasta := now.In(uc.cfg.Location).Format("02/01/2006")
	res, err := uc.dispatcher.Send(ctx, notification.Request{
		Principal:      rcpt.Principal,
		CC:             rcpt.CC,
		Subject:        fmt.Sprintf("Reporte Semanal - StockIt (%s - %s)", desde, hasta),
		Body:           weeklyBody(desde, hasta, len(recs), artifact.Format),
		AttachmentPath: artifact.Path,
		AttachmentName: artifact.Name,
	})
	if err != nil {
		return nil, err
	}

	if automatic {
		ids := make([]string, 0, len(recs))
		for _, r := range recs {
			ids = append(ids, r.ID)
		}
		if err := uc.usageRepo.MarkSentAutomatic(ctx, ids); err != nil {
			uc.log.Error().Err(err).Int("records", len(ids)).Msg("no se pudieron marcar los usos como enviados automáticamente")
		}
	}

	rcpt.Total = 1 + len(rcpt.CC)
	return &dto.WeeklyReportResponse{
		Message:    "Correo enviado correctamente",
		Records:    len(recs),
		Recipients: rcpt,
		TotalSent:  res.TotalSent,
		Failed:     res.TotalFailed,
		Strategy:   res.Strategy,
	}, nil
}

// SendTest envía un correo de prueba sin adjunto con el conteo de la semana.
func (uc *UseCase) SendTest(ctx context.Context) (*dto.TestEmailResponse, error) {
	res, err := uc.sendTest(ctx)
	uc.record(KindTest, err, false)
	return res, err
}

func (uc *UseCase) sendTest(ctx context.Context) (*dto.TestEmailResponse, error) {
	now := uc.now()
	recs, err := uc.usageRepo.ListBetween(ctx, WeekStart(now, uc.cfg.Location), now)
	if err != nil {
		return nil, err
	}
	subject, body := "Prueba StockIt - Sin datos", "Correo de prueba. No hay datos para el período actual."
	if len(recs) > 0 {
		subject, body = "Prueba de envío - StockIt", fmt.Sprintf("Correo de prueba con %d registros", len(recs))
	}
	rcpt := uc.recipients()
	if _, err := uc.dispatcher.Send(ctx, notification.Request{
		Principal: rcpt.Principal,
		CC:        rcpt.CC,
		Subject:   subject,
		Body:      body,
	}); err != nil {
		return nil, err
	}
	return &dto.TestEmailResponse{
		Message:    "Correo de prueba enviado",
		Records:    len(recs),
		Recipients: rcpt,
	}, nil
}

// TestConfig destinatarios configurados y su validez.
func (uc *UseCase) TestConfig() dto.TestConfigResponse {
	var out dto.TestConfigResponse
	out.Config.Principal = uc.cfg.Principal
	out.Config.CC = append([]string{}, uc.cfg.CC...)
	out.Config.TotalRecipients = 1 + len(uc.cfg.CC)
	out.Config.DomainVerified = uc.dispatcher.DomainVerified()
	out.Config.Provider = uc.dispatcher.Provider()

	out.Validation.Principal = notification.ValidEmail(uc.cfg.Principal)
	out.Validation.CC = make([]dto.EmailValidity, 0, len(uc.cfg.CC))
	for _, cc := range uc.cfg.CC {
		out.Validation.CC = append(out.Validation.CC, dto.EmailValidity{Email: cc, Valid: notification.ValidEmail(cc)})
	}
	return out
}

// SendPersonal envía los usos del usuario aún no enviados manualmente.
// Reserva las filas con un lote, envía y solo entonces las marca; si el envío falla
// libera la reserva para que sigan disponibles.
func (uc *UseCase) SendPersonal(ctx context.Context, caller string, in dto.PersonalReportRequest) (*dto.PersonalReportResponse, error) {
	res, err := uc.sendPersonal(ctx, caller, in)
	uc.record(KindPersonal, err, res != nil && !res.NewRecords)
	return res, err
}

func (uc *UseCase) sendPersonal(ctx context.Context, caller string, in dto.PersonalReportRequest) (*dto.PersonalReportResponse, error) {
	owner := strings.TrimSpace(in.Owner)
	if owner == "" {
		return nil, domain.Invalid("el usuario es requerido")
	}
	if caller != owner {
		return nil, fmt.Errorf("%w: no puedes solicitar reportes de otros usuarios", domain.ErrForbidden)
	}
	ctype := strings.TrimSpace(in.ConsumptionType)
	if ctype != "" && !entity.ValidConsumptionType(ctype) {
		return nil, domain.Invalid("tipo de consumo inválido")
	}
	gen, err := uc.gens.Get(in.Format)
	if err != nil {
		return nil, domain.Invalid(err.Error())
	}

	now := uc.now()
	batch := uuid.New().String()
	recs, err := uc.usageRepo.ClaimUnsent(ctx, owner, ctype, batch, now, now.Add(-claimTTL))
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		msg := "No tienes registros nuevos para reportar (todos ya fueron enviados)"
		if ctype != "" {
			msg = fmt.Sprintf("No tienes registros nuevos de tipo %q para reportar", ctype)
		}
		return &dto.PersonalReportResponse{Message: msg, Timestamp: now}, nil
	}

	release := func(cause error) {
		// Contexto propio: la petición pudo cancelarse y la reserva debe liberarse igual.
		rctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := uc.usageRepo.ReleaseBatch(rctx, batch); err != nil {
			uc.log.Error().Err(err).Str("batch", batch).Msg("no se pudo liberar la reserva de envío")
		}
		uc.log.Warn().Err(cause).Str("owner", owner).Str("batch", batch).Msg("reporte personal no enviado")
	}

	artifact, err := gen.Generate(recs, ctype)
	if err != nil {
		release(err)
		return nil, fmt.Errorf("generar reporte personal: %w", err)
	}
	info := &dto.ArtifactInfo{
		Name: artifact.Name,
		Size: fmt.Sprintf("%.2f KB", float64(artifact.Size)/1024),
		Type: strings.ToUpper(artifact.Format),
	}

	var sender *notification.Sender
	if uc.users != nil {
		if u, err := uc.users.FindByName(ctx, caller); err == nil && u != nil {
			sender = &notification.Sender{Name: u.Name, Email: u.Email}
		}
	}

	_, err = uc.dispatcher.Send(ctx, notification.Request{
		Principal:      uc.cfg.Principal,
		CC:             uc.cfg.CC,
		Subject:        personalSubject(ctype),
		Body:           personalBody(owner, ctype, recs, artifact.Name, now, uc.cfg.Location),
		AttachmentPath: artifact.Path,
		AttachmentName: artifact.Name,
		Sender:         sender,
	})
	if err != nil {
		release(err)
		return nil, err
	}

	marked, err := uc.usageRepo.MarkBatchSent(ctx, batch, now)
	if err != nil {
		// El correo ya salió; la reserva caduca y el próximo intento puede duplicar el envío.
		uc.log.Error().Err(err).Str("batch", batch).Msg("correo enviado pero no se pudieron marcar los usos")
		return nil, err
	}
	uc.log.Info().Str("owner", owner).Int64("marked", marked).Str("format", artifact.Format).Msg("reporte personal enviado")

	msg := fmt.Sprintf("Reporte personal enviado correctamente (%d registros nuevos)", len(recs))
	typeLabel := "Todos"
	if ctype != "" {
		msg = fmt.Sprintf("Reporte de %s enviado correctamente (%d registros nuevos)", ctype, len(recs))
		typeLabel = ctype
	}
	return &dto.PersonalReportResponse{
		Message:         msg,
		Recipient:       uc.cfg.Principal,
		Owner:           owner,
		ConsumptionType: typeLabel,
		Records:         len(recs),
		Artifact:        info,
		NewRecords:      true,
		Timestamp:       now,
	}, nil
}

func personalSubject(ctype string) string {
	switch ctype {
	case entity.ConsumptionFacturable:
		return "Solicitud Traspaso a FPM"
	case "":
		return "Solicitud de"
	default:
		return "Solicitud de - " + ctype
	}
}

func weeklyBody(desde, hasta string, n int, format string) string {
	return fmt.Sprintf(`Estimado equipo,

Adjunto encontrará el reporte semanal de uso de repuestos correspondiente al período:
Desde: %s
Hasta: %s

Total de registros: %d

El archivo %s adjunto contiene toda la información detallada organizada en columnas para fácil análisis.

Este reporte se genera automáticamente desde StockIt.

Saludos cordiales,
Sistema StockIt`, desde, hasta, n, strings.ToUpper(format))
}

func personalBody(owner, ctype string, recs []*entity.UsageRecord, fileName string, now time.Time, loc *time.Location) string {
	typeLabel := ctype
	if typeLabel == "" {
		typeLabel = "Todos los tipos"
	}
	last := recs[0].Date
	for _, r := range recs[1:] {
		if r.Date.After(last) {
			last = r.Date
		}
	}
	return fmt.Sprintf(`📊 **REPORTE PERSONAL DE USUARIO**

👤 **Usuario:** %s
📂 **Tipo de consumo:** %s
📅 **Fecha de generación:** %s

📈 **RESUMEN:**
• **Total de registros nuevos:** %d
• **Último uso registrado:** %s
• **Archivo generado:** %s

📧 Generado automáticamente desde StockIt
🔄 **Usuario solicitante:** %s`,
		owner, typeLabel, now.In(loc).Format("02-01-2006, 15:04:05"),
		len(recs), last.In(loc).Format("02-01-2006"), fileName, owner)
}
