package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stockit-api/internal/application/dto"
)

// SweepSpec frecuencia de limpieza de tokens de recuperación vencidos.
const SweepSpec = "@hourly"

const jobTimeout = 5 * time.Minute

// WeeklyReporter envía el reporte semanal.
type WeeklyReporter interface {
	SendWeekly(ctx context.Context, automatic bool) (*dto.WeeklyReportResponse, error)
}

// TokenSweeper limpia tokens de recuperación vencidos.
type TokenSweeper interface {
	SweepExpiredTokens(ctx context.Context) (int64, error)
}

// Scheduler tareas periódicas de la API sobre robfig/cron.
type Scheduler struct {
	cron    *cron.Cron
	reports WeeklyReporter
	sweeper TokenSweeper
	log     zerolog.Logger
}

// New programa el reporte semanal con reportSpec (expresión cron de 5 campos) y la limpieza horaria.
// loc es la zona en la que se evalúa la expresión.
func New(reportSpec string, loc *time.Location, reports WeeklyReporter, sweeper TokenSweeper, log zerolog.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(loc), cron.WithChain(cron.Recover(cronLogger{log}))),
		reports: reports,
		sweeper: sweeper,
		log:     log,
	}
	if _, err := s.cron.AddFunc(reportSpec, s.RunWeekly); err != nil {
		return nil, fmt.Errorf("scheduler: expresión REPORT_CRON inválida %q: %w", reportSpec, err)
	}
	if _, err := s.cron.AddFunc(SweepSpec, s.RunSweep); err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	return s, nil
}

// Start arranca el planificador en su propia goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler iniciado")
}

// Stop deja de programar trabajos y espera a los que están en curso o a que ctx expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunWeekly envía el reporte semanal marcando los registros como enviados automáticamente.
func (s *Scheduler) RunWeekly() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	res, err := s.reports.SendWeekly(ctx, true)
	if err != nil {
		s.log.Error().Err(err).Msg("reporte semanal programado falló")
		return
	}
	s.log.Info().Int("registros", res.Records).Int("enviados", res.TotalSent).Str("estrategia", res.Strategy).Msg("reporte semanal programado enviado")
}

// RunSweep limpia los tokens de recuperación vencidos.
func (s *Scheduler) RunSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.sweeper.SweepExpiredTokens(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("limpieza de tokens falló")
		return
	}
	if n > 0 {
		s.log.Info().Int64("tokens", n).Msg("tokens de recuperación vencidos eliminados")
	}
}

// cronLogger adapta zerolog a cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
