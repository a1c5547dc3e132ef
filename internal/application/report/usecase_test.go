package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockit-api/internal/application/dto"
	"github.com/jhoicas/stockit-api/internal/application/notification"
	"github.com/jhoicas/stockit-api/internal/application/ports"
	"github.com/jhoicas/stockit-api/internal/application/report"
	"github.com/jhoicas/stockit-api/internal/domain"
	"github.com/jhoicas/stockit-api/internal/domain/entity"
)

// ─── Mocks ────────────────────────────────────────────────────────────────────

type mockUsage struct{ mock.Mock }

func (m *mockUsage) Create(ctx context.Context, rec *entity.UsageRecord) error {
	return m.Called(ctx, rec).Error(0)
}
func (m *mockUsage) GetByID(ctx context.Context, id string) (*entity.UsageRecord, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*entity.UsageRecord)
	return rec, args.Error(1)
}
func (m *mockUsage) Delete(ctx context.Context, id string) error { return m.Called(ctx, id).Error(0) }
func (m *mockUsage) ListAll(ctx context.Context) ([]*entity.UsageRecord, error) {
	args := m.Called(ctx)
	recs, _ := args.Get(0).([]*entity.UsageRecord)
	return recs, args.Error(1)
}
func (m *mockUsage) ListByOwner(ctx context.Context, owner string) ([]*entity.UsageRecord, error) {
	args := m.Called(ctx, owner)
	recs, _ := args.Get(0).([]*entity.UsageRecord)
	return recs, args.Error(1)
}
func (m *mockUsage) StatsByOwner(ctx context.Context, owner string) ([]*entity.UsageStat, error) {
	args := m.Called(ctx, owner)
	st, _ := args.Get(0).([]*entity.UsageStat)
	return st, args.Error(1)
}
func (m *mockUsage) ListBetween(ctx context.Context, from, to time.Time) ([]*entity.UsageRecord, error) {
	args := m.Called(ctx, from, to)
	recs, _ := args.Get(0).([]*entity.UsageRecord)
	return recs, args.Error(1)
}
func (m *mockUsage) MarkSentAutomatic(ctx context.Context, ids []string) error {
	return m.Called(ctx, ids).Error(0)
}
func (m *mockUsage) ClaimUnsent(ctx context.Context, owner, ctype, batch string, now, stale time.Time) ([]*entity.UsageRecord, error) {
	args := m.Called(ctx, owner, ctype, batch, now, stale)
	recs, _ := args.Get(0).([]*entity.UsageRecord)
	return recs, args.Error(1)
}
func (m *mockUsage) MarkBatchSent(ctx context.Context, batch string, at time.Time) (int64, error) {
	args := m.Called(ctx, batch, at)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockUsage) ReleaseBatch(ctx context.Context, batch string) error {
	return m.Called(ctx, batch).Error(0)
}

type mockDispatcher struct{ mock.Mock }

func (m *mockDispatcher) Send(ctx context.Context, req notification.Request) (*notification.Result, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*notification.Result)
	return res, args.Error(1)
}
func (m *mockDispatcher) DomainVerified() bool { return false }
func (m *mockDispatcher) Provider() string     { return "resend" }

type fakeGen struct{ err error }

func (g fakeGen) Format() string { return ports.FormatCSV }
func (g fakeGen) Generate(recs []*entity.UsageRecord, tag string) (*ports.ExportArtifact, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &ports.ExportArtifact{Path: "/tmp/stockit-1.csv", Name: "Reporte_" + tag + ".csv", Format: ports.FormatCSV, Size: 2048}, nil
}

type fakeGens struct{ gen fakeGen }

func (f fakeGens) Get(format string) (ports.ReportGenerator, error) {
	if format != "" && format != ports.FormatCSV {
		return nil, errors.New("formato de reporte no soportado: " + format)
	}
	return f.gen, nil
}
func (f fakeGens) Default() string { return ports.FormatCSV }

type usersByName map[string]*entity.User

func (u usersByName) FindByName(_ context.Context, name string) (*entity.User, error) {
	return u[name], nil
}

// miércoles 12/03/2025 10:00 UTC
var fixedNow = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

func newUC(repo *mockUsage, disp *mockDispatcher, gen fakeGen, cfg report.Config) *report.UseCase {
	users := usersByName{"ana": {Name: "ana", Email: "ana@gmail.com"}}
	return report.NewUseCase(repo, users, fakeGens{gen}, disp, cfg, zerolog.Nop()).
		WithClock(func() time.Time { return fixedNow })
}

var okCfg = report.Config{Principal: "bodega@empresa.cl", CC: []string{"jefe@gmail.com"}, Location: time.UTC}

// ─── WeekStart ────────────────────────────────────────────────────────────────

func TestWeekStart(t *testing.T) {
	loc := time.UTC
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, loc), report.WeekStart(fixedNow, loc))
	// domingo pertenece a la semana que empezó el lunes anterior
	sunday := time.Date(2025, 3, 16, 23, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, loc), report.WeekStart(sunday, loc))
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)
	assert.Equal(t, monday, report.WeekStart(monday, loc))
}

func TestWeekStart_EnZona(t *testing.T) {
	loc := time.FixedZone("CLT", -3*3600)
	// lunes 02:00 UTC es domingo 23:00 en la zona
	at := time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, loc), report.WeekStart(at, loc))
}

// ─── Semanal ──────────────────────────────────────────────────────────────────

func TestSendWeekly_SinDatos(t *testing.T) {
	repo, disp := &mockUsage{}, &mockDispatcher{}
	repo.On("ListBetween", mock.Anything, mock.Anything, fixedNow).Return([]*entity.UsageRecord{}, nil)

	resp, err := newUC(repo, disp, fakeGen{}, okCfg).SendWeekly(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Records)
	disp.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSendWeekly_Automatico_MarcaRegistros(t *testing.T) {
	repo, disp := &mockUsage{}, &mockDispatcher{}
	recs := []*entity.UsageRecord{{ID: "u1"}, {ID: "u2"}}
	repo.On("ListBetween", mock.Anything, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), fixedNow).Return(recs, nil)
	repo.On("MarkSentAutomatic", mock.Anything, []string{"u1", "u2"}).Return(nil)
	disp.On("Send", mock.Anything, mock.MatchedBy(func(r notification.Request) bool {
		return r.Subject == "Reporte Semanal - StockIt (10/03/2025 - 12/03/2025)" &&
			r.Principal == "bodega@empresa.cl" && r.AttachmentPath == "/tmp/stockit-1.csv" &&
			r.AttachmentName == "Reporte_.csv"
	})).Return(&notification.Result{Success: true, Strategy: notification.StrategyIndividual, TotalSent: 2}, nil)

	resp, err := newUC(repo, disp, fakeGen{}, okCfg).SendWeekly(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Records)
	assert.Equal(t, 2, resp.Recipients.Total)
	assert.Equal(t, notification.StrategyIndividual, resp.Strategy)
	repo.AssertExpectations(t)
	disp.AssertExpectations(t)
}

func TestSendWeekly_Manual_NoMarca(t *testing.T) {
	repo, disp := &mockUsage{}, &mockDispatcher{}
	repo.On("ListBetween", mock.Anything, mock.Anything, mock.Anything).Return([]*entity.UsageRecord{{ID: "u1"}}, nil)
	disp.On("Send", mock.Anything, mock.Anything).Return(&notification.Result{Success: true}, nil)

	_, err := newUC(repo, disp, fakeGen{}, okCfg).SendWeekly(context.Background(), false)
	require.NoError(t, err)
	repo.AssertNotCalled(t, "MarkSentAutomatic", mock.Anything, mock.Anything)
}

func TestSendWeekly_PrincipalInvalido(t *testing.T) {
	repo, disp := &mockUsage{}, &mockDispatcher{}
	cfg := okCfg
	cfg.Principal = "no-es-correo"

	_, err := newUC(repo, disp, fakeGen{}, cfg).SendWeekly(context.Background(), false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	repo.AssertNotCalled(t, "ListBetween", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendWeekly_CopiaInvalida(t *testing.T) {
	cfg := okCfg
	cfg.CC = []string{"ok@gmail.com", "mal@"}
	_, err := newUC(&mockUsage{}, &mockDispatcher{}, fakeGen{}, cfg).SendWeekly(context.Background(), false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─── Prueba y configuración ───────────────────────────────────────────────────

func TestSendTest_SinDatos(t *testing.T) {
	repo, disp := &mockUsage{}, &mockDispatcher{}
	repo.On("ListBetween", mock.Anything, mock.Anything, mock.Anything).Return([]*entity.UsageRecord{}, nil)
	disp.On("Send", mock.Anything, mock.MatchedBy(func(r notification.Request) bool {
		return r.Subject == "Prueba StockIt - Sin datos" && r.AttachmentPath == ""
	})).Return(&notification.Result{Success: true}, nil)

	resp, err := newUC(repo, disp, fakeGen{}, okCfg).SendTest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Correo de prueba enviado", resp.Message)
	disp.AssertExpectations(t)
}

func TestTestConfig(t *testing.T) {
	cfg := okCfg
	cfg.CC = []string{"ok@gmail.com", "mal@"}
	out := newUC(&mockUsage{}, &mockDispatcher{}, fakeGen{}, cfg).TestConfig()

	assert.Equal(t, 3, out.Config.TotalRecipients)
	assert.Equal(t, "resend", out.Config.Provider)
	assert.True(t, out.Validation.Principal)
	require.Len(t, out.Validation.CC, 2)
	assert.True(t, out.Validation.CC[0].Valid)
	assert.False(t, out.Validation.CC[1].Valid)
}

// ─── Personal ─────────────────────────────────────────────────────────────────

func personalRecs() []*entity.UsageRecord {
	return []*entity.UsageRecord{
		{ID: "u1", Code: "A1", Owner: "ana", Date: fixedNow.Add(-time.Hour), ConsumptionType: entity.ConsumptionFacturable},
		{ID: "u2", Code: "A2", Owner: "ana", Date: fixedNow.Add(-2 * time.Hour), ConsumptionType: entity.ConsumptionFacturable},
	}
}

func TestSendPersonal_OtroUsuario_Forbidden(t *testing.T) {
	_, err := newUC(&mockUsage{}, &mockDispatcher{}, fakeGen{}, okCfg).
		SendPersonal(context.Background(), "beto", dto.PersonalReportRequest{Owner: "ana"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSendPersonal_FormatoNoSoportado(t *testing.T) {
	_, err := newUC(&mockUsage{}, &mockDispatcher{}, fakeGen{}, okCfg).
		SendPersonal(context.Background(), "ana", dto.PersonalReportRequest{Owner: "ana", Format: "docx"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSendPersonal_SinRegistros(t *testing.T) {
	repo := &mockUsage{}
	repo.On("ClaimUnsent", mock.Anything, "ana", "Consumo", mock.Anything, fixedNow, fixedNow.Add(-15*time.Minute)).
		Return([]*entity.UsageRecord{}, nil)

	resp, err := newUC(repo, &mockDispatcher{}, fakeGen{}, okCfg).
		SendPersonal(context.Background(), "ana", dto.PersonalReportRequest{Owner: "ana", ConsumptionType: "Consumo"})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Records)
	assert.Contains(t, resp.Message, `"Consumo"`)
	repo.AssertExpectations(t)
}

func TestSendPersonal_Exito_MarcaLote(t *testing.T) {
	repo, disp := &mockUsage{}, &mockDispatcher{}
	var batch string
	repo.On("ClaimUnsent", mock.Anything, "ana", "Facturable", mock.Anything, fixedNow, mock.Anything).
		Run(func(args mock.Arguments) { batch = args.String(3) }).
		Return(personalRecs(), nil)
	repo.On("MarkBatchSent", mock.Anything, mock.Anything, fixedNow).Return(int64(2), nil)
	disp.On("Send", mock.Anything, mock.MatchedBy(func(r notification.Request) bool {
		return r.Subject == "Solicitud Traspaso a FPM" &&
			r.Sender != nil && r.Sender.Email == "ana@gmail.com" &&
			r.Principal == "bodega@empresa.cl"
	})).Return(&notification.Result{Success: true}, nil)

	resp, err := newUC(repo, disp, fakeGen{}, okCfg).
		SendPersonal(context.Background(), "ana", dto.PersonalReportRequest{Owner: "ana", ConsumptionType: "Facturable"})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Records)
	assert.True(t, resp.NewRecords)
	assert.Equal(t, "Facturable", resp.ConsumptionType)
	require.NotNil(t, resp.Artifact)
	assert.Equal(t, "2.00 KB", resp.Artifact.Size)
	assert.Equal(t, "CSV", resp.Artifact.Type)

	require.NotEmpty(t, batch)
	repo.AssertCalled(t, "MarkBatchSent", mock.Anything, batch, fixedNow)
	repo.AssertNotCalled(t, "ReleaseBatch", mock.Anything, mock.Anything)
}

func TestSendPersonal_FalloEnvio_LiberaLote(t *testing.T) {
	repo, disp := &mockUsage{}, &mockDispatcher{}
	repo.On("ClaimUnsent", mock.Anything, "ana", "", mock.Anything, fixedNow, mock.Anything).Return(personalRecs(), nil)
	repo.On("ReleaseBatch", mock.Anything, mock.Anything).Return(nil)
	disp.On("Send", mock.Anything, mock.Anything).Return(nil, domain.ErrExternal)

	_, err := newUC(repo, disp, fakeGen{}, okCfg).
		SendPersonal(context.Background(), "ana", dto.PersonalReportRequest{Owner: "ana"})
	assert.ErrorIs(t, err, domain.ErrExternal)
	repo.AssertCalled(t, "ReleaseBatch", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "MarkBatchSent", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendPersonal_FalloGeneracion_LiberaLote(t *testing.T) {
	repo, disp := &mockUsage{}, &mockDispatcher{}
	repo.On("ClaimUnsent", mock.Anything, "ana", "", mock.Anything, fixedNow, mock.Anything).Return(personalRecs(), nil)
	repo.On("ReleaseBatch", mock.Anything, mock.Anything).Return(nil)

	_, err := newUC(repo, disp, fakeGen{err: errors.New("disco lleno")}, okCfg).
		SendPersonal(context.Background(), "ana", dto.PersonalReportRequest{Owner: "ana"})
	require.Error(t, err)
	repo.AssertCalled(t, "ReleaseBatch", mock.Anything, mock.Anything)
	disp.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSendPersonal_AsuntoConTipo(t *testing.T) {
	repo, disp := &mockUsage{}, &mockDispatcher{}
	repo.On("ClaimUnsent", mock.Anything, "ana", "Consumo", mock.Anything, fixedNow, mock.Anything).Return(personalRecs(), nil)
	repo.On("MarkBatchSent", mock.Anything, mock.Anything, fixedNow).Return(int64(2), nil)
	disp.On("Send", mock.Anything, mock.MatchedBy(func(r notification.Request) bool {
		return r.Subject == "Solicitud de - Consumo"
	})).Return(&notification.Result{Success: true}, nil)

	_, err := newUC(repo, disp, fakeGen{}, okCfg).
		SendPersonal(context.Background(), "ana", dto.PersonalReportRequest{Owner: "ana", ConsumptionType: "Consumo"})
	require.NoError(t, err)
	disp.AssertExpectations(t)
}

// ─── Métricas ─────────────────────────────────────────────────────────────────

type tallyRecorder struct{ got []string }

func (r *tallyRecorder) Report(kind, outcome string) { r.got = append(r.got, kind+":"+outcome) }

func TestRecorder_CuentaCadaEnvio(t *testing.T) {
	repo, disp := &mockUsage{}, &mockDispatcher{}
	repo.On("ListBetween", mock.Anything, mock.Anything, mock.Anything).Return([]*entity.UsageRecord{{ID: "u1"}}, nil).Twice()
	repo.On("ListBetween", mock.Anything, mock.Anything, mock.Anything).Return([]*entity.UsageRecord{}, nil)
	repo.On("MarkSentAutomatic", mock.Anything, []string{"u1"}).Return(nil)
	repo.On("ClaimUnsent", mock.Anything, "ana", "", mock.Anything, fixedNow, mock.Anything).Return(personalRecs(), nil)
	repo.On("ReleaseBatch", mock.Anything, mock.Anything).Return(nil)
	disp.On("Send", mock.Anything, mock.MatchedBy(func(r notification.Request) bool { return r.AttachmentPath == "" || r.Sender == nil })).
		Return(&notification.Result{Success: true, TotalSent: 1}, nil)
	disp.On("Send", mock.Anything, mock.Anything).Return(nil, domain.ErrExternal)

	rec := &tallyRecorder{}
	uc := newUC(repo, disp, fakeGen{}, okCfg).WithRecorder(rec)
	ctx := context.Background()

	_, err := uc.SendWeekly(ctx, true)
	require.NoError(t, err)
	_, err = uc.SendTest(ctx)
	require.NoError(t, err)
	_, err = uc.SendWeekly(ctx, false)
	require.NoError(t, err)
	_, err = uc.SendPersonal(ctx, "beto", dto.PersonalReportRequest{Owner: "ana"})
	require.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.SendPersonal(ctx, "ana", dto.PersonalReportRequest{Owner: "ana"})
	require.ErrorIs(t, err, domain.ErrExternal)

	assert.Equal(t, []string{
		"scheduled:ok",
		"test:ok",
		"weekly:empty",
		"personal:rejected",
		"personal:error",
	}, rec.got)
}
