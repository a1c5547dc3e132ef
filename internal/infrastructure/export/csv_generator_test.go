package export_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/stockit-api/internal/application/ports"
	"github.com/jhoicas/stockit-api/internal/domain/entity"
	"github.com/jhoicas/stockit-api/internal/infrastructure/export"
)

func santiago(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Santiago")
	if err != nil {
		t.Skip("zona horaria America/Santiago no disponible")
	}
	return loc
}

func sampleRecord(loc *time.Location) *entity.UsageRecord {
	return &entity.UsageRecord{
		Code:            "A1",
		Name:            "Widget",
		Client:          "Acme",
		Quantity:        3,
		ConsumptionType: entity.ConsumptionConsumo,
		Date:            time.Date(2025, 3, 14, 10, 30, 0, 0, loc),
	}
}

func TestWriteCSV_BOMEncabezadoYFila(t *testing.T) {
	loc := santiago(t)
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, []*entity.UsageRecord{sampleRecord(loc)}, loc))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\ufeff"), "debe comenzar con BOM")

	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(out, "\ufeff"), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "CODIGO;REPUESTO;CLIENTE;CANTIDAD;TIPO;FECHA", lines[0])
	assert.Equal(t, `"A1";"Widget";"Acme";"3";"Consumo";"14/03/2025"`, lines[1])
}

func TestWriteCSV_ComillasSaltosYTipoVacio(t *testing.T) {
	loc := santiago(t)
	rec := sampleRecord(loc)
	rec.Name = "  Filtro \"HEPA\"\nGrande "
	rec.Client = "Cli\r\nente"
	rec.ConsumptionType = ""

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, []*entity.UsageRecord{rec}, loc))

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(buf.String(), "\ufeff")), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"A1";"Filtro ""HEPA"" Grande";"Cli ente";"3";"N/A";"14/03/2025"`, lines[1])
}

func TestFormatDate_UsaZonaConfigurada(t *testing.T) {
	loc := santiago(t)
	// 02:00 UTC del 15/03 sigue siendo 14/03 en Santiago.
	utc := time.Date(2025, 3, 15, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, "14/03/2025", export.FormatDate(utc, loc))
}

func TestFileName(t *testing.T) {
	at := time.Date(2025, 1, 6, 8, 5, 9, 0, time.UTC)
	assert.Equal(t, "Reporte_Completo_2025-01-06_08-05-09.csv", export.FileName("", "csv", at))
	assert.Equal(t, "Reporte_Facturable_2025-01-06_08-05-09.xlsx", export.FileName("Facturable", "xlsx", at))
}

func TestCSVGenerator_ArchivoTemporalUnico(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tmp")
	g := export.NewCSVGenerator(dir, time.UTC)
	recs := []*entity.UsageRecord{sampleRecord(time.UTC)}

	a1, err := g.Generate(recs, "")
	require.NoError(t, err)
	a2, err := g.Generate(recs, "")
	require.NoError(t, err)

	assert.NotEqual(t, a1.Path, a2.Path, "cada generación crea un archivo nuevo")
	assert.Equal(t, ports.FormatCSV, a1.Format)
	assert.True(t, strings.HasPrefix(a1.Name, "Reporte_Completo_"))
	assert.Positive(t, a1.Size)

	raw, err := os.ReadFile(a1.Path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"A1";"Widget"`)

	export.Remove(a1)
	export.Remove(a2)
	_, err = os.Stat(a1.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestXLSXGenerator_MismasColumnas(t *testing.T) {
	g := export.NewXLSXGenerator(t.TempDir(), time.UTC)
	a, err := g.Generate([]*entity.UsageRecord{sampleRecord(time.UTC)}, entity.ConsumptionConsumo)
	require.NoError(t, err)
	defer export.Remove(a)

	f, err := excelize.OpenFile(a.Path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Reporte")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, export.Columns, rows[0])
	assert.Equal(t, []string{"A1", "Widget", "Acme", "3", "Consumo", "14/03/2025"}, rows[1])
}

func TestRegistry(t *testing.T) {
	reg := export.NewRegistry("xlsx",
		export.NewCSVGenerator("", time.UTC),
		export.NewXLSXGenerator("", time.UTC),
	)
	g, err := reg.Get("")
	require.NoError(t, err)
	assert.Equal(t, ports.FormatXLSX, g.Format())

	g, err = reg.Get("CSV")
	require.NoError(t, err)
	assert.Equal(t, ports.FormatCSV, g.Format())

	_, err = reg.Get("docx")
	assert.Error(t, err)

	assert.Equal(t, ports.FormatCSV, export.NewRegistry("pdf", export.NewCSVGenerator("", time.UTC)).Default())
}
