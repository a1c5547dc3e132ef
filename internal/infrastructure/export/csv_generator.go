package export

import (
	"bufio"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jhoicas/stockit-api/internal/application/ports"
	"github.com/jhoicas/stockit-api/internal/domain/entity"
)

var _ ports.ReportGenerator = (*CSVGenerator)(nil)

const utf8BOM = "\ufeff"

// CSVGenerator CSV separado por ';' con BOM para que Excel lo abra en UTF-8.
type CSVGenerator struct {
	tmpDir string
	loc    *time.Location
	now    func() time.Time
}

// NewCSVGenerator construye el generador.
func NewCSVGenerator(tmpDir string, loc *time.Location) *CSVGenerator {
	return &CSVGenerator{tmpDir: tmpDir, loc: loc, now: time.Now}
}

func (g *CSVGenerator) Format() string { return ports.FormatCSV }

// Generate escribe los registros en un archivo temporal nuevo.
func (g *CSVGenerator) Generate(records []*entity.UsageRecord, tag string) (*ports.ExportArtifact, error) {
	f, err := createTemp(g.tmpDir, "csv")
	if err != nil {
		return nil, err
	}
	name := FileName(tag, "csv", g.now().In(g.loc))
	return finish(f, name, ports.FormatCSV, WriteCSV(f, records, g.loc))
}

// WriteCSV escribe BOM, encabezado y filas. Todos los campos van entre comillas.
func WriteCSV(w io.Writer, records []*entity.UsageRecord, loc *time.Location) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(utf8BOM); err != nil {
		return err
	}
	if _, err := bw.WriteString(strings.Join(Columns, ";") + "\n"); err != nil {
		return err
	}
	for _, r := range records {
		fields := Row(r, loc)
		for i, v := range fields {
			fields[i] = quote(v)
		}
		if _, err := bw.WriteString(strings.Join(fields, ";") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Remove borra un artefacto descartado (p. ej. si el envío no llega a intentarse).
func Remove(a *ports.ExportArtifact) {
	if a != nil && a.Path != "" {
		_ = os.Remove(a.Path)
	}
}
