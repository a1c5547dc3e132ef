// Package export genera los archivos de reporte de usos que se adjuntan a los correos.
package export

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jhoicas/stockit-api/internal/application/ports"
	"github.com/jhoicas/stockit-api/internal/domain/entity"
)

// Columns encabezado común a todos los formatos.
var Columns = []string{"CODIGO", "REPUESTO", "CLIENTE", "CANTIDAD", "TIPO", "FECHA"}

// FileName nombre visible del archivo: Reporte_<tag|Completo>_<YYYY-MM-DD>_<HH-MM-SS>.<ext>.
func FileName(tag, ext string, at time.Time) string {
	label := strings.TrimSpace(tag)
	if label == "" {
		label = "Completo"
	}
	label = strings.NewReplacer(" ", "_", "/", "-", "\\", "-").Replace(label)
	return fmt.Sprintf("Reporte_%s_%s.%s", label, at.Format("2006-01-02_15-04-05"), ext)
}

// Row valores de una fila ya normalizados (sin saltos de línea, recortados).
func Row(r *entity.UsageRecord, loc *time.Location) []string {
	tipo := clean(r.ConsumptionType)
	if tipo == "" {
		tipo = "N/A"
	}
	return []string{
		clean(r.Code),
		clean(r.Name),
		clean(r.Client),
		fmt.Sprintf("%d", r.Quantity),
		tipo,
		FormatDate(r.Date, loc),
	}
}

// FormatDate fecha DD/MM/YYYY en la zona indicada.
func FormatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("02/01/2006")
}

func clean(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(s))
}

// createTemp crea un archivo nuevo y único en dir; nunca reutiliza uno existente.
func createTemp(dir, ext string) (*os.File, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: crear directorio temporal: %w", err)
	}
	f, err := os.CreateTemp(dir, "stockit-*."+ext)
	if err != nil {
		return nil, fmt.Errorf("export: crear archivo temporal: %w", err)
	}
	return f, nil
}

// finish cierra el archivo y arma el artefacto; ante error lo elimina.
func finish(f *os.File, name, format string, writeErr error) (*ports.ExportArtifact, error) {
	closeErr := f.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("export: escribir %s: %w", format, writeErr)
	}
	info, err := os.Stat(f.Name())
	if err != nil {
		return nil, fmt.Errorf("export: stat: %w", err)
	}
	return &ports.ExportArtifact{Path: f.Name(), Name: name, Format: format, Size: info.Size()}, nil
}

// WriteTemp escribe con fn un archivo temporal nuevo y devuelve el artefacto.
// Lo usan los generadores de otros paquetes (PDF).
func WriteTemp(dir, ext, name, format string, fn func(f *os.File) error) (*ports.ExportArtifact, error) {
	f, err := createTemp(dir, ext)
	if err != nil {
		return nil, err
	}
	return finish(f, name, format, fn(f))
}
