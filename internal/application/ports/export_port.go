package ports

import "github.com/jhoicas/stockit-api/internal/domain/entity"

// Formatos de exportación soportados.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// ExportArtifact archivo temporal generado para adjuntar a un correo.
// Quien lo recibe es responsable de borrarlo.
type ExportArtifact struct {
	Path   string
	Name   string
	Format string
	Size   int64
}

// ReportGenerator genera el archivo de reporte de usos.
// tag es el tipo de consumo filtrado; vacío significa reporte completo.
type ReportGenerator interface {
	Generate(records []*entity.UsageRecord, tag string) (*ExportArtifact, error)
	Format() string
}
