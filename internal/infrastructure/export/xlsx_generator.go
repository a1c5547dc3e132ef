package export

import (
	"fmt"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/stockit-api/internal/application/ports"
	"github.com/jhoicas/stockit-api/internal/domain/entity"
)

var _ ports.ReportGenerator = (*XLSXGenerator)(nil)

// XLSXGenerator libro Excel con una hoja y las mismas columnas del CSV.
type XLSXGenerator struct {
	tmpDir string
	loc    *time.Location
	now    func() time.Time
}

// NewXLSXGenerator construye el generador.
func NewXLSXGenerator(tmpDir string, loc *time.Location) *XLSXGenerator {
	return &XLSXGenerator{tmpDir: tmpDir, loc: loc, now: time.Now}
}

func (g *XLSXGenerator) Format() string { return ports.FormatXLSX }

// Generate arma el libro y lo escribe en un archivo temporal nuevo.
func (g *XLSXGenerator) Generate(records []*entity.UsageRecord, tag string) (*ports.ExportArtifact, error) {
	book, err := BuildWorkbook(records, g.loc)
	if err != nil {
		return nil, err
	}
	defer func() { _ = book.Close() }()

	name := FileName(tag, "xlsx", g.now().In(g.loc))
	return WriteTemp(g.tmpDir, "xlsx", name, ports.FormatXLSX, func(f *os.File) error {
		return book.Write(f)
	})
}

// BuildWorkbook llena la hoja "Reporte". La cantidad se guarda como número.
func BuildWorkbook(records []*entity.UsageRecord, loc *time.Location) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Reporte"
	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsx: hoja: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsx: encabezado: %w", err)
	}

	for i, r := range records {
		vals := Row(r, loc)
		excelRow := []interface{}{vals[0], vals[1], vals[2], r.Quantity, vals[4], vals[5]}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("xlsx: celda: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(sheet, "A", "A", 14)
	_ = f.SetColWidth(sheet, "B", "C", 32)
	_ = f.SetColWidth(sheet, "F", "F", 12)
	return f, nil
}
