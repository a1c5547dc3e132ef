// Package pdf genera el reporte de usos de repuestos en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: StockIt + título  │  Tipo de consumo + Fecha        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Repuesto | Cliente | Cant. | Tipo | Fecha   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: registros / unidades                               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"os"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/stockit-api/internal/application/ports"
	"github.com/jhoicas/stockit-api/internal/domain/entity"
	"github.com/jhoicas/stockit-api/internal/infrastructure/export"
)

var _ ports.ReportGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 119, Blue: 182}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.ReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	tmpDir string
	loc    *time.Location
	now    func() time.Time
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator(tmpDir string, loc *time.Location) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{tmpDir: tmpDir, loc: loc, now: time.Now}
}

func (g *MarotoPDFGenerator) Format() string { return ports.FormatPDF }

// Generate arma el PDF y lo escribe en un archivo temporal nuevo.
func (g *MarotoPDFGenerator) Generate(records []*entity.UsageRecord, tag string) (*ports.ExportArtifact, error) {
	now := g.now().In(g.loc)
	raw, err := g.Render(records, tag, now)
	if err != nil {
		return nil, err
	}
	name := export.FileName(tag, "pdf", now)
	return export.WriteTemp(g.tmpDir, "pdf", name, ports.FormatPDF, func(f *os.File) error {
		_, werr := f.Write(raw)
		return werr
	})
}

// Render genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) Render(records []*entity.UsageRecord, tag string, now time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de uso de repuestos", true).
		WithAuthor("StockIt", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(tag, now))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(records, g.loc) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(records))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(tag string, now time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("StockIt", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Reporte de uso de repuestos", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("TIPO DE CONSUMO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(tag, "Todos"), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Generado: "+now.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: mismas columnas que el CSV.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Repuesto", 3, align.Left),
		h("Cliente", 3, align.Left),
		h("Cant.", 1, align.Center),
		h("Tipo", 1, align.Center),
		h("Fecha", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableDetailRows(records []*entity.UsageRecord, loc *time.Location) []core.Row {
	result := make([]core.Row, 0, len(records))
	for _, r := range records {
		v := export.Row(r, loc)
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(v[0], props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(v[1], props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(v[2], props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(v[3], props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(v[4], props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(v[5], props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalsRow(records []*entity.UsageRecord) core.Row {
	units := 0
	for _, r := range records {
		units += r.Quantity
	}
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(label("Registros:"), label("Unidades:")),
		col.New(3).Add(value(fmt.Sprintf("%d", len(records))), value(fmt.Sprintf("%d", units))),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
