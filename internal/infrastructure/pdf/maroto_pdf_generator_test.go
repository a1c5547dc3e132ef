package pdf_test

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockit-api/internal/application/ports"
	"github.com/jhoicas/stockit-api/internal/domain/entity"
	"github.com/jhoicas/stockit-api/internal/infrastructure/export"
	"github.com/jhoicas/stockit-api/internal/infrastructure/pdf"
)

func TestMarotoPDFGenerator_Generate(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator(t.TempDir(), time.UTC)
	recs := []*entity.UsageRecord{
		{Code: "A1", Name: "Widget", Client: "Acme", Quantity: 3, ConsumptionType: entity.ConsumptionConsumo, Date: time.Now()},
		{Code: "B2", Name: "Correa", Client: "Beta", Quantity: 1, Date: time.Now()},
	}

	a, err := g.Generate(recs, entity.ConsumptionFacturable)
	require.NoError(t, err)
	defer export.Remove(a)

	assert.Equal(t, ports.FormatPDF, a.Format)
	assert.True(t, strings.HasPrefix(a.Name, "Reporte_Facturable_"))
	assert.True(t, strings.HasSuffix(a.Name, ".pdf"))

	raw, err := os.ReadFile(a.Path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")), "el archivo debe ser un PDF")
}
