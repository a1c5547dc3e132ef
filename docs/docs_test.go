package docs_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	"github.com/jhoicas/stockit-api/docs"
)

func TestSwaggerRegistrado(t *testing.T) {
	raw, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Info  struct{ Title string } `json:"info"`
		Paths map[string]any         `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc), "la especificación debe ser JSON válido")
	assert.Equal(t, "StockIt API", doc.Info.Title)
	assert.Contains(t, doc.Paths, "/api/stock/transferir-personal")
	assert.Contains(t, doc.Paths, "/api/correo/personal")
}
