package notification

import (
	"bytes"
	"html"
	"html/template"
	"regexp"
	"strings"
)

var boldRe = regexp.MustCompile(`\*\*(.*?)\*\*`)

var baseTmpl = template.Must(template.New("base").Parse(`<div style="font-family: Verdana, sans-serif; max-width: 600px; margin: 0 auto; line-height: 1.6;">
  <div style="background: #0077b6; padding: 20px; text-align: center; border-radius: 10px 10px 0 0;">
    <h2 style="color: white; margin: 0; font-size: 24px;">{{.Title}}</h2>
  </div>
  <div style="background-color: #f9f9f9; padding: 25px; border-radius: 0 0 10px 10px; border: 1px solid #e0e0e0;">
    <p style="color: #333; font-size: 16px; margin-bottom: 20px;">Estimado usuario,</p>
    <p style="color: #333; margin-bottom: 20px;">Adjunto encontrarás la siguiente solicitud.</p>
    <div style="background-color: white; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <div style="margin: 0; white-space: pre-wrap; font-family: Verdana; font-size: 13px; color: #444;">{{.Body}}</div>
    </div>
  </div>
</div>`))

// RenderHTML arma el cuerpo HTML con la plantilla de la marca.
// El texto se escapa antes de convertir los marcadores **negrita** en <strong>.
func RenderHTML(body string) string {
	escaped := html.EscapeString(strings.TrimSpace(body))
	marked := boldRe.ReplaceAllString(escaped, "<strong>$1</strong>")

	var buf bytes.Buffer
	_ = baseTmpl.Execute(&buf, struct {
		Title string
		Body  template.HTML
	}{
		Title: "StockIt - Reporte",
		Body:  template.HTML(marked),
	})
	return buf.String()
}

// PlainText quita los marcadores de negrita para la parte de texto plano.
func PlainText(body string) string {
	return boldRe.ReplaceAllString(strings.TrimSpace(body), "$1")
}
