package export

import (
	"fmt"
	"strings"

	"github.com/jhoicas/stockit-api/internal/application/ports"
)

// Registry generadores disponibles indexados por formato.
type Registry struct {
	def  string
	gens map[string]ports.ReportGenerator
}

// NewRegistry registra los generadores; def es el formato usado cuando no se pide ninguno.
func NewRegistry(def string, gens ...ports.ReportGenerator) *Registry {
	r := &Registry{def: strings.ToLower(def), gens: make(map[string]ports.ReportGenerator, len(gens))}
	for _, g := range gens {
		r.gens[g.Format()] = g
	}
	if _, ok := r.gens[r.def]; !ok {
		r.def = ports.FormatCSV
	}
	return r
}

// Get devuelve el generador del formato (vacío = por defecto).
func (r *Registry) Get(format string) (ports.ReportGenerator, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = r.def
	}
	g, ok := r.gens[format]
	if !ok {
		return nil, fmt.Errorf("formato de reporte no soportado: %s", format)
	}
	return g, nil
}

// Default formato por defecto.
func (r *Registry) Default() string { return r.def }
