package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/stockit-api/internal/application/notification"
	"github.com/jhoicas/stockit-api/internal/application/report"
)

var (
	_ notification.Recorder = (*Metrics)(nil)
	_ report.Recorder       = (*Metrics)(nil)
)

// Metrics colectores Prometheus de la API sobre un registro propio.
type Metrics struct {
	registry      *prometheus.Registry
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	emailAttempts *prometheus.CounterVec
	reports       *prometheus.CounterVec
}

// New registra los colectores bajo el namespace indicado.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP por método, ruta y estado.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		emailAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "email_attempts_total",
			Help:      "Intentos de envío de correo por proveedor, estrategia y resultado.",
		}, []string{"provider", "strategy", "outcome"}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Reportes generados por tipo y resultado.",
		}, []string{"kind", "outcome"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpDuration, m.emailAttempts, m.reports,
	)
	return m
}

// EmailAttempt cuenta un intento de envío.
func (m *Metrics) EmailAttempt(provider, strategy, outcome string) {
	m.emailAttempts.WithLabelValues(provider, strategy, outcome).Inc()
}

// Report cuenta un reporte generado por tipo y resultado.
func (m *Metrics) Report(kind, outcome string) {
	m.reports.WithLabelValues(kind, outcome).Inc()
}

// Middleware mide cada petición usando la ruta registrada (no la URL) como etiqueta.
// Los errores se resuelven con el ErrorHandler de la app para medir el estado final.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		route := c.Route().Path
		status := strconv.Itoa(c.Response().StatusCode())
		m.httpRequests.WithLabelValues(c.Method(), route, status).Inc()
		m.httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return nil
	}
}

// Handler expone el registro en formato Prometheus.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Registry acceso al registro (tests).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
