package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics for the console.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	UpstreamCallsTotal  *prometheus.CounterVec
	UpstreamErrorsTotal *prometheus.CounterVec
	ShotsCompiledTotal  prometheus.Counter
	UploadsTotal        *prometheus.CounterVec

	registry *prometheus.Registry
}

var Default = New()

// New creates a Metrics instance with all collectors registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_http_requests_total",
				Help: "Total HTTP requests served, by method and status",
			},
			[]string{"method", "status"},
		),
		UpstreamCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_upstream_calls_total",
				Help: "Total calls issued to the messaging backend",
			},
			[]string{"operation"},
		),
		UpstreamErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_upstream_errors_total",
				Help: "Total failed calls to the messaging backend",
			},
			[]string{"operation"},
		),
		ShotsCompiledTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "console_shots_compiled_total",
				Help: "Total campaign payloads compiled for submission",
			},
		),
		UploadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_uploads_total",
				Help: "Total media uploads forwarded, by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		registry: reg,
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.UpstreamCallsTotal,
		m.UpstreamErrorsTotal,
		m.ShotsCompiledTotal,
		m.UploadsTotal,
	)

	return m
}

// Handler serves the /metrics endpoint for this registry.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Middleware counts every served request.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		status := c.Response().StatusCode()
		m.HTTPRequestsTotal.WithLabelValues(c.Method(), statusClass(status)).Inc()
		return err
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
