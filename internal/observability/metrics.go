package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics carries the pipeline's counters and histograms. Every run of the
// billing pipeline reports through these regardless of entry point.
type Metrics struct {
	RunsTotal        *prometheus.CounterVec
	RunDuration      prometheus.Histogram
	InvoicesRendered prometheus.Counter
	RenderFailures   prometheus.Counter
	ParseWarnings    prometheus.Counter
}

func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "facturador_runs_total",
			Help: "Billing pipeline runs by outcome.",
		}, []string{"outcome"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "facturador_run_duration_seconds",
			Help:    "Wall time of one full pipeline run.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		InvoicesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "facturador_invoices_rendered_total",
			Help: "Per-location invoices rendered successfully.",
		}),
		RenderFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "facturador_render_failures_total",
			Help: "Per-location invoices that failed to render.",
		}),
		ParseWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "facturador_parse_warnings_total",
			Help: "Currency cells that could not be interpreted.",
		}),
	}
	registry.MustRegister(m.RunsTotal, m.RunDuration, m.InvoicesRendered, m.RenderFailures, m.ParseWarnings)
	return m
}
