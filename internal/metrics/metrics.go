package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds all Prometheus metric collectors for the Exo portal.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Rate limiting metrics.
	RateLimitRejectionsTotal prometheus.Counter

	// Billing metrics.
	AutoInvoicesCreatedTotal prometheus.Counter
	AutoInvoicesSkippedTotal prometheus.Counter
	AutoInvoicesFailedTotal  prometheus.Counter

	// Activity collector metrics.
	CollectorEventsTotal  prometheus.Counter
	CollectorFlushesTotal *prometheus.CounterVec

	// Auth metrics.
	AuthFailuresTotal  prometheus.Counter
	AuthSuccessesTotal prometheus.Counter

	// Server lifecycle.
	ServerStartTime prometheus.Gauge
}

// New creates and registers all Prometheus metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exo_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "exo_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path_pattern"}),

		RateLimitRejectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exo_ratelimit_rejections_total",
			Help: "Total number of rate limit rejections.",
		}),

		AutoInvoicesCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exo_auto_invoices_created_total",
			Help: "Total number of invoices created by stage-driven billing.",
		}),

		AutoInvoicesSkippedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exo_auto_invoices_skipped_total",
			Help: "Total number of billing runs skipped (already invoiced or nothing to bill).",
		}),

		AutoInvoicesFailedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exo_auto_invoices_failed_total",
			Help: "Total number of failed auto invoice attempts.",
		}),

		CollectorEventsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exo_collector_events_total",
			Help: "Total number of activity events recorded.",
		}),

		CollectorFlushesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exo_collector_flushes_total",
			Help: "Total number of activity collector flushes.",
		}, []string{"status"}),

		AuthFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exo_auth_failures_total",
			Help: "Total number of authentication failures.",
		}),

		AuthSuccessesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exo_auth_successes_total",
			Help: "Total number of successful authentications.",
		}),

		ServerStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "exo_server_start_time_seconds",
			Help: "Unix timestamp when the server started.",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.RateLimitRejectionsTotal,
		m.AutoInvoicesCreatedTotal,
		m.AutoInvoicesSkippedTotal,
		m.AutoInvoicesFailedTotal,
		m.CollectorEventsTotal,
		m.CollectorFlushesTotal,
		m.AuthFailuresTotal,
		m.AuthSuccessesTotal,
		m.ServerStartTime,
	)

	m.ServerStartTime.Set(float64(time.Now().Unix()))

	// Register Go runtime and process collectors.
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// Registry returns the private Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterDBPoolCollector registers a custom DB pool stats collector.
func (m *Metrics) RegisterDBPoolCollector(statFunc DBPoolStatFunc) {
	m.registry.MustRegister(NewDBPoolCollector(statFunc))
}
