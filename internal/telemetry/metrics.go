package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dashtmpl/dashtmpl/internal/errors"
)

// MetricsConfig configures render metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "dashtmpl").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	Buckets []float64

	// Registry receives the collectors. Default: a fresh registry, so
	// several apps in one process never collide.
	Registry prometheus.Registerer
}

// MetricsOption configures render metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "dashtmpl",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
	}
}

// Metrics holds the render collectors of one app.
type Metrics struct {
	rendersTotal   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	renderErrors   *prometheus.CounterVec
	warningsTotal  *prometheus.CounterVec
	layoutUpdates  prometheus.Counter
	reloadClients  prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewMetrics creates and registers render metrics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}
	factory := promauto.With(config.Registry)

	m := &Metrics{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of template renders",
			ConstLabels: config.ConstLabels,
		}, []string{"entry", "status"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Template render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"entry"}),

		renderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_errors_total",
			Help:        "Total number of failed renders by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"entry", "code"}),

		warningsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_warnings_total",
			Help:        "Total number of render diagnostics by code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		layoutUpdates: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "layout_updates_total",
			Help:        "Total number of layouts installed",
			ConstLabels: config.ConstLabels,
		}),

		reloadClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reload_clients",
			Help:        "Number of connected live reload clients",
			ConstLabels: config.ConstLabels,
		}),
	}
	if g, ok := config.Registry.(prometheus.Gatherer); ok {
		m.gatherer = g
	}
	return m
}

// ObserveRender records one render of the given entry point.
func (m *Metrics) ObserveRender(entry string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.renderDuration.WithLabelValues(entry).Observe(d.Seconds())
	status := "success"
	if err != nil {
		status = "error"
		m.renderErrors.WithLabelValues(entry, errorCode(err)).Inc()
	}
	m.rendersTotal.WithLabelValues(entry, status).Inc()
}

// RecordWarnings counts diagnostics by code.
func (m *Metrics) RecordWarnings(codes ...string) {
	if m == nil {
		return
	}
	for _, code := range codes {
		m.warningsTotal.WithLabelValues(code).Inc()
	}
}

// RecordLayoutUpdate counts an installed layout.
func (m *Metrics) RecordLayoutUpdate() {
	if m == nil {
		return
	}
	m.layoutUpdates.Inc()
}

// ReloadClientConnected increments the reload client gauge.
func (m *Metrics) ReloadClientConnected() {
	if m == nil {
		return
	}
	m.reloadClients.Inc()
}

// ReloadClientDisconnected decrements the reload client gauge.
func (m *Metrics) ReloadClientDisconnected() {
	if m == nil {
		return
	}
	m.reloadClients.Dec()
}

// Handler serves the metrics in the Prometheus exposition format. It
// returns 404 when the registry cannot be gathered.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// errorCode keeps the error label bounded to registered codes.
func errorCode(err error) string {
	if code := errors.Code(err); code != "" {
		return code
	}
	return "unknown"
}
