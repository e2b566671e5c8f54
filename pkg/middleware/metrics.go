package middleware

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/formkit/pkg/form"
)

// MetricsConfig configures the Prometheus middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "formkit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for operation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus middleware.
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
		Namespace: "formkit",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a form.Middleware recording Prometheus metrics. It also
// exposes session and frame recorders for the server.
type Metrics struct {
	operations     *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	results        *prometheus.CounterVec
	fieldErrors    *prometheus.CounterVec
	activeSessions prometheus.Gauge
	frameErrors    *prometheus.CounterVec
}

var _ form.Middleware = (*Metrics)(nil)

// Prometheus registers the form metrics and returns the middleware
// recording them. Registering twice with the same registry panics, so
// create one per registry and share it between forms.
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "operations_total",
			Help:        "Total number of form operations",
			ConstLabels: config.ConstLabels,
		}, []string{"op", "status"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "operation_duration_seconds",
			Help:        "Form operation duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"op"}),

		results: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "validation_results_total",
			Help:        "Total number of completed validations by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		fieldErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "field_errors_total",
			Help:        "Total number of failing fields by name",
			ConstLabels: config.ConstLabels,
		}, []string{"field"}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of open form sessions",
			ConstLabels: config.ConstLabels,
		}),

		frameErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frame_errors_total",
			Help:        "Total number of rejected client frames by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),
	}
}

// Handle implements form.Middleware.
func (m *Metrics) Handle(ctx context.Context, call *form.Call, next func(context.Context) error) error {
	op := string(call.Op)
	start := time.Now()

	err := next(ctx)

	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	status := "success"
	if err != nil {
		status = "error"
	}
	m.operations.WithLabelValues(op, status).Inc()

	// Submit validates through the chain too; count results once.
	if err == nil && call.Op == form.OpValidate && call.Result != nil {
		if call.Result.Valid() {
			m.results.WithLabelValues("valid").Inc()
		} else {
			m.results.WithLabelValues("invalid").Inc()
			if em, ok := call.Result.(*form.ErrorMap); ok {
				for _, name := range em.Names() {
					m.fieldErrors.WithLabelValues(name).Inc()
				}
			}
		}
	}
	return err
}

// SessionOpened records a new server session.
func (m *Metrics) SessionOpened() {
	m.activeSessions.Inc()
}

// SessionClosed records a server session ending.
func (m *Metrics) SessionClosed() {
	m.activeSessions.Dec()
}

// FrameRejected records a client frame the server could not handle.
func (m *Metrics) FrameRejected(kind string) {
	m.frameErrors.WithLabelValues(kind).Inc()
}
