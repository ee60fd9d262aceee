package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/memoai-dev/memocoach/pkg/gateway"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "memocoach").
	Namespace string

	// Subsystem is the metrics subsystem (default: "gateway").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
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
		Namespace: "memocoach",
		Subsystem: "gateway",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics returns gateway middleware that records request metrics.
// Collectors are registered on the configured registry at construction, so
// call Metrics once per registry.
func Metrics(opts ...MetricsOption) gateway.Middleware {
	cfg := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.Registry)

	requestsTotal := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace:   cfg.Namespace,
		Subsystem:   cfg.Subsystem,
		Name:        "requests_total",
		Help:        "Gateway requests by method and status class.",
		ConstLabels: cfg.ConstLabels,
	}, []string{"method", "status"})

	requestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   cfg.Namespace,
		Subsystem:   cfg.Subsystem,
		Name:        "request_duration_seconds",
		Help:        "Gateway request duration in seconds.",
		ConstLabels: cfg.ConstLabels,
		Buckets:     cfg.Buckets,
	}, []string{"method"})

	transportErrors := factory.NewCounter(prometheus.CounterOpts{
		Namespace:   cfg.Namespace,
		Subsystem:   cfg.Subsystem,
		Name:        "transport_errors_total",
		Help:        "Requests that failed before producing a response.",
		ConstLabels: cfg.ConstLabels,
	})

	unauthorizedTotal := factory.NewCounter(prometheus.CounterOpts{
		Namespace:   cfg.Namespace,
		Subsystem:   cfg.Subsystem,
		Name:        "unauthorized_total",
		Help:        "Responses with status 401; each forces session teardown.",
		ConstLabels: cfg.ConstLabels,
	})

	return func(next gateway.RoundTripFunc) gateway.RoundTripFunc {
		return func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next(req)
			requestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())

			if err != nil || resp == nil {
				transportErrors.Inc()
				requestsTotal.WithLabelValues(req.Method, "error").Inc()
				return resp, err
			}

			requestsTotal.WithLabelValues(req.Method, statusClass(resp.StatusCode)).Inc()
			if resp.StatusCode == http.StatusUnauthorized {
				unauthorizedTotal.Inc()
			}
			return resp, err
		}
	}
}

func statusClass(code int) string {
	return fmt.Sprintf("%dxx", code/100)
}
