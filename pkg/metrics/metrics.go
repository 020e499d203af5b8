// Package metrics provides Prometheus instrumentation for gopace components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for gopace components.
type Registry struct {
	// Admission Metrics
	AdmissionRequests  *prometheus.CounterVec
	AdmissionAllowed   *prometheus.CounterVec
	AdmissionDenied    *prometheus.CounterVec
	AdmissionTokens    *prometheus.GaugeVec
	AdmissionRetryHint *prometheus.HistogramVec

	// Keyed Limiter Metrics
	KeyedBuckets *prometheus.GaugeVec
	KeyedPruned  *prometheus.CounterVec

	// Schedule Metrics
	ScheduleOverrides *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by gopace components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		// Admission Metrics
		AdmissionRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gopace",
				Subsystem: "admission",
				Name:      "requests_total",
				Help:      "Total number of admission requests",
			},
			[]string{"limiter_type", "limiter_name"},
		),

		AdmissionAllowed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gopace",
				Subsystem: "admission",
				Name:      "allowed_total",
				Help:      "Total number of admitted requests",
			},
			[]string{"limiter_type", "limiter_name"},
		),

		AdmissionDenied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gopace",
				Subsystem: "admission",
				Name:      "denied_total",
				Help:      "Total number of denied requests",
			},
			[]string{"limiter_type", "limiter_name"},
		),

		AdmissionTokens: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "gopace",
				Subsystem: "admission",
				Name:      "tokens_available",
				Help:      "Number of tokens currently available",
			},
			[]string{"limiter_type", "limiter_name"},
		),

		AdmissionRetryHint: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "gopace",
				Subsystem: "admission",
				Name:      "retry_after_seconds",
				Help:      "Retry-after hints returned with denied requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"limiter_type", "limiter_name"},
		),

		// Keyed Limiter Metrics
		KeyedBuckets: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "gopace",
				Subsystem: "keyed",
				Name:      "buckets",
				Help:      "Number of per-key buckets currently tracked",
			},
			[]string{"limiter_name"},
		),

		KeyedPruned: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gopace",
				Subsystem: "keyed",
				Name:      "buckets_pruned_total",
				Help:      "Total number of idle per-key buckets evicted",
			},
			[]string{"limiter_name"},
		),

		// Schedule Metrics
		ScheduleOverrides: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gopace",
				Subsystem: "schedule",
				Name:      "overrides_applied_total",
				Help:      "Total number of scheduled limit overrides applied",
			},
			[]string{"schedule_name"},
		),
	}
}
