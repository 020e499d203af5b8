package bucket

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/gopace/pkg/metrics"
)

// MetricsLimiter wraps a Limiter with Prometheus metrics collection.
//
// Enabling and disabling collection is safe concurrently with admission
// calls; the registry and the enabled flag are swapped atomically.
type MetricsLimiter struct {
	limiter  Limiter
	name     string
	registry atomic.Pointer[metrics.Registry]
	enabled  atomic.Bool
}

// NewWithMetrics creates a new token bucket limiter with metrics enabled.
func NewWithMetrics(capacity float64, rate Rate, name string) (Limiter, error) {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	registry := prometheus.NewRegistry()
	config := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	return NewWithConfigAndMetrics(Config{
		Capacity:      capacity,
		Rate:          rate,
		Clock:         SystemClock{},
		InitialTokens: -1,
	}, name, config)
}

// NewWithConfigAndMetrics creates a new token bucket limiter with custom config and metrics.
func NewWithConfigAndMetrics(config Config, name string, metricsConfig metrics.Config) (Limiter, error) {
	baseLimiter, err := NewWithConfig(config)
	if err != nil {
		return nil, err
	}

	if !metricsConfig.Enabled {
		return baseLimiter, nil
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		// Create custom registry if provided
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	ml := &MetricsLimiter{
		limiter: baseLimiter,
		name:    name,
	}
	ml.registry.Store(registry)
	ml.enabled.Store(true)
	return ml, nil
}

// Allow attempts to admit one unit of work.
func (ml *MetricsLimiter) Allow() (Decision, error) {
	return ml.AllowN(1)
}

// AllowN attempts to admit work costing n tokens.
func (ml *MetricsLimiter) AllowN(cost float64) (Decision, error) {
	d, err := ml.limiter.AllowN(cost)
	if err != nil {
		// Malformed calls are not admission traffic; leave counters alone.
		return d, err
	}

	if ml.enabled.Load() {
		registry := ml.registry.Load()
		registry.AdmissionRequests.WithLabelValues("token_bucket", ml.name).Add(cost)

		if d.Allowed {
			registry.AdmissionAllowed.WithLabelValues("token_bucket", ml.name).Add(cost)
		} else {
			registry.AdmissionDenied.WithLabelValues("token_bucket", ml.name).Add(cost)
			registry.AdmissionRetryHint.WithLabelValues("token_bucket", ml.name).Observe(d.RetryAfter.Seconds())
		}

		// Update current token count
		registry.AdmissionTokens.WithLabelValues("token_bucket", ml.name).Set(ml.limiter.Tokens())
	}

	return d, nil
}

// Tokens returns the number of tokens currently available.
func (ml *MetricsLimiter) Tokens() float64 {
	tokens := ml.limiter.Tokens()

	if ml.enabled.Load() {
		ml.registry.Load().AdmissionTokens.WithLabelValues("token_bucket", ml.name).Set(tokens)
	}

	return tokens
}

// Capacity returns the maximum token level.
func (ml *MetricsLimiter) Capacity() float64 {
	return ml.limiter.Capacity()
}

// Rate returns the current replenishment rate.
func (ml *MetricsLimiter) Rate() Rate {
	return ml.limiter.Rate()
}

// SetRate changes the replenishment rate.
func (ml *MetricsLimiter) SetRate(rate Rate) error {
	return ml.limiter.SetRate(rate)
}

// SetCapacity changes the maximum token level.
func (ml *MetricsLimiter) SetCapacity(capacity float64) error {
	return ml.limiter.SetCapacity(capacity)
}

// EnableMetrics enables metrics collection. The registry is swapped in
// before the enabled flag so a concurrent reader never observes the flag
// set without a registry to record into.
func (ml *MetricsLimiter) EnableMetrics(config metrics.Config) error {
	if config.Registry != nil {
		ml.registry.Store(metrics.NewRegistry(config.Registry))
	}
	ml.enabled.Store(config.Enabled)
	return nil
}

// DisableMetrics disables metrics collection.
func (ml *MetricsLimiter) DisableMetrics() {
	ml.enabled.Store(false)
}

// MetricsEnabled returns true if metrics are currently enabled.
func (ml *MetricsLimiter) MetricsEnabled() bool {
	return ml.enabled.Load()
}
