package keyed

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/gopace/pkg/admission/bucket"
	"github.com/vnykmshr/gopace/pkg/common/errors"
	"github.com/vnykmshr/gopace/pkg/common/validation"
	"github.com/vnykmshr/gopace/pkg/metrics"
)

// Limiter maintains one token bucket per key, all sharing the same
// configuration. Buckets are created lazily on first use and can be
// evicted with Prune once idle. All methods are safe for concurrent use.
//
// The registry is strictly in-process: keys are not coordinated across
// processes or hosts.
type Limiter struct {
	mu      sync.Mutex
	config  bucket.Config
	buckets map[string]*entry

	name     string
	registry *metrics.Registry
}

type entry struct {
	limiter  bucket.Limiter
	lastSeen time.Time
}

// New creates a keyed limiter. Every key receives its own full bucket with
// the given capacity and rate on first use.
func New(capacity float64, rate bucket.Rate) (*Limiter, error) {
	return NewWithConfig(bucket.Config{
		Capacity:      capacity,
		Rate:          rate,
		Clock:         bucket.SystemClock{},
		InitialTokens: -1,
	})
}

// NewWithConfig creates a keyed limiter from a shared bucket config.
func NewWithConfig(config bucket.Config) (*Limiter, error) {
	if err := validation.ValidatePositiveFloat("keyed", "capacity", config.Capacity); err != nil {
		return nil, err
	}
	if err := validation.ValidatePositiveFloat("keyed", "rate", float64(config.Rate)); err != nil {
		return nil, err
	}
	if config.Clock == nil {
		config.Clock = bucket.SystemClock{}
	}

	return &Limiter{
		config:  config,
		buckets: make(map[string]*entry),
	}, nil
}

// NewWithMetrics creates a keyed limiter that reports bucket counts to
// Prometheus.
func NewWithMetrics(capacity float64, rate bucket.Rate, name string) (*Limiter, error) {
	return NewWithConfigAndMetrics(bucket.Config{
		Capacity:      capacity,
		Rate:          rate,
		Clock:         bucket.SystemClock{},
		InitialTokens: -1,
	}, name, metrics.Config{Enabled: true, Registry: prometheus.NewRegistry()})
}

// NewWithConfigAndMetrics creates a keyed limiter with custom config and metrics.
func NewWithConfigAndMetrics(config bucket.Config, name string, metricsConfig metrics.Config) (*Limiter, error) {
	l, err := NewWithConfig(config)
	if err != nil {
		return nil, err
	}

	if !metricsConfig.Enabled {
		return l, nil
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	l.name = name
	l.registry = registry
	return l, nil
}

// Allow attempts to admit one unit of work under the given key.
func (l *Limiter) Allow(key string) (bucket.Decision, error) {
	return l.AllowN(key, 1)
}

// AllowN attempts to admit work costing n tokens under the given key.
// Each key is accounted independently; admission under one key never
// consumes tokens from another.
func (l *Limiter) AllowN(key string, cost float64) (bucket.Decision, error) {
	if key == "" {
		return bucket.Decision{}, errors.NewArgumentError("keyed", "key", key, "cannot be empty")
	}

	lim, err := l.bucketFor(key)
	if err != nil {
		return bucket.Decision{}, err
	}
	return lim.AllowN(cost)
}

// bucketFor returns the bucket for key, creating it on first use. Only the
// map lookup happens under the registry lock; the admission check itself
// runs on the per-key bucket so unrelated keys do not serialize.
func (l *Limiter) bucketFor(key string) (bucket.Limiter, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.buckets[key]
	if !ok {
		lim, err := bucket.NewWithConfig(l.config)
		if err != nil {
			return nil, err
		}
		e = &entry{limiter: lim}
		l.buckets[key] = e
		if l.registry != nil {
			l.registry.KeyedBuckets.WithLabelValues(l.name).Set(float64(len(l.buckets)))
		}
	}
	e.lastSeen = l.config.Clock.Now()
	return e.limiter, nil
}

// Len returns the number of keys currently tracked.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Prune evicts buckets that have not been used for at least idle and
// returns the number evicted. An evicted key gets a fresh full bucket on
// its next use, so idle should be at least capacity/rate to keep eviction
// indistinguishable from a bucket that sat refilling.
func (l *Limiter) Prune(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.config.Clock.Now().Add(-idle)
	pruned := 0
	for key, e := range l.buckets {
		if !e.lastSeen.After(cutoff) {
			delete(l.buckets, key)
			pruned++
		}
	}

	if l.registry != nil && pruned > 0 {
		l.registry.KeyedPruned.WithLabelValues(l.name).Add(float64(pruned))
		l.registry.KeyedBuckets.WithLabelValues(l.name).Set(float64(len(l.buckets)))
	}
	return pruned
}
