package schedule

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"github.com/vnykmshr/gopace/pkg/admission/bucket"
	"github.com/vnykmshr/gopace/pkg/common/errors"
	"github.com/vnykmshr/gopace/pkg/common/validation"
	"github.com/vnykmshr/gopace/pkg/metrics"
)

// Tunable is the surface a schedule adjusts. bucket.Limiter satisfies it.
type Tunable interface {
	SetRate(rate bucket.Rate) error
	SetCapacity(capacity float64) error
}

// Scheduler applies rate and capacity overrides to a limiter on a cron
// schedule, e.g. a higher admission rate during business hours.
//
// Supports standard cron format: "minute hour day month weekday"
// Examples:
//
//	"0 9 * * 1-5"  - 9:00 AM on weekdays
//	"0 18 * * *"   - 6:00 PM every day
//	"@hourly"      - Every hour
type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	target  Tunable
	started bool
	closed  bool

	name     string
	registry *metrics.Registry
}

// New creates a scheduler that adjusts the given target.
func New(target Tunable) (*Scheduler, error) {
	if target == nil {
		return nil, errors.NewValidationError("schedule", "target", nil, "cannot be nil").
			WithHint("provide the limiter to adjust")
	}

	return &Scheduler{
		cron:   cron.New(),
		target: target,
	}, nil
}

// NewWithMetrics creates a scheduler that counts applied overrides in
// Prometheus.
func NewWithMetrics(target Tunable, name string) (*Scheduler, error) {
	return NewWithConfigAndMetrics(target, name, metrics.Config{
		Enabled:  true,
		Registry: prometheus.NewRegistry(),
	})
}

// NewWithConfigAndMetrics creates a scheduler with custom metrics configuration.
func NewWithConfigAndMetrics(target Tunable, name string, metricsConfig metrics.Config) (*Scheduler, error) {
	s, err := New(target)
	if err != nil {
		return nil, err
	}

	if !metricsConfig.Enabled {
		return s, nil
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	s.name = name
	s.registry = registry
	return s, nil
}

// At registers an override: whenever spec fires, the target's rate and
// capacity are set to the given values. Overrides are validated up front
// so a schedule can never apply a configuration the target would reject.
func (s *Scheduler) At(spec string, rate bucket.Rate, capacity float64) error {
	if err := validation.ValidateNotEmpty("schedule", "spec", spec); err != nil {
		return err
	}
	if err := validation.ValidatePositiveFloat("schedule", "rate", float64(rate)); err != nil {
		return err
	}
	if err := validation.ValidatePositiveFloat("schedule", "capacity", capacity); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.ErrClosed
	}

	_, err := s.cron.AddFunc(spec, func() {
		s.apply(rate, capacity)
	})
	if err != nil {
		return errors.NewOperationError("schedule", "At", err).
			WithContext("parsing cron spec " + spec)
	}
	return nil
}

// apply installs one override on the target.
func (s *Scheduler) apply(rate bucket.Rate, capacity float64) {
	// Validated in At, so neither call can fail on a bucket limiter.
	_ = s.target.SetCapacity(capacity)
	_ = s.target.SetRate(rate)

	if s.registry != nil {
		s.registry.ScheduleOverrides.WithLabelValues(s.name).Inc()
	}
}

// Start begins evaluating registered overrides in its own goroutine.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.closed {
		return
	}
	s.started = true
	s.cron.Start()
}

// Stop halts the schedule. Overrides already applied remain in effect;
// further At calls fail with errors.ErrClosed.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.cron.Stop()
}
