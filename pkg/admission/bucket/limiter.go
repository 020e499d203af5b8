package bucket

import (
	"sync"
	"time"

	"github.com/vnykmshr/gopace/pkg/common/validation"
)

// Rate represents the token replenishment rate in tokens per second.
// A Rate must be positive and finite; the admission contract guarantees
// every denial carries a finite retry hint, which rules out zero and
// infinite rates.
type Rate float64

// Every converts a minimum time interval between unit-cost admissions to a
// Rate. Non-positive intervals produce a Rate that fails construction.
func Every(interval time.Duration) Rate {
	return Rate(float64(time.Second) / float64(interval))
}

// Decision is the outcome of a single admission check.
//
// Denial is a normal outcome, not an error: callers distinguish "rate
// limited" from "malformed request" by the Decision shape, never by error
// type.
type Decision struct {
	// Allowed reports whether the work unit may proceed now.
	Allowed bool

	// Remaining is the token level left after the debit. Only meaningful
	// when Allowed is true.
	Remaining float64

	// RetryAfter is the minimum wait before the same cost would succeed,
	// assuming no concurrent consumption. Only meaningful when Allowed is
	// false, and always finite.
	RetryAfter time.Duration
}

// Limiter is a token bucket admission controller. A bucket holds up to
// Capacity tokens, replenished continuously at Rate; each admission debits
// its cost. All methods are safe for concurrent use against a single
// shared instance.
type Limiter interface {
	// Allow attempts to admit one unit of work (cost 1). It does not block.
	Allow() (Decision, error)

	// AllowN attempts to admit work costing n tokens. It does not block.
	// The cost must be positive and finite; a cost larger than the
	// capacity is legal but can never be admitted, so the call is always
	// denied with a finite retry hint. That situation is a caller
	// configuration error worth surfacing.
	AllowN(cost float64) (Decision, error)

	// Tokens returns the number of tokens currently available.
	Tokens() float64

	// Capacity returns the maximum token level, i.e. the burst size.
	Capacity() float64

	// Rate returns the current replenishment rate.
	Rate() Rate

	// SetRate changes the replenishment rate. Tokens already accrued are
	// preserved.
	SetRate(rate Rate) error

	// SetCapacity changes the maximum token level. The current level is
	// clamped into the new bounds.
	SetCapacity(capacity float64) error
}

// Clock provides the current time. It can be mocked for testing.
//
// The returned values must be non-decreasing across calls. time.Now
// satisfies this: Go time.Time values carry a monotonic reading and Sub
// uses it, so wall-clock adjustments never produce negative elapsed time.
// If a custom Clock misbehaves anyway, the bucket clamps the elapsed time
// to zero rather than corrupting its state.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Config holds configuration options for creating a new Limiter.
type Config struct {
	// Capacity is the maximum number of tokens the bucket can hold.
	Capacity float64

	// Rate is the number of tokens added per second.
	Rate Rate

	// Clock provides the current time. If nil, SystemClock is used.
	Clock Clock

	// InitialTokens is the number of tokens to start with.
	// If negative, starts with a full bucket.
	InitialTokens float64
}

// tokenBucket implements the Limiter interface.
//
// The tokens and lastRefill fields are the only mutable state; both are
// read and written exclusively inside the mutex, so every refill-then-debit
// sequence is observed atomically.
type tokenBucket struct {
	mu         sync.Mutex
	capacity   float64
	rate       Rate
	tokens     float64
	lastRefill time.Time
	clock      Clock
}

// New creates a token bucket limiter with the given capacity and rate.
// The bucket starts full. It returns an error wrapping
// errors.ErrInvalidConfiguration when either parameter is not a positive
// finite number.
func New(capacity float64, rate Rate) (Limiter, error) {
	return NewWithConfig(Config{
		Capacity:      capacity,
		Rate:          rate,
		Clock:         SystemClock{},
		InitialTokens: -1, // Start with full capacity
	})
}

// NewWithConfig creates a token bucket limiter from config.
func NewWithConfig(config Config) (Limiter, error) {
	if err := validation.ValidatePositiveFloat("bucket", "capacity", config.Capacity); err != nil {
		return nil, err
	}
	if err := validation.ValidatePositiveFloat("bucket", "rate", float64(config.Rate)); err != nil {
		return nil, err
	}
	if config.Clock == nil {
		config.Clock = SystemClock{}
	}

	initialTokens := config.InitialTokens
	if initialTokens < 0 {
		initialTokens = config.Capacity
	}
	if initialTokens > config.Capacity {
		initialTokens = config.Capacity
	}

	return &tokenBucket{
		capacity:   config.Capacity,
		rate:       config.Rate,
		tokens:     initialTokens,
		lastRefill: config.Clock.Now(),
		clock:      config.Clock,
	}, nil
}
