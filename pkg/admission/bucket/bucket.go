package bucket

import (
	"math"
	"time"

	"github.com/vnykmshr/gopace/pkg/common/errors"
)

// Allow attempts to admit one unit of work.
func (tb *tokenBucket) Allow() (Decision, error) {
	return tb.AllowN(1)
}

// AllowN attempts to admit work costing n tokens.
func (tb *tokenBucket) AllowN(cost float64) (Decision, error) {
	// Validate before touching any state so a bad call leaves the bucket
	// untouched.
	if math.IsNaN(cost) || math.IsInf(cost, 0) || cost <= 0 {
		return Decision{}, errors.NewArgumentError("bucket", "cost", cost, "must be positive and finite")
	}
	return tb.take(cost), nil
}

// take executes the refill-then-debit sequence as one critical section.
// The clock is read under the lock so refill timestamps are monotonic
// across callers; a timestamp sampled outside the lock could land after
// a later caller's refill and forfeit its accrual.
func (tb *tokenBucket) take(cost float64) Decision {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(tb.clock.Now())

	if tb.tokens >= cost {
		tb.tokens -= cost
		if tb.tokens < 0 {
			// Guard against accumulated floating-point drift.
			tb.tokens = 0
		}
		return Decision{Allowed: true, Remaining: tb.tokens}
	}

	deficit := cost - tb.tokens
	// Round the hint up so that waiting exactly RetryAfter is always
	// sufficient for the same cost to succeed.
	retry := time.Duration(math.Ceil(deficit / float64(tb.rate) * float64(time.Second)))
	return Decision{Allowed: false, RetryAfter: retry}
}

// refill credits tokens for the time elapsed since the last refill,
// saturating at capacity. A non-positive elapsed duration is skipped
// entirely: the clock is expected to be monotonic, and if it ever runs
// backward the bucket must neither lose tokens nor move lastRefill into
// the past.
func (tb *tokenBucket) refill(now time.Time) {
	elapsed := now.Sub(tb.lastRefill)
	if elapsed <= 0 {
		return
	}
	tb.tokens = math.Min(tb.capacity, tb.tokens+elapsed.Seconds()*float64(tb.rate))
	tb.lastRefill = now
}

// Tokens returns the number of tokens currently available.
func (tb *tokenBucket) Tokens() float64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(tb.clock.Now())
	return tb.tokens
}

// Capacity returns the maximum token level.
func (tb *tokenBucket) Capacity() float64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.capacity
}

// Rate returns the current replenishment rate.
func (tb *tokenBucket) Rate() Rate {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.rate
}

// SetRate changes the replenishment rate. Tokens accrued under the old
// rate are credited before the switch.
func (tb *tokenBucket) SetRate(rate Rate) error {
	if math.IsNaN(float64(rate)) || math.IsInf(float64(rate), 0) || rate <= 0 {
		return errors.NewValidationError("bucket", "rate", rate, "must be positive and finite")
	}

	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(tb.clock.Now())
	tb.rate = rate
	return nil
}

// SetCapacity changes the maximum token level, clamping the current level
// into the new bounds.
func (tb *tokenBucket) SetCapacity(capacity float64) error {
	if math.IsNaN(capacity) || math.IsInf(capacity, 0) || capacity <= 0 {
		return errors.NewValidationError("bucket", "capacity", capacity, "must be positive and finite")
	}

	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(tb.clock.Now())
	tb.capacity = capacity
	if tb.tokens > capacity {
		tb.tokens = capacity
	}
	return nil
}
