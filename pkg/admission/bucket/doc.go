/*
Package bucket provides token bucket admission control for shared resources
accessed by concurrent callers.

A bucket holds up to Capacity tokens and is replenished continuously at
Rate tokens per second. Each admission check debits its cost atomically
from the current level: work is admitted while sufficient tokens exist,
and denied otherwise with a hint for how long to wait.

Basic usage:

	limiter, err := bucket.New(30, 10) // burst of 30, refill 10 tokens/sec
	if err != nil {
		// invalid configuration
	}

	d, err := limiter.Allow()
	if err != nil {
		// malformed call (bad cost)
	}
	if d.Allowed {
		// proceed; d.Remaining tokens left
	} else {
		// throttled; wait at least d.RetryAfter before retrying
	}

Decisions vs errors:

Denial is a normal outcome, communicated through the Decision value. Errors
are reserved for caller mistakes: invalid construction parameters and
invalid per-call costs. The limiter never sleeps, retries, or logs
internally; backing off on denial is caller-side policy.

Weighted admission:

Costs are floating point, so heavier work can debit more than one token:

	d, err := limiter.AllowN(2.5)

A cost exceeding the capacity is legal but can never succeed; such calls
are always denied with a finite RetryAfter computed from a full bucket.
Callers should treat that case as a configuration error rather than
retrying forever.

Clock source:

Elapsed time is measured with the monotonic reading carried by time.Time,
so wall-clock adjustments never produce negative elapsed time. If a custom
Clock runs backward anyway, the refill for that call is clamped to zero
and the bucket state is left intact.

Thread safety:

All operations are safe for concurrent use. The entire refill-then-debit
sequence executes under a single mutex per bucket, so the observable token
level after any set of concurrent calls is equivalent to some serial
ordering of those calls and the level always stays within [0, Capacity].
*/
package bucket
