/*
Package admission provides in-process admission control primitives.

This package groups three components:

  - bucket: Token bucket limiter deciding, per unit of work, whether it
    may proceed now or should wait
  - keyed: Per-key bucket registry for limiting many clients independently
  - schedule: Cron-driven rate and capacity overrides

The token bucket is the core primitive:

	limiter, err := bucket.New(30, 10) // burst 30, refill 10 tokens/sec
	d, err := limiter.Allow()
	if !d.Allowed {
		time.Sleep(d.RetryAfter) // caller-side backoff policy
	}

All limiters are safe for concurrent use; decisions are non-blocking and
execute as a single guarded state transition, so the token level observed
after any set of concurrent calls corresponds to some serial ordering of
those calls.

These primitives coordinate access within a single process only. They are
not distributed rate limiters.
*/
package admission
