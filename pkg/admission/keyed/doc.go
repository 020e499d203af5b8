/*
Package keyed provides per-key token bucket admission control.

A keyed limiter lazily creates one bucket per key (client ID, IP address,
tenant) from a shared configuration, so each key gets its own burst
capacity and refill rate:

	limiter, err := keyed.New(20, 10) // per key: burst 20, 10 tokens/sec
	if err != nil {
		// invalid configuration
	}

	d, err := limiter.Allow(clientIP)
	if err != nil {
		// malformed call
	}
	if !d.Allowed {
		// throttle this client; hint d.RetryAfter
	}

Idle buckets can be evicted to bound memory:

	evicted := limiter.Prune(10 * time.Minute)

The limiter coordinates admission within a single process only; it is not
a distributed rate limiter.
*/
package keyed
