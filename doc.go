/*
Package gopace provides token bucket admission control for concurrent Go
applications, with per-key limiting, scheduled policy overrides, and
Prometheus instrumentation.

Admission Control (pkg/admission):
  - bucket: Token bucket limiter with burst capacity and retry hints
  - keyed: Independent per-key buckets sharing one configuration
  - schedule: Cron-driven rate/capacity overrides

Observability (pkg/metrics):
  - Prometheus counters, gauges and histograms for every limiter

Example usage:

	import "github.com/vnykmshr/gopace/pkg/admission/bucket"

	limiter, err := bucket.New(30, 10) // burst 30, 10 tokens/sec
	if err != nil {
		log.Fatal(err)
	}

	d, err := limiter.Allow()
	if err != nil {
		// malformed call
	}
	if d.Allowed {
		// proceed
	} else {
		// throttled; retry no sooner than d.RetryAfter
	}
*/
package gopace
