// Package metrics provides Prometheus instrumentation for gopace components.
//
// # Overview
//
// The metrics package provides automatic instrumentation for:
//   - Admission decisions (requests, allows, denies, retry-after hints, token levels)
//   - Keyed limiters (tracked buckets, pruned buckets)
//   - Scheduled limit overrides (overrides applied)
//
// # Quick Start
//
// Enable metrics by using the metrics-enabled constructors:
//
//	limiter, err := bucket.NewWithMetrics(20, 10, "api_requests")
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	registry := prometheus.NewRegistry()
//	config := metrics.Config{
//		Enabled:  true,
//		Registry: registry,
//	}
//
//	limiter, err := bucket.NewWithConfigAndMetrics(
//		bucket.Config{Capacity: 20, Rate: 10},
//		"custom_limiter",
//		config,
//	)
//
// # Available Metrics
//
//   - gopace_admission_requests_total: Total number of admission requests
//   - gopace_admission_allowed_total: Total number of admitted requests
//   - gopace_admission_denied_total: Total number of denied requests
//   - gopace_admission_tokens_available: Number of tokens currently available
//   - gopace_admission_retry_after_seconds: Retry-after hints returned with denials
//   - gopace_keyed_buckets: Number of per-key buckets currently tracked
//   - gopace_keyed_buckets_pruned_total: Total number of idle buckets evicted
//   - gopace_schedule_overrides_applied_total: Total number of overrides applied
//
// # Labels
//
//   - limiter_type: "token_bucket"
//   - limiter_name: User-provided name for the limiter instance
//   - schedule_name: User-provided name for the schedule instance
//
// # Runtime Control
//
// Components implementing the Instrumentable interface support runtime control:
//
//	limiter.DisableMetrics()            // Stop collecting metrics
//	limiter.EnableMetrics(config)       // Re-enable with new config
//	enabled := limiter.MetricsEnabled() // Check current state
//
// # Performance
//
// Metrics collection is designed for minimal overhead: metrics are updated
// only when operations occur, with no background goroutines or timers.
package metrics
