/*
Package schedule applies time-of-day overrides to admission limiters.

A Scheduler pairs a limiter with cron-specified rate and capacity
overrides, so throughput policy can follow traffic patterns:

	limiter, _ := bucket.New(100, 50)

	sched, err := schedule.New(limiter)
	if err != nil {
		// nil target
	}

	// Generous limits during business hours, conservative overnight.
	sched.At("0 9 * * 1-5", 200, 400)
	sched.At("0 18 * * *", 50, 100)

	sched.Start()
	defer sched.Stop()

Overrides are validated when registered, evaluated by a single background
goroutine, and applied atomically through the limiter's own tuning methods.
*/
package schedule
