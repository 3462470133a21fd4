// Package scheduler runs passes once or periodically until stopped.
//
// A Scheduler moves through Idle, Running, WaitingForInterval and Stopped.
// With a zero interval Start runs a single pass synchronously. Otherwise a
// single background goroutine alternates between running a pass and waiting
// for the interval. The wait sleeps in small increments and checks the stop
// flag on every increment, so Stop is honored quickly and returns only after
// the goroutine has exited. A pass that has started always runs to
// completion.
package scheduler
