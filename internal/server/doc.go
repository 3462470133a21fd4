// Package server exposes operational endpoints for a running poller.
//
// MetricsServer serves Prometheus metrics on /metrics together with the
// probes of a HealthChecker:
//   - /healthz reports that the process is alive
//   - /readyz reports ready once the first pass has finished
//   - /healthz/detailed reports uptime, pass count and the last pass status
//
// The endpoints are meant for a dedicated port, separate from anything a user
// interacts with.
package server
