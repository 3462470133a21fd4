// Package instrumentation provides OpenTelemetry metrics and tracing for
// inboxsaver.
//
// # Metrics
//
// Pass metrics:
//   - passes_total: Counter of passes by status
//   - pass_duration_seconds: Histogram of pass durations
//
// Message metrics:
//   - messages_processed_total: Counter of processed messages by status
//   - dispositions_total: Counter of applied dispositions by disposition
//   - attachments_saved_total: Counter of attachments written to disk
//   - attachment_bytes_total: Counter of decoded attachment bytes written
//
// Google API metrics:
//   - google_api_operations_total: Counter of Gmail API calls by operation and status
//   - google_api_operation_duration_seconds: Histogram of Gmail API call durations
//
// OAuth metrics:
//   - oauth_auth_total: Counter of authorization attempts by result
//
// # Configuration
//
// Instrumentation is configured through environment variables:
//
//	INSTRUMENTATION_ENABLED=true|false     (default: true)
//	METRICS_EXPORTER=prometheus|otlp|stdout (default: prometheus)
//	TRACING_EXPORTER=otlp|stdout|none      (default: none)
//	OTEL_EXPORTER_OTLP_ENDPOINT=host:port
//	OTEL_EXPORTER_OTLP_INSECURE=true|false (default: false)
//	OTEL_TRACES_SAMPLER_ARG=0.1
//	OTEL_SERVICE_NAME=inboxsaver
//
// Metrics recorded through a nil or disabled Metrics value are dropped, so
// callers never need to check whether instrumentation is configured.
package instrumentation
