package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	attrStatus      = "status"
	attrOperation   = "operation"
	attrService     = "service"
	attrResult      = "result"
	attrDisposition = "disposition"
)

// Metrics provides methods for recording observability metrics.
// The zero value records nothing.
type Metrics struct {
	passesTotal   metric.Int64Counter
	passDuration  metric.Float64Histogram
	messagesTotal metric.Int64Counter
	dispositions  metric.Int64Counter

	attachmentsSaved metric.Int64Counter
	attachmentBytes  metric.Int64Counter

	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram

	oauthAuthTotal metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.passesTotal, err = meter.Int64Counter(
		"passes_total",
		metric.WithDescription("Total number of mailbox passes"),
		metric.WithUnit("{pass}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create passes_total counter: %w", err)
	}

	m.passDuration, err = meter.Float64Histogram(
		"pass_duration_seconds",
		metric.WithDescription("Mailbox pass duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0, 300.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pass_duration_seconds histogram: %w", err)
	}

	m.messagesTotal, err = meter.Int64Counter(
		"messages_processed_total",
		metric.WithDescription("Total number of processed messages"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create messages_processed_total counter: %w", err)
	}

	m.dispositions, err = meter.Int64Counter(
		"dispositions_total",
		metric.WithDescription("Total number of applied message dispositions"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dispositions_total counter: %w", err)
	}

	m.attachmentsSaved, err = meter.Int64Counter(
		"attachments_saved_total",
		metric.WithDescription("Total number of attachments written to disk"),
		metric.WithUnit("{attachment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create attachments_saved_total counter: %w", err)
	}

	m.attachmentBytes, err = meter.Int64Counter(
		"attachment_bytes_total",
		metric.WithDescription("Total number of decoded attachment bytes written to disk"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create attachment_bytes_total counter: %w", err)
	}

	m.googleAPIOperationsTotal, err = meter.Int64Counter(
		"google_api_operations_total",
		metric.WithDescription("Total number of Google API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operations_total counter: %w", err)
	}

	m.googleAPIOperationDuration, err = meter.Float64Histogram(
		"google_api_operation_duration_seconds",
		metric.WithDescription("Google API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operation_duration_seconds histogram: %w", err)
	}

	m.oauthAuthTotal, err = meter.Int64Counter(
		"oauth_auth_total",
		metric.WithDescription("Total number of OAuth authorization attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_auth_total counter: %w", err)
	}

	return m, nil
}

// RecordPass records a finished pass.
func (m *Metrics) RecordPass(ctx context.Context, status string, duration time.Duration) {
	if m == nil || m.passesTotal == nil || m.passDuration == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(attrStatus, status))
	m.passesTotal.Add(ctx, 1, attrs)
	m.passDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordMessage records the result of processing one message.
func (m *Metrics) RecordMessage(ctx context.Context, status string) {
	if m == nil || m.messagesTotal == nil {
		return
	}
	m.messagesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStatus, status)))
}

// RecordDisposition records the disposition applied to a message.
func (m *Metrics) RecordDisposition(ctx context.Context, disposition string) {
	if m == nil || m.dispositions == nil {
		return
	}
	m.dispositions.Add(ctx, 1, metric.WithAttributes(attribute.String(attrDisposition, disposition)))
}

// RecordAttachmentSaved records one attachment of size bytes written to disk.
func (m *Metrics) RecordAttachmentSaved(ctx context.Context, size int) {
	if m == nil || m.attachmentsSaved == nil || m.attachmentBytes == nil {
		return
	}
	m.attachmentsSaved.Add(ctx, 1)
	m.attachmentBytes.Add(ctx, int64(size))
}

// RecordGoogleAPIOperation records a Google API operation with service, operation,
// status, and duration.
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m == nil || m.googleAPIOperationsTotal == nil || m.googleAPIOperationDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	)
	m.googleAPIOperationsTotal.Add(ctx, 1, attrs)
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordOAuthAuth records an OAuth authorization attempt with result.
// Result should be one of: "success", "failure", "reused"
func (m *Metrics) RecordOAuthAuth(ctx context.Context, result string) {
	if m == nil || m.oauthAuthTotal == nil {
		return
	}
	m.oauthAuthTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}
