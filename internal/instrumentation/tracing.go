package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the tracer name used for all inboxsaver spans.
const TracerName = "github.com/teemow/inboxsaver"

// Span attribute keys.
const (
	SpanAttrService     = "google.service"
	SpanAttrOperation   = "google.operation"
	SpanAttrMessageID   = "gmail.message_id"
	SpanAttrLabel       = "gmail.label"
	SpanAttrMessages    = "inboxsaver.messages"
	SpanAttrSaved       = "inboxsaver.attachments_saved"
	SpanAttrDisposition = "inboxsaver.disposition"
)

// StartSpan starts a new span with the given name and attributes.
// The caller is responsible for ending the span with defer span.End().
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartPassSpan starts the root span of a mailbox pass.
func StartPassSpan(ctx context.Context, label string) (context.Context, trace.Span) {
	return StartSpan(ctx, "pass", attribute.String(SpanAttrLabel, label))
}

// StartMessageSpan starts a span for processing one message.
func StartMessageSpan(ctx context.Context, messageID string) (context.Context, trace.Span) {
	return StartSpan(ctx, "message.process", attribute.String(SpanAttrMessageID, messageID))
}

// StartGoogleAPISpan starts a client span for Google API operations.
func StartGoogleAPISpan(ctx context.Context, service, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+2)
	allAttrs = append(allAttrs,
		attribute.String(SpanAttrService, service),
		attribute.String(SpanAttrOperation, operation),
	)
	allAttrs = append(allAttrs, attrs...)

	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "google."+service+"."+operation,
		trace.WithAttributes(allAttrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// EndSpan records err on the span, if any, sets its status and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// TraceID returns the trace ID from the current span in context, or an
// empty string if there is none.
func TraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}
