package instrumentation

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMetrics_Record(t *testing.T) {
	ctx := context.Background()
	metrics := newTestProvider(t).Metrics()

	// Should not panic
	metrics.RecordPass(ctx, StatusSuccess, 2*time.Second)
	metrics.RecordPass(ctx, StatusError, 100*time.Millisecond)
	metrics.RecordMessage(ctx, StatusSuccess)
	metrics.RecordMessage(ctx, StatusError)
	metrics.RecordDisposition(ctx, "trash")
	metrics.RecordAttachmentSaved(ctx, 1024)
	metrics.RecordGoogleAPIOperation(ctx, ServiceGmail, OperationGetAttachment, StatusSuccess, 200*time.Millisecond)
	metrics.RecordOAuthAuth(ctx, OAuthResultSuccess)
	metrics.RecordOAuthAuth(ctx, OAuthResultReused)
}

func TestMetrics_NilAndZeroValue(t *testing.T) {
	ctx := context.Background()

	for name, m := range map[string]*Metrics{"nil": nil, "zero": {}} {
		t.Run(name, func(t *testing.T) {
			m.RecordPass(ctx, StatusSuccess, time.Second)
			m.RecordMessage(ctx, StatusSuccess)
			m.RecordDisposition(ctx, "read")
			m.RecordAttachmentSaved(ctx, 10)
			m.RecordGoogleAPIOperation(ctx, ServiceGmail, OperationTrash, StatusError, time.Second)
			m.RecordOAuthAuth(ctx, OAuthResultFailure)
		})
	}
}

func TestSpans(t *testing.T) {
	ctx := context.Background()

	ctx, pass := StartPassSpan(ctx, "pipan")
	msgCtx, msg := StartMessageSpan(ctx, "m1")
	_, api := StartGoogleAPISpan(msgCtx, ServiceGmail, OperationGetMessage)

	EndSpan(api, errors.New("boom"))
	EndSpan(msg, nil)
	EndSpan(pass, nil)

	// The global provider is a noop unless a test installed one.
	_ = TraceID(ctx)
	if got := TraceID(context.Background()); got != "" {
		t.Errorf("expected empty trace id without span, got %q", got)
	}
}
