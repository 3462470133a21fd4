package processor

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/inboxsaver/internal/config"
	"github.com/teemow/inboxsaver/internal/gmail"
	"github.com/teemow/inboxsaver/internal/instrumentation"
	"github.com/teemow/inboxsaver/internal/logging"
)

// Result is the outcome of one message within a pass.
type Result struct {
	MessageID string
	Outcome   Outcome
	Kind      ErrorKind
	Err       error
}

// Status returns "success" or "error".
func (r Result) Status() string {
	if r.Err != nil {
		return instrumentation.StatusError
	}
	return instrumentation.StatusSuccess
}

// Summary aggregates the results of a pass.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Results   []Result
}

func (s *Summary) add(r Result) {
	s.Total++
	if r.Err != nil {
		s.Failed++
	} else {
		s.Succeeded++
	}
	s.Results = append(s.Results, r)
}

// Authorizer hands out a client that is ready for use.
type Authorizer interface {
	Authorize(ctx context.Context) (gmail.Client, error)
}

// Runner executes passes over the labeled unread messages.
type Runner struct {
	auth        Authorizer
	processor   *Processor
	label       string
	disposition config.Disposition
	logger      *slog.Logger
	metrics     *instrumentation.Metrics
}

// NewRunner creates a Runner for label. disposition decides whether the label
// id has to be resolved at the start of each pass.
func NewRunner(auth Authorizer, p *Processor, label string, disposition config.Disposition, logger *slog.Logger, metrics *instrumentation.Metrics) *Runner {
	return &Runner{
		auth:        auth,
		processor:   p,
		label:       label,
		disposition: disposition,
		logger:      logging.OrDiscard(logger),
		metrics:     metrics,
	}
}

// RunPass processes every unread message carrying the label, one at a time.
// Only an authorization or list failure fails the pass; message failures are
// recorded in the Summary.
func (r *Runner) RunPass(ctx context.Context) (summary Summary, err error) {
	start := time.Now()
	ctx, span := instrumentation.StartPassSpan(ctx, r.label)
	logger := r.logger.With(logging.Label(r.label))
	if traceID := instrumentation.TraceID(ctx); traceID != "" {
		logger = logger.With(slog.String("trace_id", traceID))
	}
	defer func() {
		status := instrumentation.StatusSuccess
		if err != nil {
			status = instrumentation.StatusError
		}
		r.metrics.RecordPass(ctx, status, time.Since(start))
		instrumentation.EndSpan(span, err)
	}()

	client, err := r.auth.Authorize(ctx)
	if err != nil {
		logger.Error("authorization failed", logging.Err(err))
		return summary, err
	}

	refs, err := client.ListMessages(ctx, r.label, true)
	if err != nil {
		logger.Error("failed to list messages", logging.Err(err))
		return summary, err
	}
	if len(refs) == 0 {
		logger.Info("no new messages")
		return summary, nil
	}
	logger.Info("found messages", slog.Int("count", len(refs)))
	span.SetAttributes(attribute.Int(instrumentation.SpanAttrMessages, len(refs)))

	labelID := r.label
	if r.disposition == config.DispositionUnlabel {
		labelID = r.resolveLabel(ctx, client, logger)
	}

	for _, ref := range refs {
		out, perr := r.processor.Process(ctx, client, ref, labelID)
		res := Result{MessageID: ref.ID, Outcome: out, Err: perr, Kind: Kind(perr)}
		summary.add(res)
		r.metrics.RecordMessage(ctx, res.Status())
		if perr != nil {
			logger.Warn("failed to process message",
				logging.MessageID(ref.ID),
				logging.ErrorKind(string(res.Kind)),
				logging.Err(perr))
		}
	}

	logger.Info("pass finished",
		slog.Int("total", summary.Total),
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("failed", summary.Failed),
		slog.Duration("duration", time.Since(start)))
	return summary, nil
}

// resolveLabel maps the label name to its id, falling back to the name.
func (r *Runner) resolveLabel(ctx context.Context, client gmail.Client, logger *slog.Logger) string {
	labels, err := client.ListLabels(ctx)
	if err != nil {
		logger.Warn("failed to list labels, using label name", logging.Err(err))
		return r.label
	}
	return gmail.ResolveLabelID(labels, r.label)
}
