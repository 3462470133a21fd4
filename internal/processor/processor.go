package processor

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/inboxsaver/internal/attachments"
	"github.com/teemow/inboxsaver/internal/config"
	"github.com/teemow/inboxsaver/internal/gmail"
	"github.com/teemow/inboxsaver/internal/instrumentation"
	"github.com/teemow/inboxsaver/internal/logging"
)

// DispositionOutcome is what happened to a message after processing.
type DispositionOutcome int

const (
	Unchanged DispositionOutcome = iota
	MarkedRead
	Trashed
	LabelRemoved
)

func (d DispositionOutcome) String() string {
	switch d {
	case MarkedRead:
		return "marked_read"
	case Trashed:
		return "trashed"
	case LabelRemoved:
		return "label_removed"
	default:
		return "unchanged"
	}
}

// Outcome summarizes the processing of one message.
type Outcome struct {
	MessageID string
	// Saved counts attachments written to disk.
	Saved int
	// Failed counts matching attachments that could not be decoded.
	Failed int
	// Skipped counts parts that were not attempted.
	Skipped     int
	Disposition DispositionOutcome
}

// Processor handles single messages.
type Processor struct {
	walker      attachments.Walker
	store       *attachments.Store
	disposition config.Disposition
	// rawDispose is reported when the configured value was not recognized.
	rawDispose string
	recognized bool
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
}

// Options configures a Processor.
type Options struct {
	Prefix      string
	Store       *attachments.Store
	Disposition config.Disposition
	// RawDispose is the dispose value as written in the configuration.
	RawDispose string
	Logger     *slog.Logger
	Metrics    *instrumentation.Metrics
}

// New creates a Processor.
func New(opts Options) *Processor {
	_, recognized := config.ParseDisposition(opts.RawDispose)
	if opts.RawDispose == "" {
		recognized = true
	}
	return &Processor{
		walker:      attachments.Walker{Prefix: opts.Prefix},
		store:       opts.Store,
		disposition: opts.Disposition,
		rawDispose:  opts.RawDispose,
		recognized:  recognized,
		logger:      logging.OrDiscard(opts.Logger),
		metrics:     opts.Metrics,
	}
}

// NewFromConfig creates a Processor for cfg writing through store.
func NewFromConfig(cfg *config.Config, store *attachments.Store, logger *slog.Logger, metrics *instrumentation.Metrics) *Processor {
	return New(Options{
		Prefix:      cfg.ContentTypePrefix,
		Store:       store,
		Disposition: cfg.Disposition,
		RawDispose:  cfg.RawDispose,
		Logger:      logger,
		Metrics:     metrics,
	})
}

// Process saves the matching attachments of ref and applies the disposition.
// labelID is removed when the disposition is unlabel. Remote and filesystem
// errors abort the message before any disposition is applied.
func (p *Processor) Process(ctx context.Context, client gmail.Client, ref gmail.MessageRef, labelID string) (out Outcome, err error) {
	out.MessageID = ref.ID
	ctx, span := instrumentation.StartMessageSpan(ctx, ref.ID)
	defer func() { instrumentation.EndSpan(span, err) }()

	logger := logging.WithMessage(p.logger, ref.ID)

	body, err := client.GetMessage(ctx, ref.ID)
	if err != nil {
		return out, err
	}

	fetcher := attachments.Fetcher{Client: client}
	for c := range p.walker.Candidates(body) {
		part := c.Part
		if c.Verdict != attachments.Match {
			out.Skipped++
			logger.Info("skipping part",
				logging.ContentType(part.ContentType),
				logging.Filename(part.Filename),
				slog.String("reason", c.Verdict.String()))
			continue
		}

		encoded, err := fetcher.Fetch(ctx, ref.ID, part)
		if err != nil {
			return out, err
		}
		saved, err := p.store.Save(part.Filename, encoded)
		if err != nil {
			if Kind(err) != KindDecode {
				return out, err
			}
			out.Failed++
			logger.Warn("failed to save attachment",
				logging.Filename(part.Filename),
				logging.ContentType(part.ContentType),
				logging.Err(err))
			continue
		}
		out.Saved++
		p.metrics.RecordAttachmentSaved(ctx, saved.Size)
		logger.Info("saved attachment",
			logging.Filename(saved.Filename),
			logging.ContentType(part.ContentType),
			logging.Size(saved.Size),
			slog.String("path", saved.Path))
	}

	d, err := p.dispose(ctx, client, ref.ID, labelID, out.Saved > 0)
	if err != nil {
		return out, err
	}
	out.Disposition = d
	span.SetAttributes(
		attribute.Int(instrumentation.SpanAttrSaved, out.Saved),
		attribute.String(instrumentation.SpanAttrDisposition, d.String()))
	p.metrics.RecordDisposition(ctx, d.String())
	logger.Info("processed message",
		logging.Disposition(d.String()),
		slog.Int("saved", out.Saved),
		slog.Int("failed", out.Failed),
		slog.Int("skipped", out.Skipped))
	return out, nil
}

func (p *Processor) dispose(ctx context.Context, client gmail.Client, id, labelID string, stored bool) (DispositionOutcome, error) {
	if !stored {
		if err := client.ModifyLabels(ctx, id, nil, []string{gmail.LabelUnread}); err != nil {
			return Unchanged, err
		}
		return MarkedRead, nil
	}

	switch p.disposition {
	case config.DispositionTrash:
		if err := client.TrashMessage(ctx, id); err != nil {
			return Unchanged, err
		}
		return Trashed, nil
	case config.DispositionRead:
		if err := client.ModifyLabels(ctx, id, nil, []string{gmail.LabelUnread}); err != nil {
			return Unchanged, err
		}
		return MarkedRead, nil
	case config.DispositionUnlabel:
		if labelID == "" {
			return Unchanged, fmt.Errorf("no label to remove from message %s", id)
		}
		if err := client.ModifyLabels(ctx, id, nil, []string{labelID}); err != nil {
			return Unchanged, err
		}
		return LabelRemoved, nil
	default:
		if !p.recognized {
			p.logger.Warn("unrecognized dispose value, leaving message unchanged",
				logging.MessageID(id),
				slog.String("dispose", p.rawDispose))
		} else {
			p.logger.Info("dispose is none, leaving message unchanged", logging.MessageID(id))
		}
		return Unchanged, nil
	}
}
