package logging

import (
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation   = "operation"
	KeyService     = "service"
	KeyStatus      = "status"
	KeyError       = "error"
	KeyErrorKind   = "error_kind"
	KeyMessageID   = "message_id"
	KeyFilename    = "filename"
	KeyContentType = "content_type"
	KeySize        = "size"
	KeyLabel       = "label"
	KeyDisposition = "disposition"
)

// Status values for consistent logging. They match the metric status
// values of the instrumentation package.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// New returns a text logger writing to w. Verbose enables debug output.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything. Used by tests and as the
// fallback when a component is built without a logger.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OrDiscard returns logger, or a discarding logger when logger is nil.
func OrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return Discard()
	}
	return logger
}

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithService returns a logger with the service attribute set.
func WithService(logger *slog.Logger, service string) *slog.Logger {
	return logger.With(slog.String(KeyService, service))
}

// WithMessage returns a logger scoped to a single message.
func WithMessage(logger *slog.Logger, id string) *slog.Logger {
	return logger.With(MessageID(id))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// MessageID returns a slog attribute for a remote message id.
func MessageID(id string) slog.Attr {
	return slog.String(KeyMessageID, id)
}

// Filename returns a slog attribute for an attachment filename.
func Filename(name string) slog.Attr {
	return slog.String(KeyFilename, name)
}

// ContentType returns a slog attribute for a part content type.
func ContentType(ct string) slog.Attr {
	return slog.String(KeyContentType, ct)
}

// Label returns a slog attribute for a mailbox label.
func Label(label string) slog.Attr {
	return slog.String(KeyLabel, label)
}

// Disposition returns a slog attribute for a message disposition.
func Disposition(d string) slog.Attr {
	return slog.String(KeyDisposition, d)
}

// Size returns a slog attribute with a human readable byte count.
func Size(n int) slog.Attr {
	if n < 0 {
		n = 0
	}
	return slog.String(KeySize, humanize.Bytes(uint64(n)))
}

// ErrorKind returns a slog attribute for a classified error kind.
func ErrorKind(kind string) slog.Attr {
	return slog.String(KeyErrorKind, kind)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from output.
// This allows safely passing Err(maybeNilErr) without adding empty attributes.
//
// Usage:
//
//	logger.Info("operation", logging.Err(err))  // Safe even if err is nil
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}
