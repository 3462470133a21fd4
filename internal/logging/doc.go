// Package logging provides structured logging utilities for inboxsaver.
//
// All components log through log/slog. This package centralizes the
// attribute keys so that a message id, a filename or an error always shows up
// under the same key no matter which component logged it.
//
// # Usage Patterns
//
// Create a logger for a component and attach per-message attributes:
//
//	logger := logging.WithOperation(logging.New(os.Stderr, cfg.Verbose), "pass")
//	logger.Info("saved attachment",
//	    logging.MessageID(id),
//	    logging.Filename(name),
//	    logging.Size(n))
//
// Errors are logged with Err, which is safe to call with a nil error.
package logging
