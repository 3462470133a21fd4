package attachments

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/teemow/inboxsaver/internal/gmail"
	"github.com/teemow/inboxsaver/internal/logging"
)

// DecodeError means an attachment payload is not valid base64url. It aborts
// only the attachment it occurred for.
type DecodeError struct {
	Filename string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode attachment %s: %v", e.Filename, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// FilesystemError means a directory or file could not be written. It aborts
// the message being processed.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// Saved describes a written attachment.
type Saved struct {
	Filename string
	Path     string
	Size     int
}

// Store writes decoded attachments into a download directory.
type Store struct {
	// Dir is the download directory.
	Dir string
	// CaptureRaw writes the encoded payload to <filename>.base64 in
	// CaptureDir before decoding.
	CaptureRaw bool
	// CaptureDir defaults to the working directory.
	CaptureDir string
	// AllowUnsafe keeps filenames exactly as reported by the message.
	AllowUnsafe bool
	Logger      *slog.Logger

	mu       sync.Mutex
	prepared bool
}

// Prepare creates the download directory. Existing directories are fine.
func (s *Store) Prepare() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prepareLocked()
}

func (s *Store) prepareLocked() error {
	if s.prepared {
		return nil
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return &FilesystemError{Op: "create directory", Path: s.Dir, Err: err}
	}
	s.prepared = true
	return nil
}

// Save decodes encoded and writes it to the download directory under
// filename, replacing any existing file of that name.
func (s *Store) Save(filename, encoded string) (Saved, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := logging.OrDiscard(s.Logger)
	name := filename
	if !s.AllowUnsafe {
		name = gmail.SanitizeFilename(filename)
		if name != filename {
			logger.Warn("rewrote unsafe attachment filename",
				logging.Filename(filename),
				slog.String("sanitized", name))
		}
	}

	if s.CaptureRaw {
		capturePath := filepath.Join(s.CaptureDir, name+".base64")
		if err := os.WriteFile(capturePath, []byte(encoded), 0o644); err != nil {
			return Saved{}, &FilesystemError{Op: "write", Path: capturePath, Err: err}
		}
		logger.Debug("captured encoded attachment", slog.String("path", capturePath))
	}

	data, err := Decode(encoded)
	if err != nil {
		return Saved{}, &DecodeError{Filename: filename, Err: err}
	}

	if err := s.prepareLocked(); err != nil {
		return Saved{}, err
	}
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Saved{}, &FilesystemError{Op: "write", Path: path, Err: err}
	}
	return Saved{Filename: name, Path: path, Size: len(data)}, nil
}

// Decode decodes URL-safe base64 with or without padding.
func Decode(encoded string) ([]byte, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(encoded), "=")
	return base64.RawURLEncoding.DecodeString(trimmed)
}
