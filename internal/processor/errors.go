package processor

import (
	"errors"

	"github.com/teemow/inboxsaver/internal/attachments"
	"github.com/teemow/inboxsaver/internal/gmail"
)

// ErrorKind names the class of a per-message failure.
type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindAuth       ErrorKind = "auth"
	KindRemote     ErrorKind = "remote"
	KindMalformed  ErrorKind = "malformed"
	KindFilesystem ErrorKind = "filesystem"
	KindDecode     ErrorKind = "decode"
	KindUnknown    ErrorKind = "unknown"
)

// Kind classifies err.
func Kind(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var (
		authErr      *gmail.AuthError
		malformedErr *gmail.MalformedMessageError
		fsErr        *attachments.FilesystemError
		decodeErr    *attachments.DecodeError
		remoteErr    *gmail.RemoteError
	)
	switch {
	case errors.As(err, &authErr):
		return KindAuth
	case errors.As(err, &malformedErr):
		return KindMalformed
	case errors.As(err, &fsErr):
		return KindFilesystem
	case errors.As(err, &decodeErr):
		return KindDecode
	case errors.As(err, &remoteErr):
		return KindRemote
	default:
		return KindUnknown
	}
}
