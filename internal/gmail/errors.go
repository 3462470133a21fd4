package gmail

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

// AuthError means no usable client could be built. No pass can proceed.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("gmail authorization failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// RemoteError wraps a failed Gmail API call.
type RemoteError struct {
	Op        string
	MessageID string
	// Code is the HTTP status code reported by the API, 0 if unknown.
	Code int
	Err  error
}

func newRemoteError(op, messageID string, err error) *RemoteError {
	re := &RemoteError{Op: op, MessageID: messageID, Err: err}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		re.Code = apiErr.Code
	}
	return re
}

func (e *RemoteError) Error() string {
	if e.MessageID != "" {
		return fmt.Sprintf("gmail %s for message %s failed: %v", e.Op, e.MessageID, e.Err)
	}
	return fmt.Sprintf("gmail %s failed: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// MalformedMessageError means a message lacks fields required to process it.
type MalformedMessageError struct {
	MessageID string
	Reason    string
}

func (e *MalformedMessageError) Error() string {
	return fmt.Sprintf("malformed message %s: %s", e.MessageID, e.Reason)
}
