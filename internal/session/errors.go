package session

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned when a submission is already in flight.
	ErrBusy = errors.New("a submission is already in progress")
	// ErrRejectedLocally marks input refused before any network call.
	ErrRejectedLocally = errors.New("submission rejected locally")

	ErrNoFiles  = fmt.Errorf("%w: no files selected", ErrRejectedLocally)
	ErrBlankURL = fmt.Errorf("%w: url is empty", ErrRejectedLocally)
)

// User facing messages for failed submissions. The service's own error text is never shown.
const (
	MsgFileFailed  = "Failed to extract text from file"
	MsgFilesFailed = "Failed to extract text from files"
	MsgURLFailed   = "Failed to extract text from URL"
)

// RemoteError is a transport or service failure. Message is what the user sees;
// Err keeps the underlying cause for logs and errors.Is.
type RemoteError struct {
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
