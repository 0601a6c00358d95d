package pixiv

import (
	"errors"
	"fmt"
)

var (
	ErrSeriesNotFound    = errors.New("series not found")
	ErrEmptySeries       = errors.New("series is empty")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// RemoteError is a business-level rejection reported through the API envelope
// (error flag set, message carried alongside).
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote rejected request: %s", e.Message)
}

// TransportError wraps a network, timeout, bad-status, or decoding fault on
// the way to or from the remote platform.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
