package commitment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound means no Merkle root was published for the requested date.
	ErrNotFound = errors.New("no merkle root published for date")
	// ErrNotAvailable means the question has no prediction of the requested
	// type at the stamp timestamp, or it is not accessible.
	ErrNotAvailable = errors.New("prediction does not exist or is not accessible")
)

// RemoteVerificationError is returned when the forecasting service itself
// declines to vouch for the leaf under the root.
type RemoteVerificationError struct {
	Message string
	Body    string
}

func (e *RemoteVerificationError) Error() string {
	if e == nil || e.Message == "" {
		return "remote verification error"
	}
	return e.Message
}

// TransportError is a network failure or a non-2xx response. Status is zero
// when no response was received.
type TransportError struct {
	Message    string
	Status     int
	StatusText string
	Body       string
	Cause      error
}

func (e *TransportError) Error() string {
	if e == nil {
		return "commitment request failed"
	}
	message := e.Message
	if message == "" {
		message = "commitment request failed"
	}
	if e.Status > 0 {
		message = fmt.Sprintf("%s (status=%d %s)", message, e.Status, e.StatusText)
		if e.Body != "" {
			message = fmt.Sprintf("%s: %s", message, e.Body)
		}
		return message
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", message, e.Cause)
	}
	return message
}

func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Temporary reports whether repeating the request could succeed.
func (e *TransportError) Temporary() bool {
	if e == nil {
		return false
	}
	return e.Status == 0 || e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

// ResponseError is a 2xx response whose body could not be understood.
type ResponseError struct {
	Message string
	Body    string
	Cause   error
}

func (e *ResponseError) Error() string {
	if e == nil {
		return "unexpected commitment response"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ResponseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// IsRemoteFailure reports whether err came from talking to the service
// rather than from the caller's input.
func IsRemoteFailure(err error) bool {
	var transportErr *TransportError
	var responseErr *ResponseError
	var remoteErr *RemoteVerificationError
	return errors.As(err, &transportErr) ||
		errors.As(err, &responseErr) ||
		errors.As(err, &remoteErr) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrNotAvailable)
}

// IsRetryable reports whether err is a transient transport failure.
func IsRetryable(err error) bool {
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return transportErr.Temporary()
}
