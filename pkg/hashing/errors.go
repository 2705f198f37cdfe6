package hashing

import (
	"errors"
	"fmt"
)

// ErrInvalidEncoding is returned when a pre-image is not valid UTF-8 text.
var ErrInvalidEncoding = errors.New("input is not valid UTF-8")

// ValidationError reports malformed input. It is never a verification result:
// callers surface it as an input problem rather than a failed proof.
type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "invalid input"
	}
	message := e.Message
	if e.Field != "" {
		message = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", message, e.Cause)
	}
	return message
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
