package proof

import "fmt"

// ValidationError reports a malformed leaf hash or audit trail entry.
// Index is the position of the offending element in the wire array, or -1
// when the problem is not tied to one element.
type ValidationError struct {
	Index   int
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "invalid audit trail"
	}
	location := e.Field
	if e.Index >= 0 {
		location = fmt.Sprintf("audit_trail[%d]", e.Index)
		if e.Field != "" {
			location = fmt.Sprintf("%s.%s", location, e.Field)
		}
	}

	message := e.Message
	if location != "" {
		message = fmt.Sprintf("%s: %s", location, message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("invalid audit trail: %s: %v", message, e.Cause)
	}
	return "invalid audit trail: " + message
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
