package verifier

import (
	"errors"
	"fmt"

	"github.com/forecast-stamps/verifier-go/pkg/hashing"
	"github.com/forecast-stamps/verifier-go/pkg/proof"
)

// ErrVerificationFailed is returned by Report.Err for a completed
// verification whose verdict is negative.
var ErrVerificationFailed = errors.New("verification failed")

// ErrAnchorUnavailable wraps a failure to read the anchor topic when anchors
// are mandatory.
var ErrAnchorUnavailable = errors.New("anchor check unavailable")

// Err returns nil for a verified report and wraps ErrVerificationFailed
// otherwise.
func (r Report) Err() error {
	if r.Verified {
		return nil
	}
	if r.FailureReason == "" {
		return ErrVerificationFailed
	}
	return fmt.Errorf("%w: %s", ErrVerificationFailed, r.FailureReason)
}

// IsInputError reports whether err is a validation failure of caller or
// remote input, as opposed to a transport problem or a negative verdict.
func IsInputError(err error) bool {
	var hashErr *hashing.ValidationError
	var proofErr *proof.ValidationError
	return errors.As(err, &hashErr) || errors.As(err, &proofErr)
}
