package hashing

import (
	"fmt"
	"strings"
)

// HexLength is the length of a SHA-256 digest rendered as hexadecimal text.
const HexLength = 64

// Hash is a SHA-256 digest in hexadecimal form. It is compared by exact string
// equality and never parsed structurally.
type Hash string

func (h Hash) String() string {
	return string(h)
}

// PredictionType selects which aggregate forecast a leaf commits to.
type PredictionType string

const (
	PredictionCommunity PredictionType = "CP"
	PredictionMetaculus PredictionType = "MP"
)

// ParsePredictionType parses the provided input value.
func ParsePredictionType(raw string) (PredictionType, error) {
	normalized := PredictionType(strings.ToUpper(strings.TrimSpace(raw)))
	switch normalized {
	case PredictionCommunity, PredictionMetaculus:
		return normalized, nil
	case "":
		return "", &ValidationError{Field: "prediction_type", Message: "prediction type is required"}
	default:
		return "", &ValidationError{
			Field:   "prediction_type",
			Message: fmt.Sprintf("unsupported prediction type %q (expected CP or MP)", raw),
		}
	}
}

// Validate reports whether the type is one of the supported values.
func (p PredictionType) Validate() error {
	normalized, err := ParsePredictionType(string(p))
	if err != nil {
		return err
	}
	if normalized != p {
		return &ValidationError{
			Field:   "prediction_type",
			Message: fmt.Sprintf("prediction type %q must be written exactly as %q", string(p), string(normalized)),
		}
	}
	return nil
}

// ResponseField returns the name of the field carrying this prediction type in
// the forecasting service's prediction-for-date response.
func (p PredictionType) ResponseField() string {
	return strings.ToLower(string(p))
}
