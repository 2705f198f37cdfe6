package verifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/forecast-stamps/verifier-go/pkg/commitment"
	"github.com/forecast-stamps/verifier-go/pkg/hashing"
	"github.com/forecast-stamps/verifier-go/pkg/proof"
)

var stampLayouts = []string{"2006-01-02T15:04:05", commitment.TimestampLayout}

type Verifier struct {
	source        commitment.CommitmentSource
	anchor        AnchorChecker
	requireAnchor bool
	logger        zerolog.Logger
}

func New(config Config) (*Verifier, error) {
	if config.Source == nil {
		return nil, errors.New("commitment source is required")
	}
	if config.RequireAnchor && config.Anchor == nil {
		return nil, errors.New("anchor checker is required when anchors are mandatory")
	}
	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}
	return &Verifier{
		source:        config.Source,
		anchor:        config.Anchor,
		requireAnchor: config.RequireAnchor,
		logger:        logger.With().Str("component", "verifier").Logger(),
	}, nil
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	date, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, &hashing.ValidationError{Field: "for_date", Message: "date must be YYYY-MM-DD", Cause: err}
	}
	return date, nil
}

func (r Request) Validate() error {
	if r.QuestionID <= 0 {
		return &hashing.ValidationError{Field: "question_id", Message: "question ID must be positive"}
	}
	if r.ForDate.IsZero() {
		return &hashing.ValidationError{Field: "for_date", Message: "date is required"}
	}
	return r.PredictionType.Validate()
}

// VerifyPrediction runs one verification. A nil error with
// Report.Verified == false is a definitive negative verdict; errors are input
// or remote failures that prevented a verdict.
func (v *Verifier) VerifyPrediction(ctx context.Context, request Request) (Report, error) {
	if request.PredictionType == "" {
		request.PredictionType = hashing.PredictionCommunity
	}
	report := Report{
		QuestionID:     request.QuestionID,
		PredictionType: request.PredictionType,
		ForDate:        request.ForDate.UTC().Format(DateLayout),
	}
	if err := request.Validate(); err != nil {
		return report, err
	}
	logger := v.logger.With().Int64("question_id", request.QuestionID).Str("for_date", report.ForDate).Logger()

	stamp, err := v.source.FetchRootForDate(ctx, request.ForDate)
	if err != nil {
		return report, fmt.Errorf("fetch merkle root: %w", err)
	}
	report.Stamp = stamp

	prediction, err := v.source.FetchPredictionForDate(ctx, request.QuestionID, stamp.Timestamp, request.PredictionType)
	if err != nil {
		return report, fmt.Errorf("fetch prediction: %w", err)
	}
	report.Prediction = prediction

	leaf, canonical, err := hashing.LeafHash(request.QuestionID, request.PredictionType, prediction)
	if err != nil {
		return report, fmt.Errorf("hash prediction: %w", err)
	}
	report.CanonicalLeaf = string(canonical)
	report.LeafHash = leaf
	logger.Debug().Str("leaf", string(leaf)).Str("root", string(stamp.MerkleRoot)).Msg("computed leaf hash")

	trail, err := v.source.FetchAuditTrail(ctx, stamp.MerkleRoot, leaf)
	if err != nil {
		return report, fmt.Errorf("fetch audit trail: %w", err)
	}
	report.TrailRoot = trail.Root

	result, err := proof.Replay(leaf, trail)
	if err != nil {
		return report, err
	}
	report.ComputedRoot = result.ComputedRoot
	report.Steps = result.Steps
	report.ProofValid = result.Verified
	report.RootMatches = trail.Root == stamp.MerkleRoot

	switch {
	case !report.ProofValid:
		report.FailureReason = fmt.Sprintf("audit trail folds to %s, not %s", result.ComputedRoot, trail.Root)
	case !report.RootMatches:
		report.FailureReason = fmt.Sprintf("audit trail ends at %s, not the stamped root %s", trail.Root, stamp.MerkleRoot)
	}
	report.Verified = report.ProofValid && report.RootMatches

	if report.Verified && v.anchor != nil {
		if err := v.checkAnchor(ctx, &report, logger); err != nil {
			return report, err
		}
	}

	logger.Info().Bool("verified", report.Verified).Str("reason", report.FailureReason).Msg("verification finished")
	return report, nil
}

func (v *Verifier) checkAnchor(ctx context.Context, report *Report, logger zerolog.Logger) error {
	result, err := v.anchor.FindAnchor(ctx, report.Stamp.MerkleRoot, stampTime(report.Stamp))
	if err != nil {
		if v.requireAnchor {
			return fmt.Errorf("%w: %w", ErrAnchorUnavailable, err)
		}
		logger.Warn().Err(err).Msg("anchor check failed")
		return nil
	}
	report.Anchor = &result

	if !result.Verified && v.requireAnchor {
		report.Verified = false
		report.FailureReason = "root is not anchored: " + result.Reason
	}
	return nil
}

func stampTime(stamp commitment.Stamp) time.Time {
	for _, layout := range stampLayouts {
		if parsed, err := time.Parse(layout, stamp.Timestamp); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
