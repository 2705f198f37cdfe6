package verifier

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/forecast-stamps/verifier-go/pkg/anchor"
	"github.com/forecast-stamps/verifier-go/pkg/commitment"
	"github.com/forecast-stamps/verifier-go/pkg/hashing"
	"github.com/forecast-stamps/verifier-go/pkg/proof"
)

// DateLayout is the layout of the for-date argument.
const DateLayout = "2006-01-02"

// AnchorChecker confirms a root independently of the commitment source.
// *anchor.Checker implements it.
type AnchorChecker interface {
	FindAnchor(ctx context.Context, root hashing.Hash, since time.Time) (anchor.Result, error)
}

type Config struct {
	Source        commitment.CommitmentSource
	Anchor        AnchorChecker
	RequireAnchor bool
	Logger        *zerolog.Logger
}

type Request struct {
	QuestionID     int64
	ForDate        time.Time
	PredictionType hashing.PredictionType
}

// Report is the outcome of one verification. Verified is the only verdict;
// the other fields show how it was reached.
type Report struct {
	QuestionID     int64                  `json:"question_id"`
	PredictionType hashing.PredictionType `json:"prediction_type"`
	ForDate        string                 `json:"for_date"`
	Stamp          commitment.Stamp       `json:"stamp"`
	Prediction     json.RawMessage        `json:"prediction,omitempty"`
	CanonicalLeaf  string                 `json:"canonical_leaf,omitempty"`
	LeafHash       hashing.Hash           `json:"leaf_hash,omitempty"`
	ComputedRoot   hashing.Hash           `json:"computed_root,omitempty"`
	TrailRoot      hashing.Hash           `json:"trail_root,omitempty"`
	Steps          []proof.Step           `json:"steps,omitempty"`
	ProofValid     bool                   `json:"proof_valid"`
	RootMatches    bool                   `json:"root_matches_stamp"`
	Anchor         *anchor.Result         `json:"anchor,omitempty"`
	Verified       bool                   `json:"verified"`
	FailureReason  string                 `json:"failure_reason,omitempty"`
}
