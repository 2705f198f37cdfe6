package commitment

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/forecast-stamps/verifier-go/pkg/hashing"
	"github.com/forecast-stamps/verifier-go/pkg/proof"
)

const (
	DefaultBaseURL = "https://www.metaculus.com/api2"

	// TimestampLayout is the layout of the stamp timestamp and of the date
	// parameter sent to the stamp endpoint.
	TimestampLayout = "2006-01-02 15:04:05"
	stampTimeLength = 19
)

// CommitmentSource supplies the remote half of a verification.
type CommitmentSource interface {
	FetchRootForDate(ctx context.Context, date time.Time) (Stamp, error)
	FetchPredictionForDate(
		ctx context.Context,
		questionID int64,
		timestamp string,
		predictionType hashing.PredictionType,
	) (json.RawMessage, error)
	FetchAuditTrail(ctx context.Context, root hashing.Hash, leaf hashing.Hash) (proof.AuditTrail, error)
}

// Stamp is a Merkle root published for a date. Timestamp holds the first 19
// characters of RawTimestamp.
type Stamp struct {
	MerkleRoot   hashing.Hash `json:"merkle_root"`
	Timestamp    string       `json:"timestamp"`
	RawTimestamp string       `json:"raw_timestamp,omitempty"`
}

type Config struct {
	BaseURL        string
	PredictionType hashing.PredictionType
	HTTPClient     *http.Client
	HTTPTimeout    time.Duration
	APIKey         string
	Headers        map[string]string
	Logger         *zerolog.Logger
}

type stampRecord struct {
	MerkleRoot      string `json:"merkle_root"`
	MerkleRootCamel string `json:"merkleRoot"`
	Timestamp       string `json:"timestamp"`
}

type auditTrailResponse struct {
	Verified        *bool           `json:"verified"`
	AuditTrail      json.RawMessage `json:"audit_trail"`
	AuditTrailCamel json.RawMessage `json:"auditTrail"`
}
