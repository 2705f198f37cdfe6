package anchor

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/forecast-stamps/verifier-go/pkg/hashing"
	"github.com/forecast-stamps/verifier-go/pkg/mirror"
)

const (
	Protocol        = "forecast-stamp"
	OperationAnchor = "anchor"
)

// TopicReader lists topic messages. *mirror.Client implements it.
type TopicReader interface {
	GetTopicMessages(ctx context.Context, topicID string, options mirror.MessageQueryOptions) ([]mirror.TopicMessage, error)
}

type Config struct {
	TopicID   string
	PublicKey string
	Reader    TopicReader
	PageLimit int
	Logger    *zerolog.Logger
}

type Message struct {
	P         string       `json:"p"`
	Op        string       `json:"op"`
	Root      hashing.Hash `json:"root"`
	Timestamp string       `json:"timestamp,omitempty"`
	Sig       string       `json:"sig,omitempty"`
}

// Result describes the best anchor found for a root. Verified is true when a
// matching message exists and, if a publisher key is configured, its
// signature is valid.
type Result struct {
	TopicID            string       `json:"topic_id"`
	Root               hashing.Hash `json:"root"`
	Found              bool         `json:"found"`
	SignatureChecked   bool         `json:"signature_checked"`
	Verified           bool         `json:"verified"`
	SequenceNumber     int64        `json:"sequence_number,omitempty"`
	ConsensusTimestamp time.Time    `json:"consensus_timestamp,omitempty"`
	AnchoredTimestamp  string       `json:"anchored_timestamp,omitempty"`
	Reason             string       `json:"reason,omitempty"`
}
