package anchor

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/rs/zerolog"

	"github.com/forecast-stamps/verifier-go/pkg/hashing"
	"github.com/forecast-stamps/verifier-go/pkg/mirror"
)

const defaultPageLimit = 100

type Checker struct {
	topicID   string
	reader    TopicReader
	verify    signatureVerifier
	pageLimit int
	logger    zerolog.Logger
}

// NewChecker validates the topic ID and publisher key. Without a key, a
// matching message is accepted unsigned.
func NewChecker(config Config) (*Checker, error) {
	topicID, err := hedera.TopicIDFromString(strings.TrimSpace(config.TopicID))
	if err != nil {
		return nil, fmt.Errorf("invalid anchor topic ID %q: %w", config.TopicID, err)
	}
	if config.Reader == nil {
		return nil, fmt.Errorf("anchor topic reader is required")
	}

	var verify signatureVerifier
	if strings.TrimSpace(config.PublicKey) != "" {
		verify, err = parsePublicKey(config.PublicKey)
		if err != nil {
			return nil, err
		}
	}

	pageLimit := config.PageLimit
	if pageLimit <= 0 {
		pageLimit = defaultPageLimit
	}
	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}

	return &Checker{
		topicID:   topicID.String(),
		reader:    config.Reader,
		verify:    verify,
		pageLimit: pageLimit,
		logger:    logger.With().Str("component", "anchor").Logger(),
	}, nil
}

func (c *Checker) TopicID() string {
	return c.topicID
}

// FindAnchor scans the topic, from since onwards when since is set, for an
// anchor of root. Unreadable messages are skipped. The error is non-nil only
// when the topic could not be read.
func (c *Checker) FindAnchor(ctx context.Context, root hashing.Hash, since time.Time) (Result, error) {
	result := Result{TopicID: c.topicID, Root: root}
	if err := root.Validate(); err != nil {
		return result, err
	}

	options := mirror.MessageQueryOptions{Limit: c.pageLimit, Order: "asc"}
	if !since.IsZero() {
		options.Timestamp = "gte:" + mirror.FormatTimestamp(since)
	}
	messages, err := c.reader.GetTopicMessages(ctx, c.topicID, options)
	if err != nil {
		return result, fmt.Errorf("failed to read anchor topic %s: %w", c.topicID, err)
	}

	for _, topicMessage := range messages {
		message, ok := c.decode(topicMessage)
		if !ok || message.Root != root {
			continue
		}

		candidate := result
		candidate.Found = true
		candidate.Reason = ""
		candidate.SequenceNumber = topicMessage.SequenceNumber
		candidate.AnchoredTimestamp = message.Timestamp
		if consensus, err := mirror.ConsensusTime(topicMessage); err == nil {
			candidate.ConsensusTimestamp = consensus
		}

		if c.verify == nil {
			candidate.Verified = true
			return candidate, nil
		}

		candidate.SignatureChecked = true
		if c.signatureValid(message) {
			candidate.Verified = true
			return candidate, nil
		}
		candidate.Reason = fmt.Sprintf("anchor at sequence %d has an invalid signature", topicMessage.SequenceNumber)
		result = candidate
	}

	if !result.Found {
		result.Reason = fmt.Sprintf("root not anchored in topic %s", c.topicID)
	}
	return result, nil
}

func (c *Checker) decode(topicMessage mirror.TopicMessage) (Message, bool) {
	payload, err := mirror.DecodeMessageData(topicMessage)
	if err != nil {
		c.logger.Debug().Err(err).Int64("sequence", topicMessage.SequenceNumber).Msg("skipping undecodable message")
		return Message{}, false
	}
	message, err := DecodeMessage(payload)
	if err != nil {
		c.logger.Debug().Err(err).Int64("sequence", topicMessage.SequenceNumber).Msg("skipping non-anchor message")
		return Message{}, false
	}
	if message.P != Protocol || message.Op != OperationAnchor {
		return Message{}, false
	}
	return message, true
}

func (c *Checker) signatureValid(message Message) bool {
	signature, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(message.Sig), "0x"))
	if err != nil || len(signature) == 0 {
		return false
	}
	return c.verify([]byte(message.Root), signature)
}
