package mirror

import (
	"net/http"

	"github.com/rs/zerolog"
)

type Config struct {
	Network    string
	BaseURL    string
	HTTPClient *http.Client
	APIKey     string
	Headers    map[string]string
	Logger     *zerolog.Logger
}

// MessageQueryOptions filters a topic message listing. Timestamp takes the
// mirror node's operator syntax, e.g. "lte:1709251512.000000000".
type MessageQueryOptions struct {
	Timestamp string
	Limit     int
	Order     string
	MaxPages  int
}

type TopicMessage struct {
	ConsensusTimestamp string     `json:"consensus_timestamp"`
	ChunkInfo          *ChunkInfo `json:"chunk_info,omitempty"`
	Message            string     `json:"message"`
	PayerAccountID     string     `json:"payer_account_id"`
	RunningHash        string     `json:"running_hash"`
	SequenceNumber     int64      `json:"sequence_number"`
	TopicID            string     `json:"topic_id"`
}

type ChunkInfo struct {
	Number int `json:"number,omitempty"`
	Total  int `json:"total,omitempty"`
}

type topicMessagesResponse struct {
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
	Messages []TopicMessage `json:"messages"`
}
