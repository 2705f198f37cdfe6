package mirror

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/rs/zerolog"

	"github.com/forecast-stamps/verifier-go/pkg/shared"
)

const defaultMaxPages = 50

type Client struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	headers    map[string]string
	logger     zerolog.Logger
}

// NewClient creates a new Client.
func NewClient(config Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if baseURL == "" {
		networkURL, err := shared.MirrorBaseURL(config.Network)
		if err != nil {
			return nil, err
		}
		baseURL = networkURL
	}
	parsedBaseURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid mirror base URL: %w", err)
	}
	if parsedBaseURL.Scheme != "http" && parsedBaseURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid mirror base URL: scheme must be http or https")
	}
	if strings.TrimSpace(parsedBaseURL.Host) == "" {
		return nil, fmt.Errorf("invalid mirror base URL: host is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	headers := map[string]string{}
	for key, value := range config.Headers {
		headers[key] = value
	}

	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}

	return &Client{
		baseURL:    strings.TrimRight(parsedBaseURL.String(), "/"),
		httpClient: httpClient,
		apiKey:     strings.TrimSpace(config.APIKey),
		headers:    headers,
		logger:     logger.With().Str("component", "mirror").Logger(),
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetTopicMessages follows links.next until the listing ends or MaxPages
// pages have been read.
func (c *Client) GetTopicMessages(
	ctx context.Context,
	topicID string,
	options MessageQueryOptions,
) ([]TopicMessage, error) {
	parsedTopic, err := hedera.TopicIDFromString(strings.TrimSpace(topicID))
	if err != nil {
		return nil, fmt.Errorf("invalid topic ID %q: %w", topicID, err)
	}

	values := url.Values{}
	if options.Timestamp != "" {
		values.Set("timestamp", options.Timestamp)
	}
	if options.Limit > 0 {
		values.Set("limit", strconv.Itoa(options.Limit))
	}
	if options.Order != "" {
		values.Set("order", options.Order)
	}
	maxPages := options.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}

	next := fmt.Sprintf("/api/v1/topics/%s/messages", parsedTopic.String())
	if encoded := values.Encode(); encoded != "" {
		next = next + "?" + encoded
	}

	result := make([]TopicMessage, 0)
	for page := 0; next != "" && page < maxPages; page++ {
		var response topicMessagesResponse
		if err := c.getJSON(ctx, next, &response); err != nil {
			return nil, err
		}
		result = append(result, response.Messages...)
		next = response.Links.Next
	}
	if next != "" {
		c.logger.Debug().Str("topic", parsedTopic.String()).Int("pages", maxPages).Msg("stopped paging topic messages")
	}

	return result, nil
}

// DecodeMessageData returns the base64-decoded message payload.
func DecodeMessageData(message TopicMessage) ([]byte, error) {
	if strings.TrimSpace(message.Message) == "" {
		return nil, fmt.Errorf("message payload is empty")
	}
	return base64.StdEncoding.DecodeString(message.Message)
}

// ConsensusTime parses a "seconds.nanoseconds" consensus timestamp.
func ConsensusTime(message TopicMessage) (time.Time, error) {
	secondsText, nanosText, _ := strings.Cut(strings.TrimSpace(message.ConsensusTimestamp), ".")
	seconds, err := strconv.ParseInt(secondsText, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid consensus timestamp %q: %w", message.ConsensusTimestamp, err)
	}
	var nanos int64
	if nanosText != "" {
		nanosText = (nanosText + "000000000")[:9]
		nanos, err = strconv.ParseInt(nanosText, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid consensus timestamp %q: %w", message.ConsensusTimestamp, err)
		}
	}
	return time.Unix(seconds, nanos).UTC(), nil
}

// FormatTimestamp renders t in the mirror node's timestamp query syntax.
func FormatTimestamp(t time.Time) string {
	return fmt.Sprintf("%d.%09d", t.Unix(), t.Nanosecond())
}

func (c *Client) getJSON(ctx context.Context, pathOrURL string, target any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolveURL(pathOrURL), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	request.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		request.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}
	for key, value := range c.headers {
		request.Header.Set(key, value)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("mirror node request failed: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("failed to read mirror node response: %w", err)
	}
	c.logger.Debug().Str("url", request.URL.Path).Int("status", response.StatusCode).Msg("mirror request")

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf(
			"mirror node request failed with status %d: %s",
			response.StatusCode,
			strings.TrimSpace(string(body)),
		)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode mirror node response: %w", err)
	}
	return nil
}

func (c *Client) resolveURL(pathOrURL string) string {
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL
	}
	if !strings.HasPrefix(pathOrURL, "/") {
		pathOrURL = "/" + pathOrURL
	}
	return c.baseURL + pathOrURL
}
