package commitment

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/rs/zerolog"

	"github.com/forecast-stamps/verifier-go/pkg/hashing"
	"github.com/forecast-stamps/verifier-go/pkg/proof"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	maxResponseBytes   = 8 << 20
	auditTrailFailure  = "wasn't able to proceed with verification"
)

// Client is the HTTP CommitmentSource for the forecasting service.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	apiKey         string
	headers        map[string]string
	predictionType hashing.PredictionType
	logger         zerolog.Logger
}

var _ CommitmentSource = (*Client)(nil)

// NewClient creates a new Client.
func NewClient(config Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsedBaseURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid commitment base URL: %w", err)
	}
	if parsedBaseURL.Scheme != "http" && parsedBaseURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid commitment base URL: scheme must be http or https")
	}
	if strings.TrimSpace(parsedBaseURL.Host) == "" {
		return nil, fmt.Errorf("invalid commitment base URL: host is required")
	}
	baseURL = strings.TrimRight(parsedBaseURL.String(), "/")

	predictionType := config.PredictionType
	if predictionType == "" {
		predictionType = hashing.PredictionCommunity
	}
	if err := predictionType.Validate(); err != nil {
		return nil, err
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.HTTPTimeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
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
		baseURL:        baseURL,
		httpClient:     httpClient,
		apiKey:         strings.TrimSpace(config.APIKey),
		headers:        headers,
		predictionType: predictionType,
		logger:         logger.With().Str("component", "commitment").Logger(),
	}, nil
}

// BaseURL returns the normalized service URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PredictionType returns the type used when a request does not name one.
func (c *Client) PredictionType() hashing.PredictionType {
	return c.predictionType
}

// FetchRootForDate returns the first stamp published at or after date.
func (c *Client) FetchRootForDate(ctx context.Context, date time.Time) (Stamp, error) {
	if date.IsZero() {
		return Stamp{}, &hashing.ValidationError{Field: "for_date", Message: "date is required"}
	}

	values := url.Values{}
	values.Set("timestamp", date.UTC().Format(TimestampLayout))

	var records []stampRecord
	if err := c.getJSON(ctx, "/tezos/?"+values.Encode(), "stamp request failed", &records); err != nil {
		return Stamp{}, err
	}
	if len(records) == 0 {
		return Stamp{}, fmt.Errorf("%w: %s", ErrNotFound, date.UTC().Format("2006-01-02"))
	}

	record := records[0]
	rawRoot := record.MerkleRoot
	if rawRoot == "" {
		rawRoot = record.MerkleRootCamel
	}
	root, err := hashing.ParseHashField("merkle_root", rawRoot)
	if err != nil {
		return Stamp{}, &ResponseError{Message: "stamp has a malformed merkle root", Cause: err}
	}
	if len(record.Timestamp) < stampTimeLength {
		return Stamp{}, &ResponseError{Message: fmt.Sprintf("stamp timestamp %q is too short", record.Timestamp)}
	}

	stamp := Stamp{
		MerkleRoot:   root,
		Timestamp:    record.Timestamp[:stampTimeLength],
		RawTimestamp: record.Timestamp,
	}
	c.logger.Debug().Str("root", string(stamp.MerkleRoot)).Str("timestamp", stamp.Timestamp).Msg("resolved stamp")
	return stamp, nil
}

// FetchPredictionForDate returns the raw JSON of the prediction value as the
// service sent it. An empty predictionType falls back to the client's type.
func (c *Client) FetchPredictionForDate(
	ctx context.Context,
	questionID int64,
	timestamp string,
	predictionType hashing.PredictionType,
) (json.RawMessage, error) {
	if questionID <= 0 {
		return nil, &hashing.ValidationError{Field: "question_id", Message: "question ID must be positive"}
	}
	if strings.TrimSpace(timestamp) == "" {
		return nil, &hashing.ValidationError{Field: "timestamp", Message: "timestamp is required"}
	}
	if predictionType == "" {
		predictionType = c.predictionType
	}
	if err := predictionType.Validate(); err != nil {
		return nil, err
	}

	values := url.Values{}
	values.Set("date", timestamp)
	path := fmt.Sprintf("/questions/%d/prediction-for-date/?%s", questionID, values.Encode())

	var fields map[string]json.RawMessage
	if err := c.getJSON(ctx, path, "prediction request failed", &fields); err != nil {
		return nil, err
	}

	value, ok := lookupField(fields, predictionType.ResponseField())
	if !ok || isEmptyValue(value) {
		return nil, fmt.Errorf("%w: question %d %s at %s", ErrNotAvailable, questionID, predictionType, timestamp)
	}
	return value, nil
}

// FetchAuditTrail asks the service for the path from leaf to root.
func (c *Client) FetchAuditTrail(ctx context.Context, root hashing.Hash, leaf hashing.Hash) (proof.AuditTrail, error) {
	if _, err := hashing.ParseHashField("merkle_root", string(root)); err != nil {
		return proof.AuditTrail{}, err
	}
	if _, err := hashing.ParseHashField("hashed_prediction", string(leaf)); err != nil {
		return proof.AuditTrail{}, err
	}

	values := url.Values{}
	values.Set("merkle_root", string(root))
	values.Set("hashed_prediction", string(leaf))

	var response auditTrailResponse
	if err := c.getJSON(ctx, "/tezos/audit-trail/?"+values.Encode(), auditTrailFailure, &response); err != nil {
		return proof.AuditTrail{}, err
	}
	if response.Verified == nil || !*response.Verified {
		return proof.AuditTrail{}, &RemoteVerificationError{Message: "Remote verification error"}
	}

	rawTrail := response.AuditTrail
	if len(rawTrail) == 0 {
		rawTrail = response.AuditTrailCamel
	}
	if len(rawTrail) == 0 {
		return proof.AuditTrail{}, &ResponseError{Message: "audit trail response has no audit_trail"}
	}

	trail, err := proof.ParseAuditTrail(rawTrail)
	if err != nil {
		return proof.AuditTrail{}, &ResponseError{Message: "audit trail response is malformed", Body: string(rawTrail), Cause: err}
	}
	c.logger.Debug().Int("depth", len(trail.Nodes)).Str("root", string(trail.Root)).Msg("fetched audit trail")
	return trail, nil
}

func (c *Client) getJSON(ctx context.Context, path string, failure string, target any) error {
	requestURL := c.baseURL + path
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	request.Header.Set("Accept", "application/json")
	request.Header.Set("Accept-Encoding", "br, gzip")
	if c.apiKey != "" {
		request.Header.Set("Authorization", fmt.Sprintf("Token %s", c.apiKey))
	}
	for key, value := range c.headers {
		request.Header.Set(key, value)
	}

	started := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		return &TransportError{Message: failure, Cause: err}
	}
	defer response.Body.Close()

	body, err := readBody(response)
	if err != nil {
		return &TransportError{Message: failure, Cause: fmt.Errorf("failed to read response: %w", err)}
	}
	c.logger.Debug().
		Str("url", request.URL.Path).
		Int("status", response.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("commitment request")

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return &TransportError{
			Message:    failure,
			Status:     response.StatusCode,
			StatusText: http.StatusText(response.StatusCode),
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return &ResponseError{
			Message: "failed to decode commitment response",
			Body:    strings.TrimSpace(string(body)),
			Cause:   err,
		}
	}
	return nil
}

func readBody(response *http.Response) ([]byte, error) {
	var reader io.Reader = response.Body
	switch strings.ToLower(strings.TrimSpace(response.Header.Get("Content-Encoding"))) {
	case "br":
		reader = brotli.NewReader(response.Body)
	case "gzip":
		gzipReader, err := gzip.NewReader(response.Body)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	body, err := io.ReadAll(io.LimitReader(reader, maxResponseBytes+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxResponseBytes {
		return nil, errors.New("response body exceeds size limit")
	}
	return body, nil
}

func lookupField(fields map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	if value, ok := fields[name]; ok {
		return value, true
	}
	if value, ok := fields[strings.ToUpper(name)]; ok {
		return value, true
	}
	return nil, false
}

// isEmptyValue matches the values the service uses for "no prediction".
// Numeric zero is a real prediction.
func isEmptyValue(value json.RawMessage) bool {
	switch string(bytes.TrimSpace(value)) {
	case "", "null", `""`, "[]", "{}", "false":
		return true
	}
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) >= 2 && (trimmed[0] == '[' || trimmed[0] == '{') {
		var probe any
		if err := json.Unmarshal(trimmed, &probe); err == nil {
			switch typed := probe.(type) {
			case []any:
				return len(typed) == 0
			case map[string]any:
				return len(typed) == 0
			}
		}
	}
	return false
}
