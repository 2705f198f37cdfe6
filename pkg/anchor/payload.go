package anchor

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/andybalholm/brotli"
)

const maxUnwrappedBytes = 1 << 20

// DecodeMessage parses a topic payload, unwrapping the compressed form.
func DecodeMessage(payload []byte) (Message, error) {
	unwrapped, err := unwrapPayload(payload)
	if err != nil {
		return Message{}, err
	}
	var message Message
	if err := json.Unmarshal(unwrapped, &message); err != nil {
		return Message{}, fmt.Errorf("failed to decode anchor message: %w", err)
	}
	return message, nil
}

// EncodeMessage renders message for submission. When compress is set the
// JSON is brotli-compressed and wrapped in a base64 data URL.
func EncodeMessage(message Message, compress bool) ([]byte, error) {
	encoded, err := json.Marshal(message)
	if err != nil {
		return nil, err
	}
	if !compress {
		return encoded, nil
	}

	var compressed bytes.Buffer
	writer := brotli.NewWriterLevel(&compressed, brotli.BestCompression)
	if _, err := writer.Write(encoded); err != nil {
		return nil, fmt.Errorf("failed to compress anchor message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress anchor message: %w", err)
	}

	return json.Marshal(map[string]string{
		"c": "data:application/json;base64," + base64.StdEncoding.EncodeToString(compressed.Bytes()),
	})
}

func unwrapPayload(payload []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed, nil
	}

	var wrapped struct {
		Content string `json:"c"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil || strings.TrimSpace(wrapped.Content) == "" {
		return trimmed, nil
	}

	content, err := decodeDataURL(wrapped.Content)
	if err != nil {
		return nil, err
	}

	decompressed, err := io.ReadAll(io.LimitReader(brotli.NewReader(bytes.NewReader(content)), maxUnwrappedBytes))
	if err == nil && len(decompressed) > 0 {
		return decompressed, nil
	}
	return content, nil
}

func decodeDataURL(input string) ([]byte, error) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "data:") {
		return nil, fmt.Errorf("unsupported wrapped anchor payload")
	}

	header, data, found := strings.Cut(trimmed, ",")
	if !found {
		return nil, fmt.Errorf("invalid wrapped anchor data URL")
	}
	if strings.Contains(strings.ToLower(header), ";base64") {
		decoded, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode wrapped anchor payload: %w", err)
		}
		return decoded, nil
	}

	unescaped, err := url.QueryUnescape(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode wrapped anchor payload: %w", err)
	}
	return []byte(unescaped), nil
}
