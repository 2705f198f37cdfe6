package shared

import (
	"fmt"
	"strings"
)

const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
)

// NormalizeNetwork lower-cases network and defaults it to testnet.
func NormalizeNetwork(network string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(network))
	if normalized == "" {
		return NetworkTestnet, nil
	}

	switch normalized {
	case NetworkMainnet, NetworkTestnet:
		return normalized, nil
	default:
		return "", fmt.Errorf("unsupported network %q", network)
	}
}

// MirrorBaseURL returns the public mirror node for network.
func MirrorBaseURL(network string) (string, error) {
	normalized, err := NormalizeNetwork(network)
	if err != nil {
		return "", err
	}
	if normalized == NetworkMainnet {
		return "https://mainnet-public.mirrornode.hedera.com", nil
	}
	return "https://testnet.mirrornode.hedera.com", nil
}
