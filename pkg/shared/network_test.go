package shared

import (
	"testing"
)

func TestNormalizeNetworkCaseInsensitive(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"mainnet", NetworkMainnet},
		{"testnet", NetworkTestnet},
		{"MAINNET", NetworkMainnet},
		{"Mainnet", NetworkMainnet},
		{"TESTNET", NetworkTestnet},
		{"Testnet", NetworkTestnet},
		{"  mainnet  ", NetworkMainnet},
		{"  testnet  ", NetworkTestnet},
	}

	for _, tc := range cases {
		result, err := NormalizeNetwork(tc.input)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tc.input, err)
		}
		if result != tc.expected {
			t.Fatalf("expected %q for input %q, got %q", tc.expected, tc.input, result)
		}
	}
}

func TestNormalizeNetworkEmpty(t *testing.T) {
	result, err := NormalizeNetwork("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != NetworkTestnet {
		t.Fatalf("expected %q for empty input, got %q", NetworkTestnet, result)
	}
}

func TestNormalizeNetworkWhitespaceOnly(t *testing.T) {
	result, err := NormalizeNetwork("   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != NetworkTestnet {
		t.Fatalf("expected %q for whitespace input, got %q", NetworkTestnet, result)
	}
}

func TestNormalizeNetworkUnsupported(t *testing.T) {
	_, err := NormalizeNetwork("devnet")
	if err == nil {
		t.Fatal("expected error for unsupported network")
	}
}

func TestMirrorBaseURL(t *testing.T) {
	cases := map[string]string{
		"":        "https://testnet.mirrornode.hedera.com",
		"testnet": "https://testnet.mirrornode.hedera.com",
		"Mainnet": "https://mainnet-public.mirrornode.hedera.com",
	}
	for network, expected := range cases {
		result, err := MirrorBaseURL(network)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", network, err)
		}
		if result != expected {
			t.Fatalf("expected %q for %q, got %q", expected, network, result)
		}
	}

	if _, err := MirrorBaseURL("previewnet"); err == nil {
		t.Fatal("expected error for unsupported network")
	}
}
