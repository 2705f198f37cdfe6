package anchor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

// signatureVerifier reports whether signature is valid for message.
type signatureVerifier func(message []byte, signature []byte) bool

// parsePublicKey accepts a raw compressed (33 byte) or uncompressed (65 byte)
// secp256k1 key in hex, verified as DER ECDSA over sha256(message), or any
// key string understood by the Hedera SDK.
func parsePublicKey(raw string) (signatureVerifier, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	if trimmed == "" {
		return nil, fmt.Errorf("publisher public key is empty")
	}

	if decoded, err := hex.DecodeString(trimmed); err == nil &&
		(len(decoded) == btcec.PubKeyBytesLenCompressed || len(decoded) == secp256k1.PubKeyBytesLenUncompressed) {
		publicKey, parseErr := btcec.ParsePubKey(decoded)
		if parseErr == nil {
			return func(message []byte, signature []byte) bool {
				parsed, err := ecdsa.ParseDERSignature(signature)
				if err != nil {
					return false
				}
				digest := sha256.Sum256(message)
				return parsed.Verify(digest[:], publicKey)
			}, nil
		}
	}

	publicKey, err := hedera.PublicKeyFromString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("unsupported publisher public key: %w", err)
	}
	return func(message []byte, signature []byte) bool {
		return publicKey.Verify(message, signature)
	}, nil
}
