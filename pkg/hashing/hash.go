package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"unicode/utf8"
)

// Sum returns the lowercase hex SHA-256 digest of data, which must be UTF-8 text.
func Sum(data []byte) (Hash, error) {
	if !utf8.Valid(data) {
		return "", ErrInvalidEncoding
	}
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:])), nil
}

// SumString returns the digest of the UTF-8 encoding of value.
func SumString(value string) (Hash, error) {
	return Sum([]byte(value))
}

// Concat hashes the concatenation of two hex digests, left first.
func Concat(left Hash, right Hash) (Hash, error) {
	payload := make([]byte, 0, len(left)+len(right))
	payload = append(payload, left...)
	payload = append(payload, right...)
	return Sum(payload)
}

// ParseHash validates raw as a hex digest. The value is returned unchanged:
// upper-case hex is accepted but not folded, so it will not compare equal to
// the lowercase digests this package produces.
func ParseHash(raw string) (Hash, error) {
	return parseHash("hash", raw)
}

// ParseHashField is ParseHash with a field name used in validation errors.
func ParseHashField(field string, raw string) (Hash, error) {
	return parseHash(field, raw)
}

// Validate reports whether h is a well-formed hex digest.
func (h Hash) Validate() error {
	_, err := parseHash("hash", string(h))
	return err
}

func parseHash(field string, raw string) (Hash, error) {
	if raw == "" {
		return "", &ValidationError{Field: field, Message: "hash is required"}
	}
	if len(raw) != HexLength {
		return "", &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("hash must be %d hex characters, got %d", HexLength, len(raw)),
		}
	}
	for index := 0; index < len(raw); index++ {
		if !isHexDigit(raw[index]) {
			return "", &ValidationError{
				Field:   field,
				Message: fmt.Sprintf("hash must be hex, found %q at offset %d", raw[index], index),
			}
		}
	}
	return Hash(raw), nil
}

func isHexDigit(character byte) bool {
	return (character >= '0' && character <= '9') ||
		(character >= 'a' && character <= 'f') ||
		(character >= 'A' && character <= 'F')
}
