package hashing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

const (
	itemSeparator = ", "
	keySeparator  = ": "
)

// LeafHash canonicalizes a prediction record and hashes it. The canonical
// bytes are returned alongside the digest so callers can show the pre-image.
func LeafHash(
	questionID int64,
	predictionType PredictionType,
	value json.RawMessage,
) (Hash, []byte, error) {
	canonical, err := CanonicalPrediction(questionID, predictionType, value)
	if err != nil {
		return "", nil, err
	}
	leaf, err := Sum(canonical)
	if err != nil {
		return "", nil, err
	}
	return leaf, canonical, nil
}

// CanonicalPrediction serializes {"<questionID>:<type>": value} exactly as the
// forecasting service did when it built the commitment. value is the raw JSON
// of the prediction as received.
func CanonicalPrediction(
	questionID int64,
	predictionType PredictionType,
	value json.RawMessage,
) ([]byte, error) {
	if questionID <= 0 {
		return nil, &ValidationError{Field: "question_id", Message: "question ID must be positive"}
	}
	if err := predictionType.Validate(); err != nil {
		return nil, err
	}

	encodedValue, err := CanonicalJSON(value)
	if err != nil {
		return nil, err
	}

	var buffer bytes.Buffer
	buffer.WriteByte('{')
	writeString(&buffer, fmt.Sprintf("%d:%s", questionID, predictionType))
	buffer.WriteString(keySeparator)
	buffer.Write(encodedValue)
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

// CanonicalJSON re-encodes a single JSON document in the canonical form.
func CanonicalJSON(value json.RawMessage) ([]byte, error) {
	if len(bytes.TrimSpace(value)) == 0 {
		return nil, &ValidationError{Field: "prediction", Message: "prediction value is required"}
	}
	if !utf8.Valid(value) {
		return nil, &ValidationError{Field: "prediction", Message: "prediction value is not UTF-8", Cause: ErrInvalidEncoding}
	}

	decoder := json.NewDecoder(bytes.NewReader(value))
	decoder.UseNumber()

	var buffer bytes.Buffer
	if err := encodeNext(decoder, &buffer); err != nil {
		return nil, &ValidationError{Field: "prediction", Message: "prediction value is not valid JSON", Cause: err}
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, &ValidationError{Field: "prediction", Message: "prediction value has trailing data"}
	}
	return buffer.Bytes(), nil
}

func encodeNext(decoder *json.Decoder, buffer *bytes.Buffer) error {
	token, err := decoder.Token()
	if err != nil {
		return err
	}

	switch typed := token.(type) {
	case json.Delim:
		switch typed {
		case '{':
			return encodeObject(decoder, buffer)
		case '[':
			return encodeArray(decoder, buffer)
		default:
			return fmt.Errorf("unexpected delimiter %q", typed)
		}
	case string:
		writeString(buffer, typed)
	case json.Number:
		formatted, err := formatNumber(typed)
		if err != nil {
			return err
		}
		buffer.WriteString(formatted)
	case bool:
		if typed {
			buffer.WriteString("true")
		} else {
			buffer.WriteString("false")
		}
	case nil:
		buffer.WriteString("null")
	default:
		return fmt.Errorf("unsupported JSON token %T", typed)
	}
	return nil
}

// encodeObject keeps members in first-seen order. A repeated key keeps its
// original position and takes the later value.
func encodeObject(decoder *json.Decoder, buffer *bytes.Buffer) error {
	type member struct {
		key   string
		value []byte
	}
	members := make([]member, 0)
	positions := map[string]int{}

	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return err
		}
		key, ok := keyToken.(string)
		if !ok {
			return fmt.Errorf("object key must be a string, got %T", keyToken)
		}

		var encoded bytes.Buffer
		if err := encodeNext(decoder, &encoded); err != nil {
			return err
		}

		if position, exists := positions[key]; exists {
			members[position].value = encoded.Bytes()
			continue
		}
		positions[key] = len(members)
		members = append(members, member{key: key, value: encoded.Bytes()})
	}
	if _, err := decoder.Token(); err != nil {
		return err
	}

	buffer.WriteByte('{')
	for index, item := range members {
		if index > 0 {
			buffer.WriteString(itemSeparator)
		}
		writeString(buffer, item.key)
		buffer.WriteString(keySeparator)
		buffer.Write(item.value)
	}
	buffer.WriteByte('}')
	return nil
}

func encodeArray(decoder *json.Decoder, buffer *bytes.Buffer) error {
	buffer.WriteByte('[')
	for index := 0; decoder.More(); index++ {
		if index > 0 {
			buffer.WriteString(itemSeparator)
		}
		if err := encodeNext(decoder, buffer); err != nil {
			return err
		}
	}
	if _, err := decoder.Token(); err != nil {
		return err
	}
	buffer.WriteByte(']')
	return nil
}

func formatNumber(number json.Number) (string, error) {
	text := number.String()
	if !strings.ContainsAny(text, ".eE") {
		if text == "-0" {
			return "0", nil
		}
		return text, nil
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		var numErr *strconv.NumError
		if !errors.As(err, &numErr) || !errors.Is(numErr.Err, strconv.ErrRange) {
			return "", fmt.Errorf("invalid number %q: %w", text, err)
		}
	}
	return FormatFloat(value), nil
}

// FormatFloat renders value as the shortest string that round-trips, using
// fixed notation for decimal exponents in [-4, 16) and d.ddde±XX otherwise.
// Whole numbers in fixed notation keep a ".0" suffix.
func FormatFloat(value float64) string {
	switch {
	case math.IsNaN(value):
		return "NaN"
	case math.IsInf(value, 1):
		return "Infinity"
	case math.IsInf(value, -1):
		return "-Infinity"
	}

	sign := ""
	if math.Signbit(value) {
		sign = "-"
		value = -value
	}
	if value == 0 {
		return sign + "0.0"
	}

	scientific := strconv.FormatFloat(value, 'e', -1, 64)
	mantissa, exponentText, _ := strings.Cut(scientific, "e")
	exponent, _ := strconv.Atoi(exponentText)
	digits := strings.Replace(mantissa, ".", "", 1)

	if exponent >= -4 && exponent < 16 {
		switch {
		case exponent < 0:
			return sign + "0." + strings.Repeat("0", -exponent-1) + digits
		case exponent+1 >= len(digits):
			return sign + digits + strings.Repeat("0", exponent+1-len(digits)) + ".0"
		default:
			return sign + digits[:exponent+1] + "." + digits[exponent+1:]
		}
	}

	exponentSign := "+"
	if exponent < 0 {
		exponentSign = "-"
		exponent = -exponent
	}
	significand := digits[:1]
	if len(digits) > 1 {
		significand += "." + digits[1:]
	}
	return fmt.Sprintf("%s%se%s%02d", sign, significand, exponentSign, exponent)
}

func writeString(buffer *bytes.Buffer, value string) {
	buffer.WriteByte('"')
	for _, character := range value {
		switch character {
		case '"':
			buffer.WriteString(`\"`)
		case '\\':
			buffer.WriteString(`\\`)
		case '\n':
			buffer.WriteString(`\n`)
		case '\r':
			buffer.WriteString(`\r`)
		case '\t':
			buffer.WriteString(`\t`)
		case '\b':
			buffer.WriteString(`\b`)
		case '\f':
			buffer.WriteString(`\f`)
		default:
			switch {
			case character >= 0x20 && character <= 0x7e:
				buffer.WriteRune(character)
			case character > 0xffff:
				high, low := utf16.EncodeRune(character)
				fmt.Fprintf(buffer, `\u%04x\u%04x`, high, low)
			default:
				fmt.Fprintf(buffer, `\u%04x`, character)
			}
		}
	}
	buffer.WriteByte('"')
}
