package proof

import (
	"bytes"
	"encoding/json"

	"github.com/forecast-stamps/verifier-go/pkg/hashing"
)

// ParseAuditTrail decodes the wire form: zero or more [sibling, isLeft] pairs
// followed by the terminal root hash.
func ParseAuditTrail(data []byte) (AuditTrail, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return AuditTrail{}, &ValidationError{Index: -1, Field: "audit_trail", Message: "must be a JSON array", Cause: err}
	}
	if len(elements) == 0 {
		return AuditTrail{}, &ValidationError{Index: -1, Field: "audit_trail", Message: "must contain at least the root hash"}
	}

	last := len(elements) - 1
	nodes := make([]Node, 0, last)
	for index, element := range elements[:last] {
		node, err := parseNode(index, element)
		if err != nil {
			return AuditTrail{}, err
		}
		nodes = append(nodes, node)
	}

	var rootText string
	if err := json.Unmarshal(elements[last], &rootText); err != nil {
		return AuditTrail{}, &ValidationError{Index: last, Field: "root", Message: "terminal root must be a hash string", Cause: err}
	}
	root, err := hashing.ParseHashField("", rootText)
	if err != nil {
		return AuditTrail{}, &ValidationError{Index: last, Field: "root", Message: "malformed root hash", Cause: err}
	}

	return AuditTrail{Nodes: nodes, Root: root}, nil
}

func parseNode(index int, element json.RawMessage) (Node, error) {
	var pair []json.RawMessage
	if err := json.Unmarshal(element, &pair); err != nil || len(pair) != 2 {
		return Node{}, &ValidationError{Index: index, Message: "must be a [sibling_hash, is_left_sibling] pair"}
	}

	var siblingText string
	if err := json.Unmarshal(pair[0], &siblingText); err != nil {
		return Node{}, &ValidationError{Index: index, Field: "sibling", Message: "sibling hash must be a string", Cause: err}
	}
	sibling, err := hashing.ParseHashField("", siblingText)
	if err != nil {
		return Node{}, &ValidationError{Index: index, Field: "sibling", Message: "malformed sibling hash", Cause: err}
	}

	var isLeft bool
	switch string(bytes.TrimSpace(pair[1])) {
	case "true":
		isLeft = true
	case "false":
		isLeft = false
	default:
		return Node{}, &ValidationError{Index: index, Field: "is_left_sibling", Message: "side flag must be a boolean"}
	}

	return Node{SiblingHash: sibling, IsLeftSibling: isLeft}, nil
}

// UnmarshalJSON implements json.Unmarshaler for the wire form.
func (t *AuditTrail) UnmarshalJSON(data []byte) error {
	parsed, err := ParseAuditTrail(data)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON renders the trail in the wire form.
func (t AuditTrail) MarshalJSON() ([]byte, error) {
	elements := make([]any, 0, len(t.Nodes)+1)
	for _, node := range t.Nodes {
		elements = append(elements, []any{string(node.SiblingHash), node.IsLeftSibling})
	}
	elements = append(elements, string(t.Root))
	return json.Marshal(elements)
}

// Validate checks every sibling and the root without folding.
func (t AuditTrail) Validate() error {
	for index, node := range t.Nodes {
		if _, err := hashing.ParseHashField("", string(node.SiblingHash)); err != nil {
			return &ValidationError{Index: index, Field: "sibling", Message: "malformed sibling hash", Cause: err}
		}
	}
	if _, err := hashing.ParseHashField("", string(t.Root)); err != nil {
		return &ValidationError{Index: len(t.Nodes), Field: "root", Message: "malformed root hash", Cause: err}
	}
	return nil
}
