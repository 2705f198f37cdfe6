package proof

import "github.com/forecast-stamps/verifier-go/pkg/hashing"

// Node is one level of an audit trail.
type Node struct {
	SiblingHash   hashing.Hash `json:"sibling_hash"`
	IsLeftSibling bool         `json:"is_left_sibling"`
}

// AuditTrail is the ordered path from a leaf to Root. Root is the terminal
// slot of the wire form and is compared against, not folded.
type AuditTrail struct {
	Nodes []Node
	Root  hashing.Hash
}

// Step records one fold of Replay.
type Step struct {
	Level         int          `json:"level"`
	Sibling       hashing.Hash `json:"sibling"`
	IsLeftSibling bool         `json:"is_left_sibling"`
	Input         hashing.Hash `json:"input"`
	Output        hashing.Hash `json:"output"`
}

// Result is the outcome of replaying a trail against a leaf.
type Result struct {
	LeafHash     hashing.Hash `json:"leaf_hash"`
	ComputedRoot hashing.Hash `json:"computed_root"`
	ExpectedRoot hashing.Hash `json:"expected_root"`
	Steps        []Step       `json:"steps"`
	Verified     bool         `json:"verified"`
}
