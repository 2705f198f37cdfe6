// Package hashing implements the hash primitives that forecast stamp proofs are
// built from: SHA-256 digests rendered as lowercase hexadecimal text, and the
// canonical serialization of a prediction record that forms a Merkle leaf.
//
// Every digest in the proof protocol is the hash of UTF-8 text. Interior nodes
// hash the concatenation of two hex strings, and leaves hash the canonical JSON
// form of a single-key record:
//
//	{"<question_id>:<prediction_type>": <prediction_value>}
//
// # Canonical Form
//
// The forecasting service computes leaf hashes with the default JSON encoder of
// its own runtime, so the canonical form reproduces that encoder byte for byte:
// ", " and ": " separators, object keys in the order the service sent them,
// ASCII-only string escaping, and shortest round-trip float formatting. Any
// deviation produces a different leaf hash and a deterministic, silent proof
// mismatch, which is why CanonicalPrediction never reorders or reformats input
// beyond what that encoder does.
//
// # Computing a Leaf Hash
//
//	leaf, canonical, err := hashing.LeafHash(2513, hashing.PredictionCommunity, json.RawMessage(`0.42`))
//	// canonical == `{"2513:CP": 0.42}`
//
// All functions are pure and safe for concurrent use.
package hashing
