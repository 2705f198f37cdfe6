// Package verifier_go verifies that a forecasting service's published
// predictions are committed to under the Merkle roots it stamps each day.
//
// A prediction is hashed into a leaf from its canonical JSON record, the
// service's audit trail is folded from that leaf to a root, and the root is
// compared with the stamp published for the requested date. Optionally the
// stamped root is also looked up on a Hedera Consensus Service topic where
// the service anchors its roots.
//
// # Packages
//
//   - hashing: canonical leaf records and SHA-256 hex digests
//   - proof: audit trail parsing and Merkle fold replay
//   - commitment: HTTP client for stamps, predictions and audit trails, with
//     retry and cache decorators
//   - stampcache: in-memory and Redis stores for the cache decorator
//   - mirror: Hedera mirror node topic message reader
//   - anchor: signed root anchors on a consensus topic
//   - verifier: the end-to-end prediction check
//
// # Command line
//
//	go install github.com/forecast-stamps/verifier-go/examples/verify-prediction@latest
//	verify-prediction prediction --question-id 12345 --for-date 2024-03-01
package verifier_go
