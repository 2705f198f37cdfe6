// Package mirror reads consensus topic messages from a Hedera mirror node.
// It is the read side of the ledger anchor check: the verifier never submits
// transactions, it only pages through a topic's public message history.
package mirror
