// Package proof verifies Merkle audit trails supplied by the forecasting
// service. An audit trail lists the sibling hashes on the path from a leaf to
// the root, each tagged with the side it sits on, and ends with the root
// itself:
//
//	[["<sibling hex>", true], ["<sibling hex>", false], ..., "<root hex>"]
//
// Verification folds the siblings into the leaf hash in order and compares the
// result with the terminal root. A left sibling is hashed in front of the
// accumulated value, a right sibling behind it. The terminal slot is never
// folded. A wrong side produces a different root, so the final equality is the
// only correctness signal.
//
// Malformed input (bad hex, missing side flags, an empty trail) is reported as
// a *ValidationError and is never turned into a false result.
package proof
