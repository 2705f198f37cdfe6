// Package verifier checks that a forecasting question's published prediction
// is committed under the Merkle root stamped for a date.
//
// VerifyPrediction fetches the stamp, the prediction and its audit trail from
// a commitment.CommitmentSource, recomputes the leaf hash locally, replays the
// trail and requires the trail to end at the stamped root. A configured
// anchor checker additionally confirms the root in a ledger topic.
package verifier
