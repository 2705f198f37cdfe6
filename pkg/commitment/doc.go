// Package commitment fetches the published material a prediction is verified
// against: the Merkle root stamped for a date, the prediction value at that
// stamp, and the audit trail linking the prediction's leaf hash to the root.
//
// CommitmentSource is the trust boundary between the verifier and the
// forecasting service. Client talks to the service's REST API; WithRetry and
// WithCache decorate any source without changing what it returns.
package commitment
