// Package stampcache stores immutable responses from the forecasting service
// (stamps, predictions and audit trails) keyed by their request. Memory is a
// process-local store; Redis shares entries between verifier processes.
package stampcache
