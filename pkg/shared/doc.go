// Package shared holds configuration used by every verifier entry point:
// environment and .env loading, Hedera network normalization, and the
// zerolog logger setup.
//
// # Environment Variables
//
//	VERIFIER_BASE_URL           forecasting service API root
//	VERIFIER_PREDICTION_TYPE    CP or MP
//	VERIFIER_API_KEY            sent as "Authorization: Token <key>"
//	VERIFIER_HTTP_TIMEOUT       Go duration, e.g. 20s
//	VERIFIER_RETRY_MAX          retries for transient failures, 0 disables
//	VERIFIER_REDIS_ADDR         enables the shared response cache
//	VERIFIER_CACHE_TTL          lifetime of cached responses
//	VERIFIER_ANCHOR_TOPIC_ID    enables the ledger anchor check
//	VERIFIER_ANCHOR_PUBLIC_KEY  key that signs anchor messages
//	VERIFIER_REQUIRE_ANCHOR     fail verification without a valid anchor
//	VERIFIER_MIRROR_BASE_URL    overrides the mirror node for HEDERA_NETWORK
//	HEDERA_NETWORK              mainnet or testnet
//	VERIFIER_LOG_LEVEL          zerolog level name
package shared
