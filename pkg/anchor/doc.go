// Package anchor checks that a Merkle root was also anchored in a Hedera
// consensus topic by its publisher. The check is independent of the
// forecasting service: it reads the topic through a mirror node and verifies
// the publisher's signature over the root.
//
// An anchor message is a JSON object
//
//	{"p":"forecast-stamp","op":"anchor","root":"<hex>","timestamp":"...","sig":"<hex>"}
//
// sent either as-is or wrapped as {"c":"data:application/json;base64,..."}
// with brotli-compressed content.
package anchor
