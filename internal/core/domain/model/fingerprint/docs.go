// Package fingerprint provides content-addressed product bundles and the
// packaging rules curated for them.
//
// A Fingerprint is identified by the SHA-256 of its canonical signature, so
// every shipment carrying the same collection histogram resolves to the same
// row. A Model maps one fingerprint to one packaging type.
package fingerprint
