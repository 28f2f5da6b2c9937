// Package lifecycle derives a shipment's fulfillment phase.
//
// The stored phase on a shipment is a cache of Derive over the shipment's
// other columns; it is never written independently. A repair pass that
// re-derives every shipment and rewrites mismatches is therefore always safe.
package lifecycle
