// Package shipment provides the Shipment aggregate: a customer order with its
// raw line items, its hydrated QC items, the fingerprint and packaging decision
// derived from them, and its link to a fulfillment session.
//
// Every mutation that can move the shipment to another lifecycle phase is
// followed by RecomputeLifecycle, which records a PhaseChanged event when the
// derived state differs from the stored one.
package shipment
