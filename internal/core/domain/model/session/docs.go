// Package session provides the FulfillmentSession aggregate and its status
// state machine. Shipments reference their session; the session keeps a
// denormalized order count that always equals the number of linked shipments.
package session
