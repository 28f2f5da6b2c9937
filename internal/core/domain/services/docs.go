// Package services provides domain services that work across aggregates of
// the fulfillment domain.
//
// The package includes:
//   - FingerprintEngine: classifies hydrated items into a signature or an incomplete status
//   - StationMatcher: routes a packaging type to the first active station of its type
//   - SessionPlanner: greedily batches ready shipments into bounded sessions
//
// All services are pure; persistence and transactions belong to the command handlers.
package services
