// Package kernel provides the value objects shared by every aggregate of the
// fulfillment domain:
//   - UUID: identifiers, including name-based ids for rebuilt child rows
//   - Weight: a strictly positive mass with its unit, normalized to ounces
//   - Dimensions: outer box dimensions in inches
//
// All kernel values are immutable and have an invalid zero value.
package kernel
