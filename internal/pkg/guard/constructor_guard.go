// Package guard lets value objects, aggregates and commands detect that they
// were built through their constructor rather than as a zero value.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes no error of its own.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded by value in types whose zero value is invalid.
//
//	type HydrateShipmentCommand struct {
//	    shipmentID kernel.UUID
//	    guard      guard.ConstructorGuard
//	}
//
//	func (c HydrateShipmentCommand) Validate() error {
//	    return c.guard.Validate(ErrHydrateShipmentCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard marks the enclosing object as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the enclosing object was not created through its constructor.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
