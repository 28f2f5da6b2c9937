// Package errs holds the error types shared by the domain, the use cases and
// the HTTP adapter.
//
// Each type unwraps to a sentinel (ErrObjectNotFound, ErrValueIsInvalid,
// ErrValueIsOutOfRange, ErrValueIsRequired) so callers classify with
// errors.Is while the message keeps the offending parameter and value.
package errs
