package errs

import "fmt"

// ObjectNotFoundError reports that an entity identified by ID does not exist.
// ParamName names the identifier the caller supplied.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{
		ParamName: paramName,
		ID:        id,
	}
}

func (e *ObjectNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrObjectNotFound, e.ParamName, sanitize(e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}
