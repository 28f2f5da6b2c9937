package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrObjectNotFound    = errors.New("object not found")
	ErrValueIsInvalid    = errors.New("value is invalid")
	ErrValueIsOutOfRange = errors.New("value is out of range")
	ErrValueIsRequired   = errors.New("value is required")
)

// sanitize renders a value on a single line so it can be embedded in an error message.
func sanitize(value any) string {
	return strings.Join(strings.Fields(fmt.Sprintf("%v", value)), " ")
}
