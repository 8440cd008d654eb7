package group

import (
	"fmt"

	"github.com/go-errors/errors"
)

// SecurityError is returned when requested parameters or an operation violate a
// minimum-security precondition.
type SecurityError struct {
	Msg string
}

func (e *SecurityError) Error() string {
	return "security error: " + e.Msg
}

// InvariantError is returned when a newly constructed group fails its post-construction
// checks. It signals an implementation defect rather than bad input.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "unknown error: group invariant violated: " + e.Msg
}

func invariantError(format string, a ...interface{}) error {
	return errors.Wrap(&InvariantError{Msg: fmt.Sprintf(format, a...)}, 1)
}

// NewSecurityError returns a SecurityError carrying a stack trace.
func NewSecurityError(format string, a ...interface{}) error {
	return errors.Wrap(&SecurityError{Msg: fmt.Sprintf(format, a...)}, 1)
}
