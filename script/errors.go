package script

import (
	"fmt"

	"github.com/go-errors/errors"
)

// TypeError is returned when an expression mixes incompatible kinds or groups, or when
// a declaration is invalid.
type TypeError struct {
	Msg string
}

func (e *TypeError) Error() string {
	return "type error: " + e.Msg
}

// LookupError is returned when a variable, group or commitment is absent from the environment.
type LookupError struct {
	What string
	Name string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("unknown %s %s", e.What, e.Name)
}

func typeError(format string, a ...interface{}) error {
	return errors.Wrap(&TypeError{Msg: fmt.Sprintf(format, a...)}, 1)
}

func lookupError(what, name string) error {
	return errors.Wrap(&LookupError{What: what, Name: name}, 1)
}
