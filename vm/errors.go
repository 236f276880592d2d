package vm

import (
	"fmt"
)

// UnknownOperatorError is returned when the active domain has no entry
// for an operator the filter uses.
type UnknownOperatorError struct {
	Name string
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("unknown operator %q", e.Name)
}

// UnknownFunctionError is returned for function names outside the
// built-in set, or absent from the active domain.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function %q", e.Name)
}

// ArityError is a call with the wrong number of arguments.
type ArityError struct {
	Name     string
	Got      int
	Min, Max int
}

func (e *ArityError) Error() string {
	if e.Min == e.Max {
		return fmt.Sprintf("%s expects %d args, got %d", e.Name, e.Min, e.Got)
	}
	return fmt.Sprintf("%s expects %d to %d args, got %d", e.Name, e.Min, e.Max, e.Got)
}

// CheckArity returns an *ArityError unless min <= got <= max.
func CheckArity(name string, got, min, max int) error {
	if got < min || got > max {
		return &ArityError{Name: name, Got: got, Min: min, Max: max}
	}
	return nil
}
