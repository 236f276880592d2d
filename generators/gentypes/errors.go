package gentypes

import (
	"errors"
	"fmt"
)

// ErrInvalidOperand marks operand shapes a store cannot express, such as
// an element match on something that is not a field.
var ErrInvalidOperand = errors.New("invalid operand")

type ErrorMissingField struct {
	Field string
}

func (e *ErrorMissingField) Error() string {
	return fmt.Sprintf("missing field: %s", e.Field)
}

// MissingField is returned when a filter references a column the
// generator's schema does not define.
func MissingField(field string) error {
	return &ErrorMissingField{Field: field}
}

// InvalidOperand wraps ErrInvalidOperand with the operator and reason.
func InvalidOperand(op string, format string, args ...any) error {
	return fmt.Errorf("%w for %s: %s", ErrInvalidOperand, op, fmt.Sprintf(format, args...))
}
