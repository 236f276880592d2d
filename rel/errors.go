package rel

import (
	"errors"
	"fmt"
)

// ErrInvalidOperand marks operand shapes SQL generation cannot express,
// such as a pattern match against a column.
var ErrInvalidOperand = errors.New("invalid operand")

// UnknownColumnError is a filter column the bound table does not define.
type UnknownColumnError struct {
	Table  string
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q in table %q", e.Column, e.Table)
}

func invalidOperand(op string, format string, args ...any) error {
	return fmt.Errorf("%w for %s: %s", ErrInvalidOperand, op, fmt.Sprintf(format, args...))
}
