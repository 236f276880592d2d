package expr

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrUnexpectedEnd   = errors.New("unexpected end of filter")
	ErrGroupedFilter   = errors.New("parenthesized groups are not supported")
	ErrEmptyFilter     = errors.New("empty filter")
)

// SyntaxError reports a filter that does not parse. Pos is the byte
// offset of the offending token.
type SyntaxError struct {
	Filter string
	Pos    int
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at position %d in %q: %v", e.Pos, e.Filter, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }
