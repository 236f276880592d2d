package compiler

import (
	"github.com/lytics/odataql/value"
)

// Accessor reads a value out of one record. Every operand of a compiled
// filter is an Accessor: columns walk the record, literals ignore it.
type Accessor func(row any) value.Value

// Const lifts a value into an Accessor that ignores the record.
func Const(v value.Value) Accessor {
	return func(any) value.Value { return v }
}

// Lift1 lifts a unary value function to work on accessors.
func Lift1(fn func(a value.Value) value.Value) func(a Accessor) Accessor {
	return func(a Accessor) Accessor {
		return func(row any) value.Value { return fn(a(row)) }
	}
}

// Lift2 lifts a binary value function to work on accessors.
func Lift2(fn func(a, b value.Value) value.Value) func(a, b Accessor) Accessor {
	return func(a, b Accessor) Accessor {
		return func(row any) value.Value { return fn(a(row), b(row)) }
	}
}

// Lift3 lifts a ternary value function to work on accessors.
func Lift3(fn func(a, b, c value.Value) value.Value) func(a, b, c Accessor) Accessor {
	return func(a, b, c Accessor) Accessor {
		return func(row any) value.Value { return fn(a(row), b(row), c(row)) }
	}
}

// LiftN lifts a variadic value function. Every accessor is evaluated,
// in order, on each call.
func LiftN(fn func(vals []value.Value) value.Value) func(args ...Accessor) Accessor {
	return func(args ...Accessor) Accessor {
		return func(row any) value.Value {
			vals := make([]value.Value, len(args))
			for i, a := range args {
				vals[i] = a(row)
			}
			return fn(vals)
		}
	}
}
