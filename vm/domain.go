// Package vm interprets parsed filters against a target domain. The
// interpreter is generic over the domain's value type and never branches
// on which domain it is driving: all domain behavior lives behind the
// Domain interface.
package vm

import (
	"github.com/lytics/odataql/lex"
	"github.com/lytics/odataql/value"
)

type (
	// OperatorFunc combines interpreted operands. AND and OR receive every
	// operand of their run; all other operators receive exactly two.
	OperatorFunc[T any] func(args ...T) (T, error)

	// FunctionFunc applies a built-in function to interpreted arguments.
	FunctionFunc[T any] func(args ...T) (T, error)

	// Domain is a compilation target. A domain is built once and reused
	// for many filters, so implementations must be safe for concurrent
	// use once constructed.
	Domain[T any] interface {
		// ResolveColumn turns a dotted path into a domain reference.
		ResolveColumn(path string) (T, error)
		// Literal lifts a classified literal into the domain.
		Literal(v value.Value) T
		// Collection builds a bracketed collection from its items.
		Collection(items []T) (T, error)
		// Operator looks up an operator; false if the domain lacks it.
		Operator(op lex.Operator) (OperatorFunc[T], bool)
		// Function looks up a built-in; false if the domain lacks it.
		Function(fn lex.Function) (FunctionFunc[T], bool)
	}

	// ConverterProvider is implemented by domains that prepend their own
	// literal converters ahead of the default chain.
	ConverterProvider interface {
		Converters() []value.Converter
	}
)
