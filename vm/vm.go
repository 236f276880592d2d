package vm

import (
	"fmt"

	u "github.com/araddon/gou"

	"github.com/lytics/odataql/expr"
	"github.com/lytics/odataql/value"
)

// MaxDepth guards against pathologically nested function calls.
const MaxDepth = 1000

// Interpreter walks parse trees for a single domain.
type Interpreter[T any] struct {
	domain     Domain[T]
	classifier *value.Classifier
}

// NewInterpreter binds an interpreter to a domain. If the domain is a
// ConverterProvider its converters run ahead of the default chain.
func NewInterpreter[T any](d Domain[T]) *Interpreter[T] {
	var prepend []value.Converter
	if cp, ok := d.(ConverterProvider); ok {
		prepend = cp.Converters()
	}
	return &Interpreter[T]{domain: d, classifier: value.NewClassifier(prepend...)}
}

// Domain returns the bound domain.
func (m *Interpreter[T]) Domain() Domain[T] { return m.domain }

// Compile parses and interprets a filter.
func (m *Interpreter[T]) Compile(filter string) (T, error) {
	n, err := expr.ParseFilter(filter)
	if err != nil {
		var zero T
		return zero, err
	}
	return m.Interpret(n)
}

// Interpret evaluates a parse tree into the domain's value type.
func (m *Interpreter[T]) Interpret(n expr.Node) (T, error) {
	return m.walk(n, 0)
}

func (m *Interpreter[T]) walk(arg expr.Node, depth int) (T, error) {
	var zero T
	if depth > MaxDepth {
		return zero, fmt.Errorf("filter nested deeper than %d", MaxDepth)
	}
	switch n := arg.(type) {
	case *expr.LiteralNode:
		return m.literal(n.Text, n.Value)
	case *expr.IdentityNode:
		v, ok, err := m.classifier.Classify(n.Text)
		if err != nil {
			return zero, err
		}
		if ok {
			return m.domain.Literal(v), nil
		}
		return m.domain.ResolveColumn(n.Text)
	case *expr.FuncNode:
		fn, ok := m.domain.Function(n.Func)
		if !ok {
			return zero, &UnknownFunctionError{Name: n.Name}
		}
		args, err := m.walkArgs(n.Args, depth)
		if err != nil {
			return zero, err
		}
		return fn(args...)
	case *expr.BinaryNode:
		op, ok := m.domain.Operator(n.Operator)
		if !ok {
			return zero, &UnknownOperatorError{Name: n.Operator.String()}
		}
		args, err := m.walkArgs(n.Args[:], depth)
		if err != nil {
			return zero, err
		}
		return op(args...)
	case *expr.BooleanNode:
		op, ok := m.domain.Operator(n.Operator)
		if !ok {
			return zero, &UnknownOperatorError{Name: n.Operator.String()}
		}
		args, err := m.walkArgs(n.Args, depth)
		if err != nil {
			return zero, err
		}
		return op(args...)
	case *expr.ArrayNode:
		items, err := m.walkArgs(n.Args, depth)
		if err != nil {
			return zero, err
		}
		return m.domain.Collection(items)
	}
	u.Warnf("unhandled node type %T", arg)
	return zero, fmt.Errorf("unhandled node type %T", arg)
}

// literal reclassifies the raw text through the domain's chain so a
// prepended converter can claim tokens the default chain already typed.
func (m *Interpreter[T]) literal(text string, parsed value.Value) (T, error) {
	v, ok, err := m.classifier.Classify(text)
	if err != nil {
		var zero T
		return zero, err
	}
	if !ok {
		v = parsed
	}
	return m.domain.Literal(v), nil
}

func (m *Interpreter[T]) walkArgs(nodes []expr.Node, depth int) ([]T, error) {
	args := make([]T, len(nodes))
	for i, n := range nodes {
		v, err := m.walk(n, depth+1)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}
