package blevegen

import (
	"strings"

	u "github.com/araddon/gou"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/lytics/odataql/generators/gentypes"
	"github.com/lytics/odataql/lex"
	"github.com/lytics/odataql/value"
	"github.com/lytics/odataql/vm"
)

var (
	_ vm.Domain[any]       = (*domain)(nil)
	_ vm.ConverterProvider = (*domain)(nil)
)

// missingField is a column the schema doesn't define.
type missingField string

// domain values are gentypes.Field for columns, plain go values for
// literals, []any for collections and query.Query for conditions.
type domain struct {
	schema gentypes.SchemaColumns
}

func (d *domain) Converters() []value.Converter { return value.SignedNumberConverters() }

func (d *domain) ResolveColumn(path string) (any, error) {
	f, err := gentypes.Resolve(d.schema, path)
	if err != nil {
		u.Debugf("bleve filter on unknown column %q", path)
		return missingField(path), nil
	}
	return f, nil
}

func (d *domain) Literal(v value.Value) any { return gentypes.Native(v) }

func (d *domain) Collection(items []any) (any, error) {
	for _, item := range items {
		if !gentypes.IsScalar(item) {
			return nil, gentypes.InvalidOperand("collection", "items must be literals, found %T", item)
		}
	}
	return items, nil
}

func (d *domain) Operator(op lex.Operator) (vm.OperatorFunc[any], bool) {
	switch op {
	case lex.OpAnd:
		return combine(op, AndFilter), true
	case lex.OpOr:
		return combine(op, OrFilter), true
	case lex.OpEq:
		return condition(op, eq), true
	case lex.OpNe:
		return condition(op, func(f gentypes.Field, r any) (query.Query, error) {
			q, err := eq(f, r)
			if err != nil {
				return nil, err
			}
			return NotFilter(q), nil
		}), true
	case lex.OpGt, lex.OpGe, lex.OpLt, lex.OpLe:
		return condition(op, func(f gentypes.Field, r any) (query.Query, error) {
			return makeRange(f, op, r)
		}), true
	case lex.OpLike:
		return condition(op, pattern(op, func(s string) (string, bool) {
			if strings.Contains(s, "%") {
				return strings.ReplaceAll(s, "%", "*"), false
			}
			return s, true
		})), true
	case lex.OpStartsWith:
		return condition(op, func(f gentypes.Field, r any) (query.Query, error) {
			s, ok := r.(string)
			if !ok {
				return nil, gentypes.InvalidOperand(op.String(), "prefix must be a string")
			}
			return Prefix(f.Name, strings.ToLower(s)), nil
		}), true
	case lex.OpEndsWith:
		return condition(op, pattern(op, func(s string) (string, bool) { return "*" + s, false })), true
	case lex.OpHas, lex.OpContains, lex.OpIn:
		return condition(op, anyOf), true
	case lex.OpHasNot, lex.OpLacks:
		return condition(op, func(f gentypes.Field, r any) (query.Query, error) {
			q, err := anyOf(f, r)
			if err != nil {
				return nil, err
			}
			return NotFilter(q), nil
		}), true
	}
	return nil, false
}

// Function always fails: there is no query form for computed values.
func (d *domain) Function(fn lex.Function) (vm.FunctionFunc[any], bool) {
	return nil, false
}

func combine(op lex.Operator, join func([]query.Query) query.Query) vm.OperatorFunc[any] {
	return func(args ...any) (any, error) {
		qs := make([]query.Query, 0, len(args))
		for _, arg := range args {
			switch q := arg.(type) {
			case query.Query:
				qs = append(qs, q)
			case missingField:
				qs = append(qs, MatchNone())
			default:
				return nil, gentypes.InvalidOperand(op.String(), "operand is not a condition: %T", arg)
			}
		}
		return join(qs), nil
	}
}

// condition requires a column on the left and a literal on the right.
func condition(op lex.Operator, fn func(f gentypes.Field, r any) (query.Query, error)) vm.OperatorFunc[any] {
	return func(args ...any) (any, error) {
		if err := vm.CheckArity(op.String(), len(args), 2, 2); err != nil {
			return nil, err
		}
		l, r := args[0], args[1]
		if _, ok := l.(missingField); ok {
			return MatchNone(), nil
		}
		f, ok := l.(gentypes.Field)
		if !ok {
			return nil, gentypes.InvalidOperand(op.String(), "left side must be a field")
		}
		switch r.(type) {
		case gentypes.Field, missingField, query.Query:
			return nil, gentypes.InvalidOperand(op.String(), "right side must be a literal")
		}
		return fn(f, r)
	}
}

// eq against null matches documents without the field.
func eq(f gentypes.Field, r any) (query.Query, error) {
	if r == nil {
		return NotFilter(Exists(f.Name)), nil
	}
	if list, ok := r.([]any); ok {
		return In(f, list)
	}
	return scalarQuery(f, r)
}

// anyOf matches when the field holds any of the operand's items.
func anyOf(f gentypes.Field, r any) (query.Query, error) {
	switch val := r.(type) {
	case []any:
		return In(f, val)
	case nil:
		return NotFilter(Exists(f.Name)), nil
	}
	return scalarQuery(f, r)
}

// pattern lowercases the operand, since analyzed terms are lower case.
func pattern(op lex.Operator, shape func(string) (string, bool)) func(f gentypes.Field, r any) (query.Query, error) {
	return func(f gentypes.Field, r any) (query.Query, error) {
		s, ok := r.(string)
		if !ok {
			return nil, gentypes.InvalidOperand(op.String(), "pattern must be a string")
		}
		p, addStars := shape(strings.ToLower(s))
		return Wildcard(f.Name, p, addStars), nil
	}
}
