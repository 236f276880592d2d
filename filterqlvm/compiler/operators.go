package compiler

import (
	"math"
	"strings"

	"github.com/mb0/glob"

	"github.com/lytics/odataql/lex"
	"github.com/lytics/odataql/value"
	"github.com/lytics/odataql/vm"
)

// Operator implements vm.Domain. Every operator is total: it never
// fails at evaluation time, mismatched operands simply do not match.
func (d *Domain) Operator(op lex.Operator) (vm.OperatorFunc[Accessor], bool) {
	switch op {
	case lex.OpEq:
		return binary(op, func(a, b value.Value) value.Value { return value.NewBoolValue(value.Equal(a, b)) }), true
	case lex.OpNe:
		return binary(op, func(a, b value.Value) value.Value { return value.NewBoolValue(!value.Equal(a, b)) }), true
	case lex.OpGt:
		return binary(op, compare(func(c int) bool { return c > 0 })), true
	case lex.OpLt:
		return binary(op, compare(func(c int) bool { return c < 0 })), true
	case lex.OpGe:
		return binary(op, compare(func(c int) bool { return c >= 0 })), true
	case lex.OpLe:
		return binary(op, compare(func(c int) bool { return c <= 0 })), true
	case lex.OpAdd, lex.OpSub, lex.OpMul, lex.OpDiv, lex.OpMod:
		return binary(op, arithmetic(op)), true
	case lex.OpAnd:
		return combine(func(vals []value.Value) bool {
			for _, v := range vals {
				if !value.Truthy(v) {
					return false
				}
			}
			return true
		}), true
	case lex.OpOr:
		return combine(func(vals []value.Value) bool {
			for _, v := range vals {
				if value.Truthy(v) {
					return true
				}
			}
			return false
		}), true
	case lex.OpLike:
		if d.globLike {
			return binary(op, textPredicate(globLike)), true
		}
		return binary(op, textPredicate(strings.Contains)), true
	case lex.OpStartsWith:
		return binary(op, textPredicate(strings.HasPrefix)), true
	case lex.OpEndsWith:
		return binary(op, textPredicate(strings.HasSuffix)), true
	case lex.OpContains, lex.OpHas:
		return binary(op, func(a, b value.Value) value.Value { return value.NewBoolValue(contains(a, b)) }), true
	case lex.OpLacks, lex.OpHasNot:
		return binary(op, func(a, b value.Value) value.Value { return value.NewBoolValue(!contains(a, b)) }), true
	case lex.OpIn:
		return binary(op, func(a, b value.Value) value.Value { return value.NewBoolValue(in(a, b)) }), true
	}
	return nil, false
}

func binary(op lex.Operator, fn func(a, b value.Value) value.Value) vm.OperatorFunc[Accessor] {
	lifted := Lift2(fn)
	return func(args ...Accessor) (Accessor, error) {
		if err := vm.CheckArity(op.String(), len(args), 2, 2); err != nil {
			return nil, err
		}
		return lifted(args[0], args[1]), nil
	}
}

// combine evaluates every operand before deciding; there is no short
// circuit.
func combine(fn func(vals []value.Value) bool) vm.OperatorFunc[Accessor] {
	lifted := LiftN(func(vals []value.Value) value.Value { return value.NewBoolValue(fn(vals)) })
	return func(args ...Accessor) (Accessor, error) {
		return lifted(args...), nil
	}
}

// compare is false when either side is nil or the kinds have no order.
func compare(test func(int) bool) func(a, b value.Value) value.Value {
	return func(a, b value.Value) value.Value {
		c, ok := value.Compare(a, b)
		if !ok {
			return value.BoolValueFalse
		}
		return value.NewBoolValue(test(c))
	}
}

// numeric substitutes def for nil; ok is false for non-numeric values.
func numeric(v value.Value, def int64) (value.Value, bool) {
	switch n := v.(type) {
	case value.NilValue:
		return value.NewIntValue(def), true
	case value.IntValue, value.NumberValue:
		return n, true
	case value.BoolValue:
		if n.Val() {
			return value.NewIntValue(1), true
		}
		return value.NewIntValue(0), true
	}
	return nil, false
}

// arithmetic treats a nil operand as 0, and a nil or zero divisor as 1.
// Results stay ints while both operands are ints, except div which is
// always a number. A non-numeric operand yields nil.
func arithmetic(op lex.Operator) func(a, b value.Value) value.Value {
	return func(a, b value.Value) value.Value {
		l, ok := numeric(a, 0)
		if !ok {
			return value.NilValueVal
		}
		var r value.Value
		if op == lex.OpDiv || op == lex.OpMod {
			r, ok = numeric(b, 1)
			if ok && r.(value.NumericValue).Float() == 0 {
				r = value.NewIntValue(1)
			}
		} else {
			r, ok = numeric(b, 0)
		}
		if !ok {
			return value.NilValueVal
		}
		li, lInt := l.(value.IntValue)
		ri, rInt := r.(value.IntValue)
		if lInt && rInt && op != lex.OpDiv {
			x, y := li.Val(), ri.Val()
			switch op {
			case lex.OpAdd:
				return value.NewIntValue(x + y)
			case lex.OpSub:
				return value.NewIntValue(x - y)
			case lex.OpMul:
				return value.NewIntValue(x * y)
			case lex.OpMod:
				m := x % y
				if m != 0 && (m < 0) != (y < 0) {
					m += y
				}
				return value.NewIntValue(m)
			}
		}
		x, y := l.(value.NumericValue).Float(), r.(value.NumericValue).Float()
		switch op {
		case lex.OpAdd:
			return value.NewNumberValue(x + y)
		case lex.OpSub:
			return value.NewNumberValue(x - y)
		case lex.OpMul:
			return value.NewNumberValue(x * y)
		case lex.OpDiv:
			return value.NewNumberValue(x / y)
		case lex.OpMod:
			m := math.Mod(x, y)
			if m != 0 && (m < 0) != (y < 0) {
				m += y
			}
			return value.NewNumberValue(m)
		}
		return value.NilValueVal
	}
}

// textPredicate compares the string forms of both sides, case sensitive.
func textPredicate(fn func(s, pattern string) bool) func(a, b value.Value) value.Value {
	return func(a, b value.Value) value.Value {
		return value.NewBoolValue(fn(value.ValueToString(a), value.ValueToString(b)))
	}
}

// globLike is a substring test unless the pattern carries % or *
// wildcards, in which case the whole string must match the glob.
func globLike(s, pattern string) bool {
	if !strings.ContainsAny(pattern, "%*") {
		return strings.Contains(s, pattern)
	}
	match, err := glob.Match(strings.ReplaceAll(pattern, "%", "*"), s)
	if err != nil {
		return false
	}
	return match
}

// contains is substring for strings, key membership for maps and
// element membership for slices. Anything else does not contain.
func contains(a, b value.Value) bool {
	switch av := a.(type) {
	case value.StringValue:
		return strings.Contains(av.Val(), value.ValueToString(b))
	case value.Map:
		key, ok := b.(value.StringValue)
		if !ok {
			return false
		}
		_, found := av.Get(key.Val())
		return found
	case value.Slice:
		for _, item := range av.SliceValue() {
			if value.Equal(item, b) {
				return true
			}
		}
	}
	return false
}

// in tests a against the members of b, a scalar b is a one item list.
// Container values are compared by their string forms.
func in(a, b value.Value) bool {
	var items []value.Value
	if s, ok := b.(value.Slice); ok {
		items = s.SliceValue()
	} else {
		items = []value.Value{b}
	}
	switch a.(type) {
	case value.Map, value.Slice, value.StructValue:
		as := value.ValueToString(a)
		for _, item := range items {
			if as == value.ValueToString(item) {
				return true
			}
		}
		return false
	}
	for _, item := range items {
		if value.Equal(a, item) {
			return true
		}
	}
	return false
}
