package value

import (
	"math"
	"reflect"
	"strings"
)

// Equal is the in-memory notion of equality: ints and numbers compare
// numerically across kinds, null equals only null, containers compare
// member-wise. Mismatched kinds are never equal.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Nil() || b.Nil() {
		return a.Nil() && b.Nil()
	}
	switch av := a.(type) {
	case IntValue:
		switch bv := b.(type) {
		case IntValue:
			return av.v == bv.v
		case NumberValue:
			return float64(av.v) == bv.v
		}
	case NumberValue:
		if bv, ok := b.(NumericValue); ok {
			return av.v == bv.Float()
		}
	case StringValue:
		if bv, ok := b.(StringValue); ok {
			return av.v == bv.v
		}
	case BoolValue:
		if bv, ok := b.(BoolValue); ok {
			return av.v == bv.v
		}
	case DateValue:
		if bv, ok := b.(DateValue); ok {
			return av.v.Equal(bv.v)
		}
	case ClockValue:
		if bv, ok := b.(ClockValue); ok {
			return av.Duration() == bv.Duration()
		}
	case Slice:
		bv, ok := b.(Slice)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		bs := bv.SliceValue()
		for i, item := range av.SliceValue() {
			if !Equal(item, bs[i]) {
				return false
			}
		}
		return true
	case Map:
		bv, ok := b.(Map)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, k := range av.Keys() {
			x, _ := av.Get(k)
			y, found := bv.Get(k)
			if !found || !Equal(x, y) {
				return false
			}
		}
		return true
	case StructValue:
		if bv, ok := b.(StructValue); ok {
			return reflect.DeepEqual(av.v, bv.v)
		}
	}
	return false
}

// Compare orders two values of compatible kinds, returning -1, 0 or 1.
// ok is false for null operands and for kinds without a common order.
func Compare(a, b Value) (int, bool) {
	if a == nil || b == nil || a.Nil() || b.Nil() {
		return 0, false
	}
	switch av := a.(type) {
	case IntValue:
		switch bv := b.(type) {
		case IntValue:
			return cmpInt(av.v, bv.v), true
		case NumberValue:
			return cmpFloat(float64(av.v), bv.v)
		}
	case NumberValue:
		if bv, ok := b.(NumericValue); ok {
			return cmpFloat(av.v, bv.Float())
		}
	case StringValue:
		if bv, ok := b.(StringValue); ok {
			return strings.Compare(av.v, bv.v), true
		}
	case BoolValue:
		if bv, ok := b.(BoolValue); ok {
			return cmpInt(boolInt(av.v), boolInt(bv.v)), true
		}
	case DateValue:
		if bv, ok := b.(DateValue); ok {
			return av.v.Compare(bv.v), true
		}
	case ClockValue:
		if bv, ok := b.(ClockValue); ok {
			return cmpInt(int64(av.Duration()), int64(bv.Duration())), true
		}
	}
	return 0, false
}

// Truthy decides whether a value counts as a match when it is the
// result of a whole filter.
func Truthy(v Value) bool {
	if v == nil || v.Nil() {
		return false
	}
	switch val := v.(type) {
	case BoolValue:
		return val.v
	case IntValue:
		return val.v != 0
	case NumberValue:
		return val.v != 0 && !math.IsNaN(val.v)
	case StringValue:
		return len(val.v) > 0
	case Slice:
		return val.Len() > 0
	case Map:
		return val.Len() > 0
	}
	return true
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFloat(a, b float64) (int, bool) {
	if math.IsNaN(a) || math.IsNaN(b) {
		return 0, false
	}
	switch {
	case a < b:
		return -1, true
	case a > b:
		return 1, true
	}
	return 0, true
}
