// Package value defines the typed values that flow through filter
// compilation: the closed set of literal scalars produced by the literal
// classifier (int, number, string, bool, null, date, time-of-day), plus
// the container values found while walking in-memory records.
package value

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
)

var (
	NilValueVal      = NewNilValue()
	BoolValueTrue    = BoolValue{v: true}
	BoolValueFalse   = BoolValue{v: false}
	EmptyStringValue = NewStringValue("")
	EmptyMapValue    = NewMapValue(nil)
	EmptySliceValue  = NewSliceValues(nil)

	_ Value = (StringValue)(EmptyStringValue)

	// force some types to implement interfaces
	_ NumericValue = (IntValue)(IntValue{})
	_ NumericValue = (NumberValue)(NumberValue{})
	_ Slice        = (SliceValue)(EmptySliceValue)
	_ Map          = (MapValue)(EmptyMapValue)
)

type (
	Value interface {
		// Nil is true only for the null value; empty strings and
		// empty containers are not nil.
		Nil() bool
		Value() any
		ToString() string
		Type() ValueType
	}
	// Certain types are Numeric (Ints, Number)
	NumericValue interface {
		Float() float64
		Int() int64
	}
	// Slices can always return a []Value representation and is meant to be used
	// when iterating over all items in a non-scalar value.
	Slice interface {
		SliceValue() []Value
		Len() int
		json.Marshaler
	}
	// Map is keyed by string; Get of a missing key is (nil, false).
	Map interface {
		json.Marshaler
		Len() int
		Keys() []string
		Get(key string) (Value, bool)
	}
)

type (
	NumberValue struct {
		v float64
	}
	IntValue struct {
		v int64
	}
	BoolValue struct {
		v bool
	}
	StringValue struct {
		v string
	}
	DateValue struct {
		v time.Time
	}
	ClockValue struct {
		v time.Time
	}
	SliceValue struct {
		v []Value
	}
	MapValue struct {
		v map[string]any
	}
	StructValue struct {
		v any
	}
	NilValue struct{}
)

// NewValue wraps a native go value. Containers are wrapped lazily, their
// members are converted on access.
func NewValue(goVal any) Value {

	switch val := goVal.(type) {
	case nil:
		return NilValueVal
	case Value:
		return val
	case float64:
		return NewNumberValue(val)
	case float32:
		return NewNumberValue(float64(val))
	case int:
		return NewIntValue(int64(val))
	case int8:
		return NewIntValue(int64(val))
	case int16:
		return NewIntValue(int64(val))
	case int32:
		return NewIntValue(int64(val))
	case int64:
		return NewIntValue(val)
	case uint:
		return NewIntValue(int64(val))
	case uint8:
		return NewIntValue(int64(val))
	case uint16:
		return NewIntValue(int64(val))
	case uint32:
		return NewIntValue(int64(val))
	case uint64:
		return NewIntValue(int64(val))
	case json.Number:
		if iv, err := val.Int64(); err == nil {
			return NewIntValue(iv)
		}
		if fv, err := val.Float64(); err == nil {
			return NewNumberValue(fv)
		}
		return NewStringValue(val.String())
	case string:
		return NewStringValue(val)
	case []byte:
		return NewStringValue(string(val))
	case bool:
		return NewBoolValue(val)
	case time.Time:
		return NewDateValue(val)
	case *time.Time:
		if val == nil {
			return NilValueVal
		}
		return NewDateValue(*val)
	case map[string]any:
		return NewMapValue(val)
	case []any:
		vals := make([]Value, len(val))
		for i, v := range val {
			vals[i] = NewValue(v)
		}
		return NewSliceValues(vals)
	case []string:
		vals := make([]Value, len(val))
		for i, v := range val {
			vals[i] = NewStringValue(v)
		}
		return NewSliceValues(vals)
	default:
		return newReflectValue(reflect.ValueOf(goVal))
	}
}

func newReflectValue(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return NilValueVal
		}
		return NewValue(rv.Elem().Interface())
	case reflect.Map:
		if rv.IsNil() {
			return NilValueVal
		}
		if rv.Type().Key().Kind() != reflect.String {
			return NewStructValue(rv.Interface())
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return NewMapValue(m)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return NilValueVal
		}
		vals := make([]Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			vals[i] = NewValue(rv.Index(i).Interface())
		}
		return NewSliceValues(vals)
	case reflect.String:
		return NewStringValue(rv.String())
	case reflect.Bool:
		return NewBoolValue(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewIntValue(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return NewIntValue(int64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return NewNumberValue(rv.Float())
	}
	return NewStructValue(rv.Interface())
}

func NewStructValue(v any) StructValue {
	return StructValue{v: v}
}

func (m StructValue) Nil() bool                    { return false }
func (m StructValue) Type() ValueType              { return StructType }
func (m StructValue) Value() any                   { return m.v }
func (m StructValue) Val() any                     { return m.v }
func (m StructValue) MarshalJSON() ([]byte, error) { return json.Marshal(m.v) }
func (m StructValue) ToString() string             { return fmt.Sprintf("%v", m.v) }

func NewNilValue() NilValue {
	return NilValue{}
}

func (m NilValue) Nil() bool                    { return true }
func (m NilValue) Type() ValueType              { return NilType }
func (m NilValue) Value() any                   { return nil }
func (m NilValue) MarshalJSON() ([]byte, error) { return []byte("null"), nil }
func (m NilValue) ToString() string             { return "" }

// ValueToString is total: every value has a string form, null is "".
func ValueToString(val Value) string {
	if val == nil {
		return ""
	}
	return val.ToString()
}

// ValueToFloat64 converts numerics, numeric strings and bools.
func ValueToFloat64(val Value) (float64, bool) {
	switch v := val.(type) {
	case IntValue:
		return v.Float(), true
	case NumberValue:
		return v.Float(), true
	case BoolValue:
		if v.v {
			return 1, true
		}
		return 0, true
	case StringValue:
		if nv, ok := v.NumberValue(); ok {
			return nv.v, true
		}
	}
	return 0, false
}

// ValueToInt64 converts numerics (truncating), numeric strings and bools.
func ValueToInt64(val Value) (int64, bool) {
	switch v := val.(type) {
	case IntValue:
		return v.v, true
	case StringValue:
		if iv, err := strconv.ParseInt(v.v, 10, 64); err == nil {
			return iv, true
		}
	}
	fv, ok := ValueToFloat64(val)
	if !ok {
		return 0, false
	}
	return int64(fv), true
}

// ValueToTime converts dates, times of day, and strings in any layout
// dateparse understands.
func ValueToTime(val Value) (time.Time, bool) {
	switch v := val.(type) {
	case DateValue:
		return v.v, true
	case ClockValue:
		return v.v, true
	case StringValue:
		t, err := dateparse.ParseAny(v.v)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}
