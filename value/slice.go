package value

import (
	"encoding/json"
)

func NewSliceValues(v []Value) SliceValue {
	return SliceValue{v: v}
}

func NewSliceValuesNative(iv []any) SliceValue {
	vs := make([]Value, len(iv))
	for i, v := range iv {
		vs[i] = NewValue(v)
	}
	return SliceValue{v: vs}
}

func (m SliceValue) Nil() bool                    { return false }
func (m SliceValue) Type() ValueType              { return SliceValueType }
func (m SliceValue) Val() []Value                 { return m.v }
func (m SliceValue) Len() int                     { return len(m.v) }
func (m SliceValue) SliceValue() []Value          { return m.v }
func (m SliceValue) MarshalJSON() ([]byte, error) { return json.Marshal(m.v) }
func (m SliceValue) ToString() string {
	by, err := m.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(by)
}

// Value unwraps every member into its native form.
func (m SliceValue) Value() any {
	out := make([]any, len(m.v))
	for i, v := range m.v {
		out[i] = v.Value()
	}
	return out
}
