package value

import (
	"encoding/json"
	"strconv"
)

func NewStringValue(v string) StringValue {
	return StringValue{v: v}
}

// Nil is false even for the empty string: "" is a value, not a missing one.
func (m StringValue) Nil() bool                    { return false }
func (m StringValue) Type() ValueType              { return StringType }
func (m StringValue) Value() any                   { return m.v }
func (m StringValue) Val() string                  { return m.v }
func (m StringValue) ToString() string             { return m.v }
func (m StringValue) MarshalJSON() ([]byte, error) { return json.Marshal(m.v) }

func (m StringValue) NumberValue() (NumberValue, bool) {
	fv, err := strconv.ParseFloat(m.v, 64)
	if err != nil {
		return NumberValue{}, false
	}
	return NewNumberValue(fv), true
}
