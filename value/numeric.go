package value

import (
	"encoding/json"
	"math"
	"strconv"
)

func NewNumberValue(v float64) NumberValue {
	return NumberValue{v: v}
}

func (m NumberValue) Nil() bool       { return false }
func (m NumberValue) Type() ValueType { return NumberType }
func (m NumberValue) Value() any      { return m.v }
func (m NumberValue) Val() float64    { return m.v }
func (m NumberValue) Float() float64  { return m.v }
func (m NumberValue) Int() int64      { return int64(m.v) }
func (m NumberValue) MarshalJSON() ([]byte, error) {
	if math.IsNaN(m.v) || math.IsInf(m.v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(m.v)
}
func (m NumberValue) ToString() string { return strconv.FormatFloat(m.v, 'f', -1, 64) }

func NewIntValue(v int64) IntValue {
	return IntValue{v: v}
}

func (m IntValue) Nil() bool                    { return false }
func (m IntValue) Type() ValueType              { return IntType }
func (m IntValue) Value() any                   { return m.v }
func (m IntValue) Val() int64                   { return m.v }
func (m IntValue) Float() float64               { return float64(m.v) }
func (m IntValue) Int() int64                   { return m.v }
func (m IntValue) NumberValue() NumberValue     { return NewNumberValue(float64(m.v)) }
func (m IntValue) MarshalJSON() ([]byte, error) { return json.Marshal(m.v) }
func (m IntValue) ToString() string             { return strconv.FormatInt(m.v, 10) }
