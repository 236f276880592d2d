package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	typeToInt = map[ValueType]uint8{
		NilType:        0,
		UnknownType:    2,
		NumberType:     10,
		IntType:        11,
		BoolType:       12,
		DateType:       13,
		ClockType:      15,
		StringType:     20,
		MapValueType:   30,
		SliceValueType: 40,
		StructType:     50,
	}
)

func TestAllValueTypesDefined(t *testing.T) {
	for v := range typeToInt {
		_, ok := typeToStr[v]
		assert.True(t, ok)
	}
	for v := range typeToStr {
		_, ok := typeToInt[v]
		assert.True(t, ok)
	}
}
func TestValueTypeUint8(t *testing.T) {
	for v := range typeToStr {
		assert.Equal(t, typeToInt[v], uint8(v))
	}
}
func TestValueTypeString(t *testing.T) {
	for v, s := range typeToStr {
		assert.Equal(t, s, v.String())
	}
	assert.Equal(t, "invalid", ValueType(99).String())
}

func TestValueTypeKinds(t *testing.T) {
	assert.True(t, MapValueType.IsMap())
	assert.False(t, SliceValueType.IsMap())
	assert.True(t, SliceValueType.IsSlice())
	assert.True(t, IntType.IsNumeric())
	assert.True(t, NumberType.IsNumeric())
	assert.False(t, StringType.IsNumeric())
	for _, vt := range []ValueType{NilType, IntType, NumberType, StringType, BoolType, DateType, ClockType} {
		assert.True(t, vt.IsLiteral(), vt.String())
	}
	assert.False(t, MapValueType.IsLiteral())
	assert.False(t, StructType.IsLiteral())
}
