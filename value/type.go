package value

// ValueType is the data type of a Value: the literal scalar kinds a filter
// may spell, plus the container kinds found while walking records.
type ValueType uint8

const (
	// Enum values for Type system, DO NOT CHANGE the numbers, do not use iota
	NilType        ValueType = 0
	UnknownType    ValueType = 2
	NumberType     ValueType = 10
	IntType        ValueType = 11
	BoolType       ValueType = 12
	DateType       ValueType = 13
	ClockType      ValueType = 15
	StringType     ValueType = 20
	MapValueType   ValueType = 30
	SliceValueType ValueType = 40
	StructType     ValueType = 50
)

var (
	typeToStr = map[ValueType]string{
		NilType:        "nil",
		UnknownType:    "unknown",
		NumberType:     "number",
		IntType:        "int",
		BoolType:       "bool",
		DateType:       "date",
		ClockType:      "time",
		StringType:     "string",
		MapValueType:   "map[string]value",
		SliceValueType: "[]value",
		StructType:     "struct",
	}
	numTypes = map[ValueType]bool{
		NumberType: true,
		IntType:    true,
	}
	literalTypes = map[ValueType]bool{
		NilType:    true,
		NumberType: true,
		IntType:    true,
		BoolType:   true,
		DateType:   true,
		ClockType:  true,
		StringType: true,
	}
)

func (m ValueType) String() string {
	if s, ok := typeToStr[m]; ok {
		return s
	}
	return "invalid"
}

func (m ValueType) IsMap() bool     { return m == MapValueType }
func (m ValueType) IsSlice() bool   { return m == SliceValueType }
func (m ValueType) IsNumeric() bool { return numTypes[m] }

// IsLiteral is true for the closed set of kinds a filter literal can produce.
func (m ValueType) IsLiteral() bool { return literalTypes[m] }
