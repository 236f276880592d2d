package lex

import "strings"

// Operator is the closed set of infix operator words. Operator words are
// case sensitive.
type Operator uint8

const (
	OpUnknown Operator = iota
	OpEq
	OpNe
	OpGt
	OpLt
	OpGe
	OpLe
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpLike
	OpEndsWith
	OpStartsWith
	OpContains
	OpLacks
	OpHas
	OpHasNot
	OpIn
)

var operatorNames = [...]string{
	OpUnknown:    "unknown",
	OpEq:         "eq",
	OpNe:         "ne",
	OpGt:         "gt",
	OpLt:         "lt",
	OpGe:         "ge",
	OpLe:         "le",
	OpAdd:        "add",
	OpSub:        "sub",
	OpMul:        "mul",
	OpDiv:        "div",
	OpMod:        "mod",
	OpAnd:        "AND",
	OpOr:         "OR",
	OpLike:       "like",
	OpEndsWith:   "endswith",
	OpStartsWith: "startswith",
	OpContains:   "contains",
	OpLacks:      "lacks",
	OpHas:        "has",
	OpHasNot:     "hasNot",
	OpIn:         "in",
}

var operatorLookup = func() map[string]Operator {
	m := make(map[string]Operator, len(operatorNames))
	for i, name := range operatorNames {
		if Operator(i) != OpUnknown {
			m[name] = Operator(i)
		}
	}
	return m
}()

func (o Operator) String() string {
	if int(o) < len(operatorNames) {
		return operatorNames[o]
	}
	return "unknown"
}

// IsBoolean is true for the AND/OR combinators.
func (o Operator) IsBoolean() bool { return o == OpAnd || o == OpOr }

// OperatorFromString is an exact, case sensitive lookup.
func OperatorFromString(s string) Operator {
	return operatorLookup[s]
}

// Operators lists every known operator in declaration order.
func Operators() []Operator {
	ops := make([]Operator, 0, len(operatorNames)-1)
	for i := 1; i < len(operatorNames); i++ {
		ops = append(ops, Operator(i))
	}
	return ops
}

// Function is the closed set of built-in function names. Function names
// are matched case insensitively.
type Function uint8

const (
	FuncUnknown Function = iota
	FuncLength
	FuncIndexOf
	FuncReplace
	FuncSubstring
	FuncToLower
	FuncToUpper
	FuncTrim
	FuncRound
	FuncFloor
	FuncCeiling
	FuncYear
	FuncMonth
	FuncDay
	FuncHour
	FuncMinute
	FuncSecond
)

var functionNames = [...]string{
	FuncUnknown:   "unknown",
	FuncLength:    "length",
	FuncIndexOf:   "indexOf",
	FuncReplace:   "replace",
	FuncSubstring: "substring",
	FuncToLower:   "toLower",
	FuncToUpper:   "toUpper",
	FuncTrim:      "trim",
	FuncRound:     "round",
	FuncFloor:     "floor",
	FuncCeiling:   "ceiling",
	FuncYear:      "year",
	FuncMonth:     "month",
	FuncDay:       "day",
	FuncHour:      "hour",
	FuncMinute:    "minute",
	FuncSecond:    "second",
}

var functionLookup = func() map[string]Function {
	m := make(map[string]Function, len(functionNames))
	for i, name := range functionNames {
		if Function(i) != FuncUnknown {
			m[strings.ToLower(name)] = Function(i)
		}
	}
	return m
}()

func (f Function) String() string {
	if int(f) < len(functionNames) {
		return functionNames[f]
	}
	return "unknown"
}

// FunctionFromString returns FuncUnknown for names outside the set.
func FunctionFromString(s string) Function {
	return functionLookup[strings.ToLower(s)]
}

// Functions lists every known function in declaration order.
func Functions() []Function {
	fns := make([]Function, 0, len(functionNames)-1)
	for i := 1; i < len(functionNames); i++ {
		fns = append(fns, Function(i))
	}
	return fns
}
