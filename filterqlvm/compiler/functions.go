package compiler

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lytics/odataql/lex"
	"github.com/lytics/odataql/value"
	"github.com/lytics/odataql/vm"
)

// Function implements vm.Domain. Like the operators, functions are total:
// bad input degrades to a zero result instead of failing the record.
func (d *Domain) Function(fn lex.Function) (vm.FunctionFunc[Accessor], bool) {
	switch fn {
	case lex.FuncLength:
		return unary(fn, length), true
	case lex.FuncIndexOf:
		return fixed(fn, 2, LiftN(func(v []value.Value) value.Value { return indexOf(v[0], v[1]) })), true
	case lex.FuncReplace:
		return fixed(fn, 3, LiftN(func(v []value.Value) value.Value {
			return value.NewStringValue(strings.ReplaceAll(value.ValueToString(v[0]), value.ValueToString(v[1]), value.ValueToString(v[2])))
		})), true
	case lex.FuncSubstring:
		lifted := LiftN(substring)
		return func(args ...Accessor) (Accessor, error) {
			if err := vm.CheckArity(fn.String(), len(args), 2, 3); err != nil {
				return nil, err
			}
			return lifted(args...), nil
		}, true
	case lex.FuncToLower:
		return unary(fn, func(v value.Value) value.Value {
			return value.NewStringValue(cases.Lower(language.Und).String(value.ValueToString(v)))
		}), true
	case lex.FuncToUpper:
		return unary(fn, func(v value.Value) value.Value {
			return value.NewStringValue(cases.Upper(language.Und).String(value.ValueToString(v)))
		}), true
	case lex.FuncTrim:
		return unary(fn, func(v value.Value) value.Value {
			return value.NewStringValue(strings.TrimSpace(value.ValueToString(v)))
		}), true
	case lex.FuncRound:
		return unary(fn, rounder(math.RoundToEven)), true
	case lex.FuncFloor:
		return unary(fn, rounder(math.Floor)), true
	case lex.FuncCeiling:
		return unary(fn, rounder(math.Ceil)), true
	case lex.FuncYear:
		return unary(fn, datePart(func(t time.Time) int { return t.Year() })), true
	case lex.FuncMonth:
		return unary(fn, datePart(func(t time.Time) int { return int(t.Month()) })), true
	case lex.FuncDay:
		return unary(fn, datePart(func(t time.Time) int { return t.Day() })), true
	case lex.FuncHour:
		return unary(fn, clockPart(func(t time.Time) int { return t.Hour() })), true
	case lex.FuncMinute:
		return unary(fn, clockPart(func(t time.Time) int { return t.Minute() })), true
	case lex.FuncSecond:
		return unary(fn, clockPart(func(t time.Time) int { return t.Second() })), true
	}
	return nil, false
}

func unary(fn lex.Function, f func(value.Value) value.Value) vm.FunctionFunc[Accessor] {
	lifted := Lift1(f)
	return func(args ...Accessor) (Accessor, error) {
		if err := vm.CheckArity(fn.String(), len(args), 1, 1); err != nil {
			return nil, err
		}
		return lifted(args[0]), nil
	}
}

func fixed(fn lex.Function, n int, lifted func(args ...Accessor) Accessor) vm.FunctionFunc[Accessor] {
	return func(args ...Accessor) (Accessor, error) {
		if err := vm.CheckArity(fn.String(), len(args), n, n); err != nil {
			return nil, err
		}
		return lifted(args...), nil
	}
}

// length counts runes of strings and members of containers; 0 otherwise.
func length(v value.Value) value.Value {
	switch val := v.(type) {
	case value.StringValue:
		return value.NewIntValue(int64(utf8.RuneCountInString(val.Val())))
	case value.Slice:
		return value.NewIntValue(int64(val.Len()))
	case value.Map:
		return value.NewIntValue(int64(val.Len()))
	}
	return value.NewIntValue(0)
}

// indexOf is the zero based rune offset of sub, or -1.
func indexOf(s, sub value.Value) value.Value {
	str := value.ValueToString(s)
	idx := strings.Index(str, value.ValueToString(sub))
	if idx < 0 {
		return value.NewIntValue(-1)
	}
	return value.NewIntValue(int64(utf8.RuneCountInString(str[:idx])))
}

// substring(s, start[, length]) slices by rune. Negative offsets count
// from the end and out of range bounds clamp, never fail.
func substring(vals []value.Value) value.Value {
	runes := []rune(value.ValueToString(vals[0]))
	n := len(runes)
	start, ok := value.ValueToInt64(vals[1])
	if !ok {
		return value.EmptyStringValue
	}
	end := int64(n)
	if len(vals) > 2 {
		count, ok := value.ValueToInt64(vals[2])
		if !ok {
			return value.EmptyStringValue
		}
		end = start + count
	}
	i, j := clampIndex(start, n), clampIndex(end, n)
	if j <= i {
		return value.EmptyStringValue
	}
	return value.NewStringValue(string(runes[i:j]))
}

func clampIndex(i int64, n int) int {
	if i < 0 {
		i += int64(n)
		if i < 0 {
			return 0
		}
	}
	if i > int64(n) {
		return n
	}
	return int(i)
}

// rounder returns 0 for values with no numeric reading.
func rounder(fn func(float64) float64) func(value.Value) value.Value {
	return func(v value.Value) value.Value {
		f, ok := value.ValueToFloat64(v)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return value.NewIntValue(0)
		}
		return value.NewIntValue(int64(fn(f)))
	}
}

// datePart reads from dates and date strings; 0 when there is no date.
func datePart(fn func(time.Time) int) func(value.Value) value.Value {
	return func(v value.Value) value.Value {
		if _, isClock := v.(value.ClockValue); isClock {
			return value.NewIntValue(0)
		}
		t, ok := value.ValueToTime(v)
		if !ok {
			return value.NewIntValue(0)
		}
		return value.NewIntValue(int64(fn(t)))
	}
}

// clockPart reads from dates, times of day and date strings.
func clockPart(fn func(time.Time) int) func(value.Value) value.Value {
	return func(v value.Value) value.Value {
		t, ok := value.ValueToTime(v)
		if !ok {
			return value.NewIntValue(0)
		}
		return value.NewIntValue(int64(fn(t)))
	}
}
