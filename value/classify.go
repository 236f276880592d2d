package value

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lytics/datemath"
)

// ErrLiteral wraps every failure of a converter whose pattern matched.
var ErrLiteral = errors.New("invalid literal")

// Converter turns a raw literal token into a typed Value. The Pattern
// decides whether the converter applies; Convert may still reject the
// token (an out of range month, an overflowing int).
type Converter struct {
	Name    string
	Pattern *regexp.Regexp
	Convert func(token string) (Value, error)
}

var (
	DateConverter = Converter{
		Name:    "date",
		Pattern: regexp.MustCompile(`^['"]?\d{2,4}-\d{1,2}-\d{1,2}['"]?$`),
		Convert: convertDate,
	}
	ClockConverter = Converter{
		Name:    "time",
		Pattern: regexp.MustCompile(`^['"]?\d{1,2}:\d{1,2}(:\d{1,2})?['"]?$`),
		Convert: convertClock,
	}
	IntConverter = Converter{
		Name:    "int",
		Pattern: regexp.MustCompile(`^\d+$`),
		Convert: convertInt,
	}
	FloatConverter = Converter{
		Name:    "float",
		Pattern: regexp.MustCompile(`^\d+\.\d+$`),
		Convert: convertFloat,
	}
	SignedIntConverter = Converter{
		Name:    "signed int",
		Pattern: regexp.MustCompile(`^[+-]?\d+$`),
		Convert: convertInt,
	}
	SignedFloatConverter = Converter{
		Name:    "signed float",
		Pattern: regexp.MustCompile(`^[+-]?\d+\.\d+$`),
		Convert: convertFloat,
	}
	StringConverter = Converter{
		Name:    "string",
		Pattern: regexp.MustCompile(`(?s)^'.*'$|^".*"$`),
		Convert: convertString,
	}
	BoolConverter = Converter{
		Name:    "bool",
		Pattern: regexp.MustCompile(`^(?i:true|false)$`),
		Convert: func(token string) (Value, error) {
			return NewBoolValue(strings.EqualFold(token, "true")), nil
		},
	}
	NullConverter = Converter{
		Name:    "null",
		Pattern: regexp.MustCompile(`^null$`),
		Convert: func(string) (Value, error) { return NilValueVal, nil },
	}
)

// DefaultConverters is the base chain every classifier ends with.
func DefaultConverters() []Converter {
	return []Converter{
		DateConverter,
		ClockConverter,
		IntConverter,
		FloatConverter,
		StringConverter,
		BoolConverter,
		NullConverter,
	}
}

// SignedNumberConverters accept a leading sign, so "-5" is an int.
func SignedNumberConverters() []Converter {
	return []Converter{SignedIntConverter, SignedFloatConverter}
}

// ExtendedConverters is the chain the in-memory domain prepends.
func ExtendedConverters() []Converter {
	return []Converter{
		DateConverter,
		ClockConverter,
		SignedIntConverter,
		SignedFloatConverter,
		BoolConverter,
		StringConverter,
	}
}

// DateMathConverter evaluates quoted relative dates such as 'now-7d' or
// "now/d" against the instant returned by now at classification time.
func DateMathConverter(now func() time.Time) Converter {
	return Converter{
		Name:    "datemath",
		Pattern: regexp.MustCompile(`^['"]now([-+/][^'"]*)?['"]$`),
		Convert: func(token string) (Value, error) {
			t, err := datemath.EvalAnchor(now(), unquote(token))
			if err != nil {
				return nil, err
			}
			return NewDateValue(t), nil
		},
	}
}

// Classifier runs an ordered converter chain; the first pattern that
// matches wins.
type Classifier struct {
	converters []Converter
}

// NewClassifier builds a chain of prepend followed by DefaultConverters.
func NewClassifier(prepend ...Converter) *Classifier {
	cs := make([]Converter, 0, len(prepend)+7)
	cs = append(cs, prepend...)
	cs = append(cs, DefaultConverters()...)
	return &Classifier{converters: cs}
}

func (c *Classifier) Converters() []Converter { return c.converters }

// Classify returns ok=false when no pattern matches, which makes the
// token a field reference. A matched converter that fails returns an
// error wrapping ErrLiteral.
func (c *Classifier) Classify(token string) (Value, bool, error) {
	for _, cv := range c.converters {
		if !cv.Pattern.MatchString(token) {
			continue
		}
		v, err := cv.Convert(token)
		if err != nil {
			return nil, true, fmt.Errorf("%w: %s %s: %v", ErrLiteral, cv.Name, token, err)
		}
		return v, true, nil
	}
	return nil, false, nil
}

func unquote(token string) string {
	return strings.Trim(token, `'"`)
}

func convertDate(token string) (Value, error) {
	parts := strings.Split(unquote(token), "-")
	if len(parts) != 3 {
		return nil, fmt.Errorf("expected year-month-day")
	}
	nums, err := atois(parts)
	if err != nil {
		return nil, err
	}
	y, m, d := nums[0], nums[1], nums[2]
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return nil, fmt.Errorf("date out of range")
	}
	return NewDateValue(t), nil
}

func convertClock(token string) (Value, error) {
	nums, err := atois(strings.Split(unquote(token), ":"))
	if err != nil {
		return nil, err
	}
	for len(nums) < 3 {
		nums = append(nums, 0)
	}
	h, m, s := nums[0], nums[1], nums[2]
	if h > 23 || m > 59 || s > 59 {
		return nil, fmt.Errorf("time out of range")
	}
	return NewClockValue(h, m, s), nil
}

func convertInt(token string) (Value, error) {
	iv, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return nil, err
	}
	return NewIntValue(iv), nil
}

func convertFloat(token string) (Value, error) {
	fv, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil, err
	}
	return NewNumberValue(fv), nil
}

// convertString strips the outer quotes and resolves backslash escapes.
func convertString(token string) (Value, error) {
	inner := token[1 : len(token)-1]
	if !strings.Contains(inner, `\`) {
		return NewStringValue(inner), nil
	}
	var sb strings.Builder
	sb.Grow(len(inner))
	escaped := false
	for _, r := range inner {
		if escaped {
			sb.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		sb.WriteRune(r)
	}
	if escaped {
		sb.WriteRune('\\')
	}
	return NewStringValue(sb.String()), nil
}

func atois(parts []string) ([]int, error) {
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
