package mongogen

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/lytics/odataql/generators/gentypes"
	"github.com/lytics/odataql/lex"
	"github.com/lytics/odataql/value"
	"github.com/lytics/odataql/vm"
)

var (
	_ vm.Domain[any]       = (*domain)(nil)
	_ vm.ConverterProvider = (*domain)(nil)
)

var comparisons = map[lex.Operator]string{
	lex.OpEq: "$eq",
	lex.OpNe: "$ne",
	lex.OpGt: "$gt",
	lex.OpLt: "$lt",
	lex.OpGe: "$gte",
	lex.OpLe: "$lte",
}

var arithmetic = map[lex.Operator]string{
	lex.OpAdd: "$add",
	lex.OpSub: "$subtract",
	lex.OpMul: "$multiply",
	lex.OpDiv: "$divide",
	lex.OpMod: "$mod",
}

// domain values are gentypes.Field for columns, plain go values for
// literals, bson.A for collections and bson.M for fragments.
type domain struct {
	schema gentypes.SchemaColumns
}

func (d *domain) Converters() []value.Converter { return value.SignedNumberConverters() }

func (d *domain) ResolveColumn(path string) (any, error) {
	return gentypes.Resolve(d.schema, path)
}

func (d *domain) Literal(v value.Value) any { return gentypes.Native(v) }

// Collection items that name columns are kept as their field name.
func (d *domain) Collection(items []any) (any, error) {
	out := make(bson.A, len(items))
	for i, item := range items {
		if f, ok := item.(gentypes.Field); ok {
			out[i] = f.Name
			continue
		}
		out[i] = item
	}
	return out, nil
}

func (d *domain) Operator(op lex.Operator) (vm.OperatorFunc[any], bool) {
	if sym, ok := comparisons[op]; ok {
		return binary(op, compare(sym)), true
	}
	if sym, ok := arithmetic[op]; ok {
		return binary(op, func(l, r any) (any, error) {
			return bson.M{sym: bson.A{exprOperand(l), exprOperand(r)}}, nil
		}), true
	}
	switch op {
	case lex.OpAnd:
		return combine("$and"), true
	case lex.OpOr:
		return combine("$or"), true
	case lex.OpLike:
		return binary(op, regex(op, func(s string) string { return s })), true
	case lex.OpStartsWith:
		return binary(op, regex(op, func(s string) string { return "^" + s })), true
	case lex.OpEndsWith:
		return binary(op, regex(op, func(s string) string { return s + "$" })), true
	case lex.OpHas:
		return binary(op, elemMatch(op, false)), true
	case lex.OpHasNot:
		return binary(op, elemMatch(op, true)), true
	case lex.OpContains, lex.OpIn:
		return binary(op, membership("$in", false)), true
	case lex.OpLacks:
		return binary(op, membership("$nin", true)), true
	}
	return nil, false
}

func binary(op lex.Operator, fn func(l, r any) (any, error)) vm.OperatorFunc[any] {
	return func(args ...any) (any, error) {
		if err := vm.CheckArity(op.String(), len(args), 2, 2); err != nil {
			return nil, err
		}
		return fn(args[0], args[1])
	}
}

func combine(sym string) vm.OperatorFunc[any] {
	return func(args ...any) (any, error) {
		return bson.M{sym: bson.A(args)}, nil
	}
}

// compare uses the field form {f: {$op: v}} when a column meets a value,
// and an aggregation $expr for anything else.
func compare(sym string) func(l, r any) (any, error) {
	return func(l, r any) (any, error) {
		if f, ok := l.(gentypes.Field); ok && isValue(r) {
			return bson.M{f.Name: bson.M{sym: gentypes.Coerce(f, r)}}, nil
		}
		return bson.M{"$expr": bson.M{sym: bson.A{exprOperand(l), exprOperand(r)}}}, nil
	}
}

// regex patterns are case insensitive. The operand is matched literally
// except for % which matches anything and anchors the whole pattern.
func regex(op lex.Operator, shape func(string) string) func(l, r any) (any, error) {
	return func(l, r any) (any, error) {
		if !isValue(r) {
			return nil, gentypes.InvalidOperand(op.String(), "pattern must be a literal")
		}
		pattern := regexp.QuoteMeta(text(r))
		if strings.Contains(pattern, "%") {
			pattern = "^" + strings.ReplaceAll(pattern, "%", ".*") + "$"
		} else {
			pattern = shape(pattern)
		}
		if f, ok := l.(gentypes.Field); ok {
			return bson.M{f.Name: bson.D{{Key: "$regex", Value: pattern}, {Key: "$options", Value: "i"}}}, nil
		}
		return bson.M{"$expr": bson.M{"$regexMatch": bson.D{
			{Key: "input", Value: exprOperand(l)},
			{Key: "regex", Value: pattern},
			{Key: "options", Value: "i"},
		}}}, nil
	}
}

func elemMatch(op lex.Operator, negate bool) func(l, r any) (any, error) {
	return func(l, r any) (any, error) {
		f, ok := l.(gentypes.Field)
		if !ok {
			return nil, gentypes.InvalidOperand(op.String(), "left side must be a field")
		}
		if !isValue(r) {
			return nil, gentypes.InvalidOperand(op.String(), "right side must be a literal")
		}
		match := bson.M{"$elemMatch": bson.M{"$eq": r}}
		if negate {
			return bson.M{f.Name: bson.M{"$not": match}}, nil
		}
		return bson.M{f.Name: match}, nil
	}
}

// membership wraps scalar operands into a one item list.
func membership(sym string, negate bool) func(l, r any) (any, error) {
	return func(l, r any) (any, error) {
		if !isValue(r) {
			// an array valued column or expression on the right
			in := bson.M{"$in": bson.A{exprOperand(l), exprOperand(r)}}
			if negate {
				return bson.M{"$expr": bson.M{"$not": bson.A{in}}}, nil
			}
			return bson.M{"$expr": in}, nil
		}
		list, ok := r.(bson.A)
		if !ok {
			list = bson.A{r}
		}
		if f, ok := l.(gentypes.Field); ok {
			coerced := make(bson.A, len(list))
			for i, item := range list {
				coerced[i] = gentypes.Coerce(f, item)
			}
			return bson.M{f.Name: bson.M{sym: coerced}}, nil
		}
		items := make(bson.A, len(list))
		for i, item := range list {
			items[i] = exprOperand(item)
		}
		in := bson.M{"$in": bson.A{exprOperand(l), items}}
		if negate {
			return bson.M{"$expr": bson.M{"$not": bson.A{in}}}, nil
		}
		return bson.M{"$expr": in}, nil
	}
}

// isValue is false for columns and generated fragments.
func isValue(v any) bool {
	switch v.(type) {
	case gentypes.Field, bson.M, bson.D:
		return false
	}
	return true
}

// exprOperand renders a domain value inside an aggregation expression,
// where columns are "$path" and strings starting with $ need quoting.
func exprOperand(v any) any {
	switch val := v.(type) {
	case gentypes.Field:
		return "$" + val.Name
	case string:
		if strings.HasPrefix(val, "$") {
			return bson.M{"$literal": val}
		}
	}
	return v
}

func text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339)
	}
	return value.NewValue(v).ToString()
}
