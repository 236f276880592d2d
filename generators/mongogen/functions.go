package mongogen

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/lytics/odataql/lex"
	"github.com/lytics/odataql/vm"
)

var unaryFuncs = map[lex.Function]string{
	lex.FuncLength:  "$strLenCP",
	lex.FuncToLower: "$toLower",
	lex.FuncToUpper: "$toUpper",
	lex.FuncFloor:   "$floor",
	lex.FuncCeiling: "$ceil",
	lex.FuncYear:    "$year",
	lex.FuncMonth:   "$month",
	lex.FuncDay:     "$dayOfMonth",
	lex.FuncHour:    "$hour",
	lex.FuncMinute:  "$minute",
	lex.FuncSecond:  "$second",
}

// Function maps built-ins onto aggregation expression operators.
func (d *domain) Function(fn lex.Function) (vm.FunctionFunc[any], bool) {
	if sym, ok := unaryFuncs[fn]; ok {
		return arity(fn, 1, 1, func(args []any) any {
			return bson.M{sym: exprOperand(args[0])}
		}), true
	}
	switch fn {
	case lex.FuncTrim:
		return arity(fn, 1, 1, func(args []any) any {
			return bson.M{"$trim": bson.M{"input": exprOperand(args[0])}}
		}), true
	case lex.FuncRound:
		return arity(fn, 1, 1, func(args []any) any {
			return bson.M{"$round": bson.A{exprOperand(args[0])}}
		}), true
	case lex.FuncIndexOf:
		return arity(fn, 2, 2, func(args []any) any {
			return bson.M{"$indexOfCP": operands(args)}
		}), true
	case lex.FuncReplace:
		return arity(fn, 3, 3, func(args []any) any {
			return bson.M{"$replaceAll": bson.D{
				{Key: "input", Value: exprOperand(args[0])},
				{Key: "find", Value: exprOperand(args[1])},
				{Key: "replacement", Value: exprOperand(args[2])},
			}}
		}), true
	case lex.FuncSubstring:
		return arity(fn, 2, 3, func(args []any) any {
			ops := operands(args)
			if len(ops) == 2 {
				// $substrCP needs a count; the string length is always enough
				ops = append(ops, bson.M{"$strLenCP": ops[0]})
			}
			return bson.M{"$substrCP": ops}
		}), true
	}
	return nil, false
}

func arity(fn lex.Function, min, max int, build func(args []any) any) vm.FunctionFunc[any] {
	return func(args ...any) (any, error) {
		if err := vm.CheckArity(fn.String(), len(args), min, max); err != nil {
			return nil, err
		}
		return build(args), nil
	}
}

func operands(args []any) bson.A {
	out := make(bson.A, len(args))
	for i, a := range args {
		out[i] = exprOperand(a)
	}
	return out
}
