package rel

import (
	"strings"

	u "github.com/araddon/gou"

	"github.com/lytics/odataql/lex"
	"github.com/lytics/odataql/value"
	"github.com/lytics/odataql/vm"
)

var (
	_ vm.Domain[Expr]      = (*Domain)(nil)
	_ vm.ConverterProvider = (*Domain)(nil)
)

var comparisons = map[lex.Operator]string{
	lex.OpEq: "=",
	lex.OpNe: "<>",
	lex.OpGt: ">",
	lex.OpLt: "<",
	lex.OpGe: ">=",
	lex.OpLe: "<=",
}

var arithmetic = map[lex.Operator]string{
	lex.OpAdd: "+",
	lex.OpSub: "-",
	lex.OpMul: "*",
	lex.OpDiv: "/",
	lex.OpMod: "%",
}

var scalarFuncs = map[lex.Function]string{
	lex.FuncLength:  "length",
	lex.FuncToLower: "lower",
	lex.FuncToUpper: "upper",
	lex.FuncTrim:    "trim",
	lex.FuncRound:   "round",
	lex.FuncFloor:   "floor",
	lex.FuncCeiling: "ceiling",
}

var dateParts = map[lex.Function]string{
	lex.FuncYear:   "year",
	lex.FuncMonth:  "month",
	lex.FuncDay:    "day",
	lex.FuncHour:   "hour",
	lex.FuncMinute: "minute",
	lex.FuncSecond: "second",
}

// Domain compiles filters into relational expressions over one table.
// Null semantics are left to the database.
type Domain struct {
	table     *Table
	jsonPaths bool
	dialect   Dialect
	interp    *vm.Interpreter[Expr]
}

// Option configures a Domain.
type Option func(*Domain)

// WithJSONPaths lets dotted columns index into json columns, so
// data.profile.name reads the name key of the profile object in data.
func WithJSONPaths() Option {
	return func(d *Domain) { d.jsonPaths = true }
}

// WithDialect sets the dialect Where renders in. Postgres by default.
func WithDialect(dialect Dialect) Option {
	return func(d *Domain) { d.dialect = dialect }
}

// NewDomain binds a domain to table. A nil table accepts any column
// name unqualified.
func NewDomain(table *Table, opts ...Option) *Domain {
	d := &Domain{table: table}
	for _, opt := range opts {
		opt(d)
	}
	if table != nil {
		t := *table
		t.index()
		d.table = &t
	}
	d.interp = vm.NewInterpreter[Expr](d)
	return d
}

// Compile returns the expression for a filter.
func (d *Domain) Compile(filter string) (Expr, error) {
	return d.interp.Compile(filter)
}

// AddFilter returns a copy of q with the filter ANDed onto its WHERE.
// A nil q starts from an empty select over the domain's table.
func (d *Domain) AddFilter(filter string, q *Select) (*Select, error) {
	e, err := d.Compile(filter)
	if err != nil {
		return nil, err
	}
	if q == nil {
		q = &Select{}
		if d.table != nil {
			q.Table = d.table.Name
		}
	}
	out := *q
	out.Filter(e)
	return &out, nil
}

// Where renders a filter as a WHERE clause body and its arguments.
func (d *Domain) Where(filter string) (string, []any, error) {
	e, err := d.Compile(filter)
	if err != nil {
		return "", nil, err
	}
	return Render(e, d.dialect)
}

func (d *Domain) Converters() []value.Converter { return value.SignedNumberConverters() }

func (d *Domain) ResolveColumn(path string) (Expr, error) {
	if d.table == nil {
		return &Column{Name: path}, nil
	}
	if def, ok := d.table.Column(path); ok {
		return &Column{Table: d.table.Name, Name: path, Def: def}, nil
	}
	if d.jsonPaths {
		if head, rest, ok := strings.Cut(path, "."); ok {
			if def, ok := d.table.Column(head); ok && def.JSON {
				return &JSONPath{
					Column: &Column{Table: d.table.Name, Name: head, Def: def},
					Path:   strings.Split(rest, "."),
				}, nil
			}
		}
	}
	u.Debugf("column %q not in table %q", path, d.table.Name)
	return nil, &UnknownColumnError{Table: d.table.Name, Column: path}
}

func (d *Domain) Literal(v value.Value) Expr {
	if v == nil || v.Nil() {
		return Null{}
	}
	return &Param{Value: v}
}

func (d *Domain) Collection(items []Expr) (Expr, error) {
	return &ListExpr{Items: items}, nil
}

func (d *Domain) Operator(op lex.Operator) (vm.OperatorFunc[Expr], bool) {
	if sym, ok := comparisons[op]; ok {
		return binary(op, compare(op, sym)), true
	}
	if sym, ok := arithmetic[op]; ok {
		return binary(op, func(l, r Expr) (Expr, error) {
			return &BinaryExpr{Op: sym, Left: l, Right: r}, nil
		}), true
	}
	switch op {
	case lex.OpAnd:
		return combine("AND"), true
	case lex.OpOr:
		return combine("OR"), true
	case lex.OpLike:
		return binary(op, like(op, "%", "%")), true
	case lex.OpStartsWith:
		return binary(op, like(op, "", "%")), true
	case lex.OpEndsWith:
		return binary(op, like(op, "%", "")), true
	case lex.OpContains, lex.OpIn:
		return binary(op, membership(op, false)), true
	case lex.OpLacks:
		return binary(op, membership(op, true)), true
	case lex.OpHas:
		return binary(op, element(op, false)), true
	case lex.OpHasNot:
		return binary(op, element(op, true)), true
	}
	return nil, false
}

func (d *Domain) Function(fn lex.Function) (vm.FunctionFunc[Expr], bool) {
	if name, ok := scalarFuncs[fn]; ok {
		return call(fn, 1, 1, func(args []Expr) Expr {
			return &FuncExpr{Name: name, Args: args}
		}), true
	}
	if part, ok := dateParts[fn]; ok {
		return call(fn, 1, 1, func(args []Expr) Expr {
			return &DatePartExpr{Part: part, X: args[0]}
		}), true
	}
	switch fn {
	case lex.FuncIndexOf:
		return call(fn, 2, 2, func(args []Expr) Expr {
			return &FuncExpr{Name: "indexOf", Args: args}
		}), true
	case lex.FuncReplace:
		return call(fn, 3, 3, func(args []Expr) Expr {
			return &FuncExpr{Name: "replace", Args: args}
		}), true
	case lex.FuncSubstring:
		return call(fn, 2, 3, func(args []Expr) Expr {
			return &FuncExpr{Name: "substring", Args: args}
		}), true
	}
	return nil, false
}

func call(fn lex.Function, min, max int, build func([]Expr) Expr) vm.FunctionFunc[Expr] {
	return func(args ...Expr) (Expr, error) {
		if err := vm.CheckArity(fn.String(), len(args), min, max); err != nil {
			return nil, err
		}
		return build(args), nil
	}
}

func binary(op lex.Operator, fn func(l, r Expr) (Expr, error)) vm.OperatorFunc[Expr] {
	return func(args ...Expr) (Expr, error) {
		if err := vm.CheckArity(op.String(), len(args), 2, 2); err != nil {
			return nil, err
		}
		return fn(args[0], args[1])
	}
}

func combine(sym string) vm.OperatorFunc[Expr] {
	return func(args ...Expr) (Expr, error) {
		return &BoolExpr{Op: sym, Args: args}, nil
	}
}

// compare turns equality with null into IS [NOT] NULL.
func compare(op lex.Operator, sym string) func(l, r Expr) (Expr, error) {
	return func(l, r Expr) (Expr, error) {
		if op == lex.OpEq || op == lex.OpNe {
			switch {
			case isNull(r):
				return &IsNullExpr{X: l, Not: op == lex.OpNe}, nil
			case isNull(l):
				return &IsNullExpr{X: r, Not: op == lex.OpNe}, nil
			}
		}
		return &BinaryExpr{Op: sym, Left: l, Right: r}, nil
	}
}

// like wraps the literal operand in % wildcards. Wildcards already in
// the operand are kept.
func like(op lex.Operator, prefix, suffix string) func(l, r Expr) (Expr, error) {
	return func(l, r Expr) (Expr, error) {
		p, ok := r.(*Param)
		if !ok {
			return nil, invalidOperand(op.String(), "pattern must be a literal")
		}
		pattern := prefix + p.Value.ToString() + suffix
		return &LikeExpr{X: l, Pattern: &Param{Value: value.NewStringValue(pattern)}}, nil
	}
}

// membership builds IN / NOT IN. A string operand is a comma separated
// list; a column operand is an array the left side must be an element of.
func membership(op lex.Operator, not bool) func(l, r Expr) (Expr, error) {
	return func(l, r Expr) (Expr, error) {
		switch rv := r.(type) {
		case *ListExpr:
			return &InExpr{X: l, List: rv, Not: not}, nil
		case *Param:
			return &InExpr{X: l, List: splitList(rv), Not: not}, nil
		case Null:
			return &IsNullExpr{X: l, Not: not}, nil
		case *Column, *JSONPath:
			if !holdsArray(rv) {
				return nil, invalidOperand(op.String(), "column is not an array")
			}
			var e Expr = &AnyExpr{Value: l, Array: arrayOf(rv)}
			if not {
				e = &NotExpr{X: e}
			}
			return e, nil
		}
		return nil, invalidOperand(op.String(), "right side must be a list or column")
	}
}

func splitList(p *Param) *ListExpr {
	s, ok := p.Value.(value.StringValue)
	if !ok {
		return &ListExpr{Items: []Expr{p}}
	}
	parts := strings.Split(strings.ReplaceAll(s.Val(), " ", ""), ",")
	items := make([]Expr, len(parts))
	for i, part := range parts {
		items[i] = &Param{Value: value.NewStringValue(part)}
	}
	return &ListExpr{Items: items}
}

// element builds array membership for has and hasNot.
func element(op lex.Operator, not bool) func(l, r Expr) (Expr, error) {
	return func(l, r Expr) (Expr, error) {
		switch l.(type) {
		case *Column, *JSONPath:
		default:
			return nil, invalidOperand(op.String(), "left side must be a column")
		}
		if !holdsArray(l) {
			return nil, invalidOperand(op.String(), "column is not an array")
		}
		if _, ok := r.(*ListExpr); ok {
			return nil, invalidOperand(op.String(), "right side must be a single value")
		}
		var e Expr = &AnyExpr{Value: r, Array: arrayOf(l)}
		if not {
			e = &NotExpr{X: e}
		}
		return e, nil
	}
}

// holdsArray is false only for declared columns that are neither arrays
// nor json. Undeclared columns and json paths are trusted.
func holdsArray(e Expr) bool {
	c, ok := e.(*Column)
	if !ok || c.Def == nil {
		return true
	}
	return c.Array() || c.Def.JSON
}

// arrayOf treats a whole json column as a json array.
func arrayOf(e Expr) Expr {
	if c, ok := e.(*Column); ok && c.Def != nil && c.Def.JSON {
		return &JSONPath{Column: c}
	}
	return e
}

func isNull(e Expr) bool {
	_, ok := e.(Null)
	return ok
}
