package rel

import (
	"io"
	"strconv"
	"strings"

	"github.com/lytics/odataql/value"
)

var (
	_ Expr = (*Column)(nil)
	_ Expr = (*JSONPath)(nil)
	_ Expr = (*Param)(nil)
	_ Expr = Null{}
	_ Expr = (*BinaryExpr)(nil)
	_ Expr = (*BoolExpr)(nil)
	_ Expr = (*NotExpr)(nil)
	_ Expr = (*IsNullExpr)(nil)
	_ Expr = (*FuncExpr)(nil)
	_ Expr = (*DatePartExpr)(nil)
	_ Expr = (*LikeExpr)(nil)
	_ Expr = (*InExpr)(nil)
	_ Expr = (*AnyExpr)(nil)
	_ Expr = (*ListExpr)(nil)
)

type (
	// Expr is a relational expression node.
	Expr interface {
		// WriteDialect writes this expression in the writer's dialect.
		WriteDialect(w *Writer)
	}

	// Column is a table column, qualified by Table when set.
	Column struct {
		Table string
		Name  string
		Def   *ColumnDef
	}
	// JSONPath indexes into a structured column. The terminal value is
	// extracted as a scalar.
	JSONPath struct {
		Column *Column
		Path   []string
	}
	// Param is a bound literal.
	Param struct {
		Value value.Value
	}
	// Null is the NULL constant.
	Null struct{}

	// BinaryExpr is an infix comparison or arithmetic operation.
	BinaryExpr struct {
		Op          string
		Left, Right Expr
	}
	// BoolExpr joins conditions with AND or OR.
	BoolExpr struct {
		Op   string
		Args []Expr
	}
	NotExpr struct {
		X Expr
	}
	IsNullExpr struct {
		X   Expr
		Not bool
	}
	// FuncExpr is a scalar function call. Name is the portable name; the
	// dialect may render it differently.
	FuncExpr struct {
		Name string
		Args []Expr
	}
	// DatePartExpr extracts one calendar part (year, month, ...) of X.
	DatePartExpr struct {
		Part string
		X    Expr
	}
	// LikeExpr is a case insensitive pattern match.
	LikeExpr struct {
		X       Expr
		Pattern Expr
	}
	// InExpr tests X against a list of values.
	InExpr struct {
		X    Expr
		List *ListExpr
		Not  bool
	}
	// AnyExpr is true when Array holds an element equal to Value.
	AnyExpr struct {
		Value Expr
		Array Expr
	}
	ListExpr struct {
		Items []Expr
	}
)

// String renders the expression as postgres with placeholders.
func String(e Expr) string {
	w := NewWriter(Postgres)
	e.WriteDialect(w)
	return w.String()
}

func (m *Column) WriteDialect(w *Writer) {
	if m.Table != "" {
		w.WriteIdentity(m.Table)
		io.WriteString(w, ".")
	}
	w.WriteIdentity(m.Name)
}

// Array is true for columns declared to hold a list.
func (m *Column) Array() bool { return m.Def != nil && m.Def.Array }

func (m *JSONPath) WriteDialect(w *Writer) {
	switch w.Dialect {
	case Postgres:
		io.WriteString(w, "(")
		m.writePostgres(w, true)
		io.WriteString(w, ")")
	case SQLite:
		io.WriteString(w, "json_extract(")
		m.Column.WriteDialect(w)
		io.WriteString(w, ", ")
		w.WriteLiteral(m.selector())
		io.WriteString(w, ")")
	case MySQL:
		io.WriteString(w, "JSON_UNQUOTE(JSON_EXTRACT(")
		m.Column.WriteDialect(w)
		io.WriteString(w, ", ")
		w.WriteLiteral(m.selector())
		io.WriteString(w, "))")
	}
}

// writePostgres chains -> operators, ending with ->> when text is set.
func (m *JSONPath) writePostgres(w *Writer, text bool) {
	m.Column.WriteDialect(w)
	for i, seg := range m.Path {
		if text && i == len(m.Path)-1 {
			io.WriteString(w, "->>")
		} else {
			io.WriteString(w, "->")
		}
		if _, err := strconv.Atoi(seg); err == nil {
			io.WriteString(w, seg)
		} else {
			w.WriteLiteral(seg)
		}
	}
}

// selector is the $.a[0].b path syntax of sqlite and mysql.
func (m *JSONPath) selector() string {
	var sb strings.Builder
	sb.WriteString("$")
	for _, seg := range m.Path {
		if _, err := strconv.Atoi(seg); err == nil {
			sb.WriteString("[" + seg + "]")
			continue
		}
		sb.WriteString("." + seg)
	}
	return sb.String()
}

func (m *Param) WriteDialect(w *Writer) { w.WriteParam(m.Value) }

func (m Null) WriteDialect(w *Writer) { io.WriteString(w, "NULL") }

func (m *BinaryExpr) WriteDialect(w *Writer) {
	writeOperand(w, m.Left)
	io.WriteString(w, " ")
	io.WriteString(w, m.Op)
	io.WriteString(w, " ")
	writeOperand(w, m.Right)
}

// writeOperand parenthesizes nested infix expressions.
func writeOperand(w *Writer, e Expr) {
	switch e.(type) {
	case *BinaryExpr, *BoolExpr:
		io.WriteString(w, "(")
		e.WriteDialect(w)
		io.WriteString(w, ")")
	default:
		e.WriteDialect(w)
	}
}

func (m *BoolExpr) WriteDialect(w *Writer) {
	for i, arg := range m.Args {
		if i > 0 {
			io.WriteString(w, " ")
			io.WriteString(w, m.Op)
			io.WriteString(w, " ")
		}
		if b, ok := arg.(*BoolExpr); ok && b.Op != m.Op {
			io.WriteString(w, "(")
			b.WriteDialect(w)
			io.WriteString(w, ")")
			continue
		}
		arg.WriteDialect(w)
	}
}

func (m *NotExpr) WriteDialect(w *Writer) {
	io.WriteString(w, "NOT (")
	m.X.WriteDialect(w)
	io.WriteString(w, ")")
}

func (m *IsNullExpr) WriteDialect(w *Writer) {
	writeOperand(w, m.X)
	if m.Not {
		io.WriteString(w, " IS NOT NULL")
		return
	}
	io.WriteString(w, " IS NULL")
}

func (m *FuncExpr) WriteDialect(w *Writer) {
	switch m.Name {
	case "length":
		if w.Dialect == MySQL {
			writeCall(w, "CHAR_LENGTH", m.Args...)
			return
		}
	case "indexOf":
		// zero based, -1 when absent
		io.WriteString(w, "(")
		switch w.Dialect {
		case Postgres:
			writeCall(w, "strpos", m.Args...)
		case SQLite:
			writeCall(w, "instr", m.Args...)
		case MySQL:
			writeCall(w, "LOCATE", m.Args[1], m.Args[0])
		}
		io.WriteString(w, " - 1)")
		return
	case "substring":
		name := "substr"
		if w.Dialect == MySQL {
			name = "SUBSTRING"
		}
		io.WriteString(w, name)
		io.WriteString(w, "(")
		m.Args[0].WriteDialect(w)
		io.WriteString(w, ", ")
		writeOperand(w, m.Args[1])
		io.WriteString(w, " + 1")
		if len(m.Args) > 2 {
			io.WriteString(w, ", ")
			m.Args[2].WriteDialect(w)
		}
		io.WriteString(w, ")")
		return
	case "ceiling":
		if w.Dialect == SQLite {
			writeCall(w, "ceil", m.Args...)
			return
		}
	}
	writeCall(w, m.Name, m.Args...)
}

func writeCall(w *Writer, name string, args ...Expr) {
	io.WriteString(w, name)
	io.WriteString(w, "(")
	for i, arg := range args {
		if i > 0 {
			io.WriteString(w, ", ")
		}
		arg.WriteDialect(w)
	}
	io.WriteString(w, ")")
}

var sqliteDateParts = map[string]string{
	"year":   "%Y",
	"month":  "%m",
	"day":    "%d",
	"hour":   "%H",
	"minute": "%M",
	"second": "%S",
}

func (m *DatePartExpr) WriteDialect(w *Writer) {
	switch w.Dialect {
	case Postgres:
		io.WriteString(w, "date_part(")
		w.WriteLiteral(m.Part)
		io.WriteString(w, ", ")
		m.X.WriteDialect(w)
		io.WriteString(w, ")")
	case SQLite:
		io.WriteString(w, "CAST(strftime(")
		w.WriteLiteral(sqliteDateParts[m.Part])
		io.WriteString(w, ", ")
		m.X.WriteDialect(w)
		io.WriteString(w, ") AS INTEGER)")
	case MySQL:
		io.WriteString(w, "EXTRACT(")
		io.WriteString(w, strings.ToUpper(m.Part))
		io.WriteString(w, " FROM ")
		m.X.WriteDialect(w)
		io.WriteString(w, ")")
	}
}

func (m *LikeExpr) WriteDialect(w *Writer) {
	switch w.Dialect {
	case Postgres:
		m.X.WriteDialect(w)
		io.WriteString(w, " ILIKE ")
		m.Pattern.WriteDialect(w)
	case SQLite:
		// sqlite LIKE ignores ascii case already
		m.X.WriteDialect(w)
		io.WriteString(w, " LIKE ")
		m.Pattern.WriteDialect(w)
	case MySQL:
		writeCall(w, "LOWER", m.X)
		io.WriteString(w, " LIKE ")
		writeCall(w, "LOWER", m.Pattern)
	}
}

// An empty list renders as a constant condition.
func (m *InExpr) WriteDialect(w *Writer) {
	if len(m.List.Items) == 0 {
		if m.Not {
			io.WriteString(w, "1 = 1")
		} else {
			io.WriteString(w, "1 = 0")
		}
		return
	}
	writeOperand(w, m.X)
	if m.Not {
		io.WriteString(w, " NOT IN ")
	} else {
		io.WriteString(w, " IN ")
	}
	m.List.WriteDialect(w)
}

func (m *AnyExpr) WriteDialect(w *Writer) {
	switch w.Dialect {
	case Postgres:
		if jp, ok := m.Array.(*JSONPath); ok {
			io.WriteString(w, "EXISTS (SELECT 1 FROM jsonb_array_elements_text(")
			jp.writePostgres(w, false)
			io.WriteString(w, ") AS e WHERE e = ")
			m.Value.WriteDialect(w)
			io.WriteString(w, ")")
			return
		}
		writeOperand(w, m.Value)
		io.WriteString(w, " = ANY(")
		m.Array.WriteDialect(w)
		io.WriteString(w, ")")
	case SQLite:
		io.WriteString(w, "EXISTS (SELECT 1 FROM json_each(")
		if jp, ok := m.Array.(*JSONPath); ok {
			jp.Column.WriteDialect(w)
			io.WriteString(w, ", ")
			w.WriteLiteral(jp.selector())
		} else {
			m.Array.WriteDialect(w)
		}
		io.WriteString(w, ") WHERE json_each.value = ")
		m.Value.WriteDialect(w)
		io.WriteString(w, ")")
	case MySQL:
		writeOperand(w, m.Value)
		io.WriteString(w, " MEMBER OF(")
		if jp, ok := m.Array.(*JSONPath); ok {
			io.WriteString(w, "JSON_EXTRACT(")
			jp.Column.WriteDialect(w)
			io.WriteString(w, ", ")
			w.WriteLiteral(jp.selector())
			io.WriteString(w, ")")
		} else {
			m.Array.WriteDialect(w)
		}
		io.WriteString(w, ")")
	}
}

// ListExpr binds a list of plain literals as one expandable argument.
func (m *ListExpr) WriteDialect(w *Writer) {
	io.WriteString(w, "(")
	if vals, ok := m.params(); ok {
		w.WriteParams(vals)
	} else {
		for i, item := range m.Items {
			if i > 0 {
				io.WriteString(w, ", ")
			}
			item.WriteDialect(w)
		}
	}
	io.WriteString(w, ")")
}

func (m *ListExpr) params() ([]value.Value, bool) {
	if len(m.Items) == 0 {
		return nil, false
	}
	vals := make([]value.Value, len(m.Items))
	for i, item := range m.Items {
		p, ok := item.(*Param)
		if !ok {
			return nil, false
		}
		vals[i] = p.Value
	}
	return vals, true
}
