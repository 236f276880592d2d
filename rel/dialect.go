package rel

import (
	"io"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/lytics/odataql/value"
)

// Dialect selects the SQL flavor an expression is written in.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
	MySQL
)

func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	case SQLite:
		return "sqlite"
	case MySQL:
		return "mysql"
	}
	return "unknown"
}

// BindType is the sqlx placeholder style of the dialect.
func (d Dialect) BindType() int {
	if d == Postgres {
		return sqlx.DOLLAR
	}
	return sqlx.QUESTION
}

func (d Dialect) identQuote() byte {
	if d == MySQL {
		return '`'
	}
	return '"'
}

// Writer accumulates SQL text and its bound arguments. Every argument is
// written as a ? placeholder; ToSQL and Render rebind them for the
// dialect afterwards.
type Writer struct {
	Dialect Dialect
	buf     strings.Builder
	args    []any
}

func NewWriter(d Dialect) *Writer {
	return &Writer{Dialect: d}
}

func (w *Writer) Write(p []byte) (int, error) { return w.buf.Write(p) }
func (w *Writer) Len() int                    { return w.buf.Len() }
func (w *Writer) String() string              { return w.buf.String() }
func (w *Writer) Args() []any                 { return w.args }

// WriteIdentity writes a quoted identifier.
func (w *Writer) WriteIdentity(name string) {
	q := string(w.Dialect.identQuote())
	io.WriteString(w, q)
	io.WriteString(w, strings.ReplaceAll(name, q, q+q))
	io.WriteString(w, q)
}

// WriteLiteral writes a single quoted string constant. Only used for
// identifier-like text such as json path keys and date part names.
func (w *Writer) WriteLiteral(s string) {
	io.WriteString(w, "'")
	io.WriteString(w, strings.ReplaceAll(s, "'", "''"))
	io.WriteString(w, "'")
}

// WriteParam writes a placeholder bound to v.
func (w *Writer) WriteParam(v value.Value) {
	io.WriteString(w, "?")
	w.args = append(w.args, w.bindValue(v))
}

// WriteParams writes one placeholder bound to a slice, expanded by
// sqlx.In into one placeholder per item.
func (w *Writer) WriteParams(vals []value.Value) {
	io.WriteString(w, "?")
	items := make([]any, len(vals))
	for i, v := range vals {
		items[i] = w.bindValue(v)
	}
	w.args = append(w.args, items)
}

// bindValue converts a literal to a driver argument. SQLite stores dates
// as text, so dates bind in their text form there.
func (w *Writer) bindValue(v value.Value) any {
	if v == nil || v.Nil() {
		return nil
	}
	switch val := v.(type) {
	case value.DateValue:
		if w.Dialect == SQLite {
			return val.ToString()
		}
		return val.Time()
	case value.ClockValue:
		return val.ToString()
	}
	return v.Value()
}

// finish expands slice arguments and rebinds placeholders.
func (w *Writer) finish() (string, []any, error) {
	q, args, err := sqlx.In(w.String(), w.Args()...)
	if err != nil {
		return "", nil, err
	}
	return sqlx.Rebind(w.Dialect.BindType(), q), args, nil
}
