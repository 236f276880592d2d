// Package rel compiles filters into relational expressions and renders
// them as SQL for postgres, sqlite and mysql.
package rel

import (
	"fmt"
	"io"
	"strings"
)

// Select is a single table SELECT a filter can be added to.
type Select struct {
	Table   string
	Columns []string // empty selects *
	Where   Expr
	OrderBy []string // column names, "-name" for descending
	Limit   int
	Offset  int
}

func NewSelect(table string, cols ...string) *Select {
	return &Select{Table: table, Columns: cols}
}

// Filter ANDs e onto the WHERE clause.
func (m *Select) Filter(e Expr) {
	if m.Where == nil {
		m.Where = e
		return
	}
	args := []Expr{m.Where}
	if b, ok := m.Where.(*BoolExpr); ok && b.Op == "AND" {
		args = append([]Expr(nil), b.Args...)
	}
	m.Where = &BoolExpr{Op: "AND", Args: append(args, e)}
}

func (m *Select) String() string {
	w := NewWriter(Postgres)
	m.WriteDialect(w)
	return w.String()
}

func (m *Select) WriteDialect(w *Writer) {
	io.WriteString(w, "SELECT ")
	if len(m.Columns) == 0 {
		io.WriteString(w, "*")
	}
	for i, col := range m.Columns {
		if i > 0 {
			io.WriteString(w, ", ")
		}
		w.WriteIdentity(col)
	}
	io.WriteString(w, " FROM ")
	w.WriteIdentity(m.Table)
	if m.Where != nil {
		io.WriteString(w, " WHERE ")
		m.Where.WriteDialect(w)
	}
	if len(m.OrderBy) > 0 {
		io.WriteString(w, " ORDER BY ")
		for i, col := range m.OrderBy {
			if i > 0 {
				io.WriteString(w, ", ")
			}
			if name, ok := strings.CutPrefix(col, "-"); ok {
				w.WriteIdentity(name)
				io.WriteString(w, " DESC")
				continue
			}
			w.WriteIdentity(col)
		}
	}
	if m.Limit > 0 {
		io.WriteString(w, fmt.Sprintf(" LIMIT %d", m.Limit))
	}
	if m.Offset > 0 {
		io.WriteString(w, fmt.Sprintf(" OFFSET %d", m.Offset))
	}
}

// ToSQL renders the statement with placeholders native to d.
func (m *Select) ToSQL(d Dialect) (string, []any, error) {
	w := NewWriter(d)
	m.WriteDialect(w)
	return w.finish()
}

// Render writes a single expression with placeholders native to d.
func Render(e Expr, d Dialect) (string, []any, error) {
	w := NewWriter(d)
	e.WriteDialect(w)
	return w.finish()
}
