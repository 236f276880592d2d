package blevegen

import (
	"time"

	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/lytics/odataql/generators/gentypes"
	"github.com/lytics/odataql/lex"
)

var (
	inclusive = true
	exclusive = false
)

// scalarQuery is an exact match of one literal against a field.
func scalarQuery(f gentypes.Field, val any) (query.Query, error) {
	switch v := gentypes.Coerce(f, val).(type) {
	case nil:
		return NotFilter(Exists(f.Name)), nil
	case string:
		return Phrase(f.Name, v), nil
	case int64:
		return numericBetween(f.Name, float64(v), float64(v)), nil
	case float64:
		return numericBetween(f.Name, v, v), nil
	case bool:
		q := query.NewBoolFieldQuery(v)
		q.SetField(f.Name)
		return q, nil
	case time.Time:
		q := query.NewDateRangeInclusiveQuery(v, v, &inclusive, &inclusive)
		q.SetField(f.Name)
		return q, nil
	}
	return nil, gentypes.InvalidOperand("eq", "unsupported literal %T", val)
}

func numericBetween(fieldName string, lower, upper float64) query.Query {
	q := query.NewNumericRangeInclusiveQuery(&lower, &upper, &inclusive, &inclusive)
	q.SetField(fieldName)
	return q
}

// makeRange builds an open ended range for gt, ge, lt and le. Numbers
// and times get typed ranges, strings a term range.
func makeRange(f gentypes.Field, op lex.Operator, rhs any) (query.Query, error) {
	lower := op == lex.OpGt || op == lex.OpGe
	incl := &exclusive
	if op == lex.OpGe || op == lex.OpLe {
		incl = &inclusive
	}

	switch v := gentypes.Coerce(f, rhs).(type) {
	case int64, float64:
		n := float64Of(v)
		q := query.NewNumericRangeQuery(nil, nil)
		if lower {
			q.Min, q.InclusiveMin = &n, incl
		} else {
			q.Max, q.InclusiveMax = &n, incl
		}
		q.SetField(f.Name)
		return q, nil
	case time.Time:
		var q *query.DateRangeQuery
		if lower {
			q = query.NewDateRangeInclusiveQuery(v, time.Time{}, incl, nil)
		} else {
			q = query.NewDateRangeInclusiveQuery(time.Time{}, v, nil, incl)
		}
		q.SetField(f.Name)
		return q, nil
	case string:
		var q *query.TermRangeQuery
		if lower {
			q = query.NewTermRangeInclusiveQuery(v, "", incl, nil)
		} else {
			q = query.NewTermRangeInclusiveQuery("", v, nil, incl)
		}
		q.SetField(f.Name)
		return q, nil
	}
	return nil, gentypes.InvalidOperand(op.String(), "cannot range over %T", rhs)
}

func float64Of(v any) float64 {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case float64:
		return n
	}
	return 0
}
