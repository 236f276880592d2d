package rel

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	u "github.com/araddon/gou"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lytics/odataql/expr"
	"github.com/lytics/odataql/vm"
)

func TestMain(m *testing.M) {
	u.SetupLogging("warn")
	os.Exit(m.Run())
}

func actionsTable() *Table {
	return NewTable("actions",
		ColumnDef{Name: "action_id", Type: "text"},
		ColumnDef{Name: "name", Type: "text"},
		ColumnDef{Name: "slug", Type: "text"},
		ColumnDef{Name: "type", Type: "text"},
		ColumnDef{Name: "priority", Type: "integer"},
		ColumnDef{Name: "score", Type: "float"},
		ColumnDef{Name: "tags", Type: "text[]", Array: true},
		ColumnDef{Name: "created_at", Type: "timestamptz"},
		ColumnDef{Name: "data", Type: "jsonb", JSON: true},
	)
}

var goldenFilters = []string{
	"name eq 'John'",
	"priority gt 20 AND priority lt 50",
	"name eq null OR slug ne null",
	"type ne 'INTERNAL'",
	"name like 'alp'",
	"name startswith 'Pro' AND slug endswith '-1'",
	"type contains 'INTERNAL, EXTERNAL'",
	"type lacks 'INTERNAL'",
	"priority in [1, 2, 3]",
	"priority in []",
	"tags has 'urgent'",
	"tags hasNot 'urgent'",
	"length(name) gt 5",
	"indexOf(name, 'a') eq 0",
	"substring(name, 1, 3) eq 'roj'",
	"toLower(name) eq 'john'",
	"replace(slug, '-', '_') eq 'project_alpha'",
	"round(score) ge 95",
	"year(created_at) eq 2023",
	"created_at ge 2023-01-01",
	"priority add 1",
	"score mod 2",
	"name eq 'x' OR priority eq 1 AND score gt 50",
	"data.profile.name eq 'John'",
	"data.age gt 25",
	"data.items.0.sku eq 'A1'",
	"data.tags has 'x'",
}

func TestGoldenSQL(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, dialect := range []Dialect{Postgres, SQLite, MySQL} {
		t.Run(dialect.String(), func(t *testing.T) {
			d := NewDomain(actionsTable(), WithJSONPaths(), WithDialect(dialect))
			var buf bytes.Buffer
			for _, filter := range goldenFilters {
				q, args, err := d.Where(filter)
				require.NoError(t, err, filter)
				fmt.Fprintf(&buf, "-- %s\n%s\n%v\n\n", filter, q, args)
			}
			g.Assert(t, dialect.String(), buf.Bytes())
		})
	}
}

func TestAddFilter(t *testing.T) {
	d := NewDomain(actionsTable())
	base := NewSelect("actions", "action_id", "name")
	base.OrderBy = []string{"-priority", "name"}
	base.Limit = 10

	q, err := d.AddFilter("priority gt 30", base)
	require.NoError(t, err)
	assert.Nil(t, base.Where)

	sql, args, err := q.ToSQL(Postgres)
	require.NoError(t, err)
	assert.Equal(t, `SELECT "action_id", "name" FROM "actions" WHERE "actions"."priority" > $1 ORDER BY "priority" DESC, "name" LIMIT 10`, sql)
	assert.Equal(t, []any{int64(30)}, args)

	q, err = d.AddFilter("name eq 'a' OR name eq 'b'", q)
	require.NoError(t, err)
	sql, args, err = q.ToSQL(SQLite)
	require.NoError(t, err)
	assert.Equal(t, `SELECT "action_id", "name" FROM "actions" WHERE "actions"."priority" > ? AND ("actions"."name" = ? OR "actions"."name" = ?) ORDER BY "priority" DESC, "name" LIMIT 10`, sql)
	assert.Equal(t, []any{int64(30), "a", "b"}, args)

	q, err = d.AddFilter("type in ['x', 'y']", q)
	require.NoError(t, err)
	sql, args, err = q.ToSQL(MySQL)
	require.NoError(t, err)
	assert.Equal(t, "SELECT `action_id`, `name` FROM `actions` WHERE `actions`.`priority` > ? AND (`actions`.`name` = ? OR `actions`.`name` = ?) AND `actions`.`type` IN (?, ?) ORDER BY `priority` DESC, `name` LIMIT 10", sql)
	assert.Equal(t, []any{int64(30), "a", "b", "x", "y"}, args)
}

func TestAddFilterNilSelect(t *testing.T) {
	q, err := NewDomain(actionsTable()).AddFilter("priority eq 1", nil)
	require.NoError(t, err)
	sql, args, err := q.ToSQL(SQLite)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "actions" WHERE "actions"."priority" = ?`, sql)
	assert.Equal(t, []any{int64(1)}, args)
}

func TestSharedTable(t *testing.T) {
	tbl := &Table{Name: "actions", Columns: []ColumnDef{{Name: "name", Type: "text"}}}
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := NewDomain(tbl).Compile("name eq 'x'")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Nil(t, tbl.cols)
}

func TestCompileNodes(t *testing.T) {
	d := NewDomain(actionsTable())

	e, err := d.Compile("name eq 'John'")
	require.NoError(t, err)
	be, ok := e.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "=", be.Op)
	assert.Equal(t, &Column{Table: "actions", Name: "name", Def: &ColumnDef{Name: "name", Type: "text"}}, be.Left)

	e, err = d.Compile("name eq null")
	require.NoError(t, err)
	assert.IsType(t, &IsNullExpr{}, e)

	e, err = d.Compile("null ne name")
	require.NoError(t, err)
	assert.Equal(t, `"actions"."name" IS NOT NULL`, String(e))
}

func TestNilTable(t *testing.T) {
	d := NewDomain(nil)
	e, err := d.Compile("anything eq 1")
	require.NoError(t, err)
	assert.Equal(t, `"anything" = ?`, String(e))
}

func TestCompileErrors(t *testing.T) {
	d := NewDomain(actionsTable())

	_, err := d.Compile("missing eq 1")
	var uc *UnknownColumnError
	require.True(t, errors.As(err, &uc))
	assert.Equal(t, "missing", uc.Column)
	assert.Equal(t, "actions", uc.Table)

	// json paths are opt in
	_, err = d.Compile("data.age gt 1")
	assert.True(t, errors.As(err, &uc))

	// only json columns take paths
	_, err = NewDomain(actionsTable(), WithJSONPaths()).Compile("name.first eq 'x'")
	assert.True(t, errors.As(err, &uc))

	_, err = d.Compile("name like slug")
	assert.True(t, errors.Is(err, ErrInvalidOperand))

	_, err = d.Compile("toLower(name) has 'x'")
	assert.True(t, errors.Is(err, ErrInvalidOperand))

	// membership needs an array or json column
	_, err = d.Compile("name has 'x'")
	assert.True(t, errors.Is(err, ErrInvalidOperand))
	_, err = d.Compile("'x' in name")
	assert.True(t, errors.Is(err, ErrInvalidOperand))
	_, err = d.Compile("'x' in tags")
	assert.NoError(t, err)

	_, err = d.Compile("substring(name) eq 'x'")
	var ae *vm.ArityError
	assert.True(t, errors.As(err, &ae))

	_, err = d.Compile("concat(name) eq 'x'")
	var fe *vm.UnknownFunctionError
	assert.True(t, errors.As(err, &fe))

	_, err = d.Compile("name eq")
	var se *expr.SyntaxError
	assert.True(t, errors.As(err, &se))
}
