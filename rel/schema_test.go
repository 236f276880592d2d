package rel

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTables(t *testing.T) {
	f, err := os.Open("testdata/tables.yaml")
	require.NoError(t, err)
	defer f.Close()

	tables, err := LoadTables(f)
	require.NoError(t, err)
	require.Len(t, tables, 2)

	actions := tables[0]
	assert.Equal(t, "actions", actions.Name)
	data, ok := actions.Column("data")
	require.True(t, ok)
	assert.True(t, data.JSON)

	tags, ok := actions.Column("tags")
	require.True(t, ok)
	assert.True(t, tags.Array)
	assert.Equal(t, "text[]", tags.Type)

	_, ok = actions.Column("nope")
	assert.False(t, ok)

	d := NewDomain(actions, WithJSONPaths())
	q, args, err := d.Where("data.owner eq 'Alice' AND tags has 'core'")
	require.NoError(t, err)
	assert.Equal(t, `("actions"."data"->>'owner') = $1 AND $2 = ANY("actions"."tags")`, q)
	assert.Equal(t, []any{"Alice", "core"}, args)
}

func TestLoadTablesErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "tables:\n  - name: a\n    colums: []\n"},
		{"missing table name", "tables:\n  - columns: [{name: a}]\n"},
		{"missing column name", "tables:\n  - name: a\n    columns: [{type: text}]\n"},
		{"duplicate column", "tables:\n  - name: a\n    columns: [{name: x}, {name: x}]\n"},
		{"duplicate table", "tables:\n  - name: a\n  - name: a\n"},
		{"not yaml", "tables: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTables(strings.NewReader(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestTableLiteral(t *testing.T) {
	// tables built without NewTable still resolve
	tbl := &Table{Name: "t", Columns: []ColumnDef{{Name: "a", Type: "int"}}}
	c, ok := tbl.Column("a")
	require.True(t, ok)
	assert.Equal(t, "int", c.Type)
	_, ok = tbl.Column("b")
	assert.False(t, ok)
}
