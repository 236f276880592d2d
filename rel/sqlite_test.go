package rel

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const actionsDDL = `CREATE TABLE actions (
	action_id  TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	slug       TEXT NOT NULL,
	type       TEXT NOT NULL,
	status     TEXT NOT NULL,
	priority   INTEGER NOT NULL,
	score      REAL NOT NULL,
	tags       TEXT NOT NULL,
	created_at TEXT NOT NULL,
	data       TEXT
)`

type actionRow struct {
	ID        string  `db:"action_id"`
	Name      string  `db:"name"`
	Slug      string  `db:"slug"`
	Type      string  `db:"type"`
	Status    string  `db:"status"`
	Priority  int     `db:"priority"`
	Score     float64 `db:"score"`
	Tags      string  `db:"tags"`
	CreatedAt string  `db:"created_at"`
	Data      *string `db:"data"`
}

func strp(s string) *string { return &s }

var actionRows = []actionRow{
	{"uuid-1", "Project Alpha", "project-alpha", "INTERNAL", "active", 1, 95.5, `["urgent","core"]`, "2023-01-15",
		strp(`{"version":"1.2.0","owner":"Alice","settings":{"notifications":true,"retention_days":30}}`)},
	{"uuid-2", "Beta Integration", "beta-integration", "EXTERNAL", "pending", 2, 82.0, `["integration","beta"]`, "2023-05-20",
		strp(`{"version":"0.9.5","owner":"Bob","settings":{"notifications":false,"retention_days":7}}`)},
	{"uuid-3", "Gamma Service", "gamma-service", "INTERNAL", "archived", 3, 45.0, `["legacy"]`, "2022-11-01", nil},
	{"uuid-4", "Delta API", "delta-api", "EXTERNAL", "active", 1, 99.9, `["api","public"]`, "2023-08-10",
		strp(`{"version":"2.0.1","owner":"Alice","settings":{"notifications":true,"retention_days":365}}`)},
}

func sqliteActionsTable() *Table {
	return NewTable("actions",
		ColumnDef{Name: "action_id", Type: "text"},
		ColumnDef{Name: "name", Type: "text"},
		ColumnDef{Name: "slug", Type: "text"},
		ColumnDef{Name: "type", Type: "text"},
		ColumnDef{Name: "status", Type: "text"},
		ColumnDef{Name: "priority", Type: "integer"},
		ColumnDef{Name: "score", Type: "real"},
		ColumnDef{Name: "tags", Type: "json", JSON: true, Array: true},
		ColumnDef{Name: "created_at", Type: "date"},
		ColumnDef{Name: "data", Type: "json", JSON: true},
	)
}

func openActions(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Open(SQLite, ":memory:")
	require.NoError(t, err)
	// each connection to :memory: is its own database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	db.MustExec(actionsDDL)
	for _, row := range actionRows {
		_, err := db.NamedExec(`INSERT INTO actions VALUES
			(:action_id, :name, :slug, :type, :status, :priority, :score, :tags, :created_at, :data)`, row)
		require.NoError(t, err)
	}
	return db
}

func TestSQLiteFilters(t *testing.T) {
	db := openActions(t)
	d := NewDomain(sqliteActionsTable(), WithJSONPaths())

	tests := []struct {
		filter string
		want   []string
	}{
		{"type eq 'INTERNAL'", []string{"uuid-1", "uuid-3"}},
		{"priority gt 1 AND priority lt 3", []string{"uuid-2"}},
		{"name like 'ALPHA'", []string{"uuid-1"}},
		{"name startswith 'gamma'", []string{"uuid-3"}},
		{"name endswith 'api'", []string{"uuid-4"}},
		{"type contains 'INTERNAL, EXTERNAL'", []string{"uuid-1", "uuid-2", "uuid-3", "uuid-4"}},
		{"status lacks 'active'", []string{"uuid-2", "uuid-3"}},
		{"priority in [2, 3]", []string{"uuid-2", "uuid-3"}},
		{"priority in []", []string{}},
		{"priority lacks []", []string{"uuid-1", "uuid-2", "uuid-3", "uuid-4"}},
		{"tags has 'urgent'", []string{"uuid-1"}},
		{"tags hasNot 'urgent'", []string{"uuid-2", "uuid-3", "uuid-4"}},
		{"length(name) gt 12", []string{"uuid-1", "uuid-2", "uuid-3"}},
		{"indexOf(name, 'a') eq 1", []string{"uuid-3"}},
		{"substring(name, 0, 4) eq 'Beta'", []string{"uuid-2"}},
		{"toUpper(status) eq 'ACTIVE'", []string{"uuid-1", "uuid-4"}},
		{"year(created_at) eq 2023", []string{"uuid-1", "uuid-2", "uuid-4"}},
		{"month(created_at) ge 5", []string{"uuid-2", "uuid-3", "uuid-4"}},
		{"created_at ge 2023-05-01", []string{"uuid-2", "uuid-4"}},
		{"score ge 95", []string{"uuid-1", "uuid-4"}},
		{"name eq 'x' OR priority eq 1 AND score gt 96", []string{"uuid-4"}},
		{"data.owner eq 'Alice'", []string{"uuid-1", "uuid-4"}},
		{"data.settings.retention_days gt 10", []string{"uuid-1", "uuid-4"}},
		{"data eq null", []string{"uuid-3"}},
		{"data ne null", []string{"uuid-1", "uuid-2", "uuid-4"}},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			base := NewSelect("actions", "action_id")
			base.OrderBy = []string{"action_id"}
			q, err := d.AddFilter(tt.filter, base)
			require.NoError(t, err)
			ids := []string{}
			require.NoError(t, q.Run(context.Background(), db, &ids))
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestOpen(t *testing.T) {
	db, err := Open(MySQL, "user:secret@tcp(127.0.0.1:3306)/odata")
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, "mysql", db.DriverName())

	_, err = Open(MySQL, "not a dsn")
	assert.Error(t, err)

	d, ok := DialectFor("sqlite3")
	assert.True(t, ok)
	assert.Equal(t, SQLite, d)
	_, ok = DialectFor("oracle")
	assert.False(t, ok)
}

func TestRunUnknownDriver(t *testing.T) {
	db := sqlx.NewDb(openActions(t).DB, "oracle")
	err := NewSelect("actions").Run(context.Background(), db, &[]string{})
	assert.Error(t, err)
}
