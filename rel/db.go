package rel

import (
	"context"
	"fmt"

	u "github.com/araddon/gou"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// DriverName is the database/sql driver registered for the dialect.
// No postgres driver is linked in; callers import one themselves.
func (d Dialect) DriverName() string {
	switch d {
	case SQLite:
		return "sqlite3"
	case MySQL:
		return "mysql"
	}
	return "postgres"
}

// DialectFor maps a database/sql driver name back to a dialect.
func DialectFor(driverName string) (Dialect, bool) {
	switch driverName {
	case "sqlite3":
		return SQLite, true
	case "mysql":
		return MySQL, true
	case "postgres", "pgx":
		return Postgres, true
	}
	return Postgres, false
}

// Open opens a database for the dialect. MySQL dsns are validated and
// opened with parseTime so date columns scan into time.Time.
func Open(d Dialect, dsn string) (*sqlx.DB, error) {
	if d == MySQL {
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("invalid mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		dsn = cfg.FormatDSN()
	}
	return sqlx.Open(d.DriverName(), dsn)
}

// Run executes the statement and scans the rows into dest, a pointer
// to a slice.
func (m *Select) Run(ctx context.Context, db *sqlx.DB, dest any) error {
	d, ok := DialectFor(db.DriverName())
	if !ok {
		return fmt.Errorf("no sql dialect for driver %q", db.DriverName())
	}
	q, args, err := m.ToSQL(d)
	if err != nil {
		return err
	}
	u.Debugf("rel query: %s %v", q, args)
	return db.SelectContext(ctx, dest, q, args...)
}
