// Package database provides the executor facade the schema layer talks
// to: a thin wrapper over database/sql plus a per-dialect visitor
// factory. The query-building core never imports this package.
package database

import (
	"database/sql"
	"fmt"

	"github.com/bawdo/sqlbee/nodes"
	"github.com/bawdo/sqlbee/visitors"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Database is the executor contract. Implementations pair a live
// connection with the dialect visitor that matches its SQL flavor.
type Database interface {
	// ExecuteSQL runs a statement that returns no rows.
	ExecuteSQL(sqlStr string, params []any) (sql.Result, error)
	// QuerySQL runs a statement that returns rows.
	QuerySQL(sqlStr string, params []any) (*sql.Rows, error)
	// Visitor returns a fresh dialect visitor for one render pass.
	Visitor() nodes.Visitor
	// Close releases the underlying connection pool.
	Close() error
}

var driverName = map[string]string{
	"postgres": "pgx",
	"mysql":    "mysql",
	"sqlite":   "sqlite",
}

// Open connects to the named engine ("sqlite", "postgres", "mysql")
// with the given DSN and returns the matching Database.
func Open(engine, dsn string) (Database, error) {
	switch engine {
	case "sqlite":
		return NewSqliteDatabase(dsn)
	case "postgres":
		return NewPostgresDatabase(dsn)
	case "mysql":
		return NewMySQLDatabase(dsn)
	default:
		return nil, fmt.Errorf("sqlbee: no driver for engine %q", engine)
	}
}

// conn is the shared database/sql plumbing behind every Database.
type conn struct {
	db *sql.DB
}

func openConn(engine, dsn string) (*conn, error) {
	driver := driverName[engine]
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &conn{db: db}, nil
}

func (c *conn) ExecuteSQL(sqlStr string, params []any) (sql.Result, error) {
	res, err := c.db.Exec(sqlStr, params...)
	if err != nil {
		return nil, fmt.Errorf("exec: %w", err)
	}
	return res, nil
}

func (c *conn) QuerySQL(sqlStr string, params []any) (*sql.Rows, error) {
	rows, err := c.db.Query(sqlStr, params...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return rows, nil
}

func (c *conn) Close() error {
	return c.db.Close()
}

// DB exposes the raw database/sql handle for callers that need
// transactions or driver-specific features.
func (c *conn) DB() *sql.DB {
	return c.db
}

// SqliteDatabase is the file-backed embedded engine variant. A DSN of
// ":memory:" opens a transient in-memory database.
type SqliteDatabase struct {
	*conn
}

// NewSqliteDatabase opens (or creates) a SQLite database at the given path.
func NewSqliteDatabase(dsn string) (*SqliteDatabase, error) {
	c, err := openConn("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return &SqliteDatabase{conn: c}, nil
}

// Visitor returns a fresh SQLite dialect visitor.
func (d *SqliteDatabase) Visitor() nodes.Visitor {
	return visitors.NewSQLiteVisitor()
}

// PostgresDatabase connects through the pgx stdlib driver.
type PostgresDatabase struct {
	*conn
}

// NewPostgresDatabase opens a PostgreSQL connection from a DSN or URL.
func NewPostgresDatabase(dsn string) (*PostgresDatabase, error) {
	c, err := openConn("postgres", dsn)
	if err != nil {
		return nil, err
	}
	return &PostgresDatabase{conn: c}, nil
}

// Visitor returns a fresh PostgreSQL dialect visitor.
func (d *PostgresDatabase) Visitor() nodes.Visitor {
	return visitors.NewPostgresVisitor()
}

// MySQLDatabase connects through go-sql-driver/mysql.
type MySQLDatabase struct {
	*conn
}

// NewMySQLDatabase opens a MySQL connection from a DSN.
func NewMySQLDatabase(dsn string) (*MySQLDatabase, error) {
	c, err := openConn("mysql", dsn)
	if err != nil {
		return nil, err
	}
	return &MySQLDatabase{conn: c}, nil
}

// Visitor returns a fresh MySQL dialect visitor.
func (d *MySQLDatabase) Visitor() nodes.Visitor {
	return visitors.NewMySQLVisitor()
}
