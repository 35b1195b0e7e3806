// Package sqlbee provides a composable SQL construction library for Go:
// an expression algebra of AST nodes, dialect visitors that render any
// node tree into parameterized SQL, fluent statement builders, and a
// declarative schema layer that maps model definitions onto both the
// algebra and emitted DDL.
//
// This package re-exports commonly used types and functions from
// subpackages for convenience. Advanced users can import subpackages
// directly:
//   - github.com/bawdo/sqlbee/managers (query builders)
//   - github.com/bawdo/sqlbee/nodes (AST nodes)
//   - github.com/bawdo/sqlbee/visitors (SQL generation)
//   - github.com/bawdo/sqlbee/schema (models, fields, DDL)
//   - github.com/bawdo/sqlbee/database (driver facade)
//   - github.com/bawdo/sqlbee/plugins (query transformers)
package sqlbee

import (
	"github.com/bawdo/sqlbee/database"
	"github.com/bawdo/sqlbee/managers"
	"github.com/bawdo/sqlbee/nodes"
	"github.com/bawdo/sqlbee/schema"
	"github.com/bawdo/sqlbee/visitors"
)

// --- Manager Types ---

// SelectManager provides a fluent API for building SELECT queries.
type SelectManager = managers.SelectManager

// InsertManager provides a fluent API for building INSERT queries.
type InsertManager = managers.InsertManager

// UpdateManager provides a fluent API for building UPDATE queries.
type UpdateManager = managers.UpdateManager

// DeleteManager provides a fluent API for building DELETE queries.
type DeleteManager = managers.DeleteManager

// CompoundManager combines SELECT queries with UNION/INTERSECT/EXCEPT.
type CompoundManager = managers.CompoundManager

// --- Manager Constructors ---

// NewSelect creates a new SelectManager with the given source as FROM.
func NewSelect(from nodes.Node) *managers.SelectManager {
	return managers.NewSelectManager(from)
}

// NewInsert creates a new InsertManager for inserting into the given table.
func NewInsert(into nodes.Node) *managers.InsertManager {
	return managers.NewInsertManager(into)
}

// NewUpdate creates a new UpdateManager for updating the given table.
func NewUpdate(table nodes.Node) *managers.UpdateManager {
	return managers.NewUpdateManager(table)
}

// NewDelete creates a new DeleteManager for deleting from the given table.
func NewDelete(from nodes.Node) *managers.DeleteManager {
	return managers.NewDeleteManager(from)
}

// --- Core Node Types ---

// Table represents a SQL table reference.
type Table = nodes.Table

// Attribute represents a column reference (e.g., table.column).
type Attribute = nodes.Attribute

// Node is the base interface all AST nodes implement.
type Node = nodes.Node

// Row is a mapping-valued INSERT/UPDATE payload.
type Row = nodes.Row

// --- Common Node Constructors ---

// NewTable creates a new table reference, optionally declaring its
// column set.
func NewTable(name string, columns ...string) *nodes.Table {
	return nodes.NewTable(name, columns...)
}

// SQL creates a raw SQL fragment with optional bind parameters.
func SQL(raw string, binds ...any) *nodes.SqlLiteral {
	return nodes.SQL(raw, binds...)
}

// Literal creates a SQL literal node (e.g., numbers, strings).
func Literal(value any) nodes.Node {
	return nodes.Literal(value)
}

// Value creates an explicit bind-parameter node.
func Value(value any) *nodes.BindParamNode {
	return nodes.NewBindParam(value)
}

// Entity creates a bare quoted identifier node.
func Entity(name string) *nodes.EntityNode {
	return nodes.Entity(name)
}

// Star creates an unqualified star (*) for SELECT *.
func Star() *nodes.StarNode {
	return nodes.Star()
}

// Fn creates a named function call node (e.g., Fn("COALESCE", a, b)).
func Fn(name string, args ...any) *nodes.NamedFunctionNode {
	return nodes.Fn(name, args...)
}

// --- Aggregate Functions ---

// Count creates a COUNT(expr) aggregate. Pass nil for COUNT(*).
func Count(expr nodes.Node) *nodes.AggregateNode {
	return nodes.Count(expr)
}

// Sum creates a SUM(expr) aggregate.
func Sum(expr nodes.Node) *nodes.AggregateNode {
	return nodes.Sum(expr)
}

// Avg creates an AVG(expr) aggregate.
func Avg(expr nodes.Node) *nodes.AggregateNode {
	return nodes.Avg(expr)
}

// Min creates a MIN(expr) aggregate.
func Min(expr nodes.Node) *nodes.AggregateNode {
	return nodes.Min(expr)
}

// Max creates a MAX(expr) aggregate.
func Max(expr nodes.Node) *nodes.AggregateNode {
	return nodes.Max(expr)
}

// CountDistinct creates a COUNT(DISTINCT expr) aggregate.
func CountDistinct(expr nodes.Node) *nodes.AggregateNode {
	return nodes.CountDistinct(expr)
}

// --- Schema Layer ---

// Model is the metadata for one declared table.
type Model = schema.Model

// Field is a typed column descriptor.
type Field = schema.Field

// ForeignKeyField references another model's primary key.
type ForeignKeyField = schema.ForeignKeyField

// Values is a mapping-valued payload keyed by model fields.
type Values = schema.Values

// CompositeIndex declares a multi-column index.
type CompositeIndex = schema.CompositeIndex

// Define declares a model over the named table.
func Define(name string, defs ...schema.FieldDef) *schema.Model {
	return schema.Define(name, defs...)
}

// --- Visitor Types ---

// SQLiteVisitor generates SQLite-compatible SQL (the canonical dialect).
type SQLiteVisitor = visitors.SQLiteVisitor

// PostgresVisitor generates PostgreSQL-compatible SQL.
type PostgresVisitor = visitors.PostgresVisitor

// MySQLVisitor generates MySQL-compatible SQL.
type MySQLVisitor = visitors.MySQLVisitor

// --- Visitor Constructors ---

// NewSQLiteVisitor creates a new SQLite visitor.
func NewSQLiteVisitor(opts ...visitors.Option) *visitors.SQLiteVisitor {
	return visitors.NewSQLiteVisitor(opts...)
}

// NewPostgresVisitor creates a new PostgreSQL visitor.
func NewPostgresVisitor(opts ...visitors.Option) *visitors.PostgresVisitor {
	return visitors.NewPostgresVisitor(opts...)
}

// NewMySQLVisitor creates a new MySQL visitor.
func NewMySQLVisitor(opts ...visitors.Option) *visitors.MySQLVisitor {
	return visitors.NewMySQLVisitor(opts...)
}

// --- Visitor Options ---

// WithoutParams disables parameterised query mode.
//
// ⚠️ WARNING: Disables SQL injection protection. Only use for debugging or when
// you're certain all values are trusted. Production code should NEVER use this option.
func WithoutParams() visitors.Option {
	return visitors.WithoutParams()
}

// --- Driver Facade ---

// Database is the executor contract the schema layer talks to.
type Database = database.Database

// OpenDatabase connects to the named engine ("sqlite", "postgres",
// "mysql") with the given DSN.
func OpenDatabase(engine, dsn string) (database.Database, error) {
	return database.Open(engine, dsn)
}
