package sqlbee_test

import (
	"strings"
	"testing"

	"github.com/bawdo/sqlbee"
	"github.com/bawdo/sqlbee/schema"
)

// TestConveniencePackage demonstrates building and rendering a query
// through the top-level re-exports alone.
func TestConveniencePackage(t *testing.T) {
	t.Parallel()
	users := sqlbee.NewTable("users")

	query := sqlbee.NewSelect(users).
		Select(users.Col("id"), users.Col("name")).
		Where(users.Col("active").Eq(true)).
		Order(users.Col("name").Asc()).
		Limit(10)

	sqlStr, params, err := query.ToSQL(sqlbee.NewSQLiteVisitor())
	if err != nil {
		t.Fatalf("ToSQL failed: %v", err)
	}

	expected := `SELECT "t1"."id", "t1"."name" FROM "users" AS "t1" WHERE ("t1"."active" = ?) ORDER BY "t1"."name" ASC LIMIT 10`
	if sqlStr != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, sqlStr)
	}
	if len(params) != 1 || params[0] != true {
		t.Errorf("expected params [true], got %v", params)
	}
}

// TestPostgresPlaceholdersThroughFacade checks dialect variation from
// the top level.
func TestPostgresPlaceholdersThroughFacade(t *testing.T) {
	t.Parallel()
	users := sqlbee.NewTable("users")

	query := sqlbee.NewSelect(users).
		Select(users.Col("id")).
		Where(users.Col("name").Eq("Alice")).
		Where(users.Col("age").Gt(18))

	sqlStr, params, err := query.ToSQL(sqlbee.NewPostgresVisitor())
	if err != nil {
		t.Fatalf("ToSQL failed: %v", err)
	}
	if !strings.Contains(sqlStr, "$1") || !strings.Contains(sqlStr, "$2") {
		t.Errorf("expected $n placeholders, got: %s", sqlStr)
	}
	if len(params) != 2 || params[0] != "Alice" || params[1] != 18 {
		t.Errorf("unexpected params %v", params)
	}
}

// TestValueAlwaysBinds checks the explicit bind-parameter node.
func TestValueAlwaysBinds(t *testing.T) {
	t.Parallel()
	users := sqlbee.NewTable("users")

	query := sqlbee.NewSelect(users).
		Select(users.Col("id")).
		Where(users.Col("name").Eq(sqlbee.Value("Alice")))

	sqlStr, params, err := query.ToSQL(sqlbee.NewSQLiteVisitor())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sqlStr, "?") || len(params) != 1 {
		t.Errorf("expected one bound param, got %q %v", sqlStr, params)
	}
}

// TestEndToEndOnSqlite runs the whole stack: schema definition, DDL,
// model writes, and a joined read on the embedded engine.
func TestEndToEndOnSqlite(t *testing.T) {
	db, err := sqlbee.OpenDatabase("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = db.Close() }()

	author := sqlbee.Define("author",
		schema.NewCharField("name"),
	).Bind(db)
	book := sqlbee.Define("book",
		schema.NewForeignKeyField("writer", author),
		schema.NewCharField("title"),
	).Bind(db)

	for _, m := range []*sqlbee.Model{author, book} {
		if err := m.Schema().CreateTable(); err != nil {
			t.Fatalf("create table: %v", err)
		}
	}

	kurt, err := author.Create(sqlbee.Values{author.F("name"): "Vonnegut"})
	if err != nil {
		t.Fatalf("create author: %v", err)
	}
	if _, err := book.Insert(sqlbee.Values{
		book.F("writer"): kurt,
		book.F("title"):  "Cat's Cradle",
	}).Execute(); err != nil {
		t.Fatalf("insert book: %v", err)
	}

	rows, err := book.
		Select(book.F("title"), author.F("name")).
		Join(author).
		Query()
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		t.Fatal("expected a row")
	}
	var title, name string
	if err := rows.Scan(&title, &name); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if title != "Cat's Cradle" || name != "Vonnegut" {
		t.Errorf("unexpected row: %q by %q", title, name)
	}
	if err := rows.Err(); err != nil {
		t.Fatal(err)
	}
}
