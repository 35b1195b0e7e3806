package main

import (
	"strings"
	"testing"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	sess, err := NewSession("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	t.Cleanup(sess.Close)

	if _, err := sess.Execute(`sql CREATE TABLE "users" ("id" INTEGER NOT NULL PRIMARY KEY, "username" VARCHAR(255) NOT NULL, "age" INTEGER)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	return sess
}

func TestSessionInsertAndSelect(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)

	out, err := sess.Execute("insert users username = 'huey', age = 7")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "(1 rows affected)") {
		t.Errorf("unexpected insert output %q", out)
	}

	out, err = sess.Execute("select users username, age where age > 3")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "huey") || !strings.Contains(out, "(1 row)") {
		t.Errorf("unexpected select output:\n%s", out)
	}
}

func TestSessionUpdateAndDelete(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)

	if _, err := sess.Execute("insert users username = 'mickey', age = 5"); err != nil {
		t.Fatal(err)
	}
	if _, err := sess.Execute("update users set age = 6 where username = 'mickey'"); err != nil {
		t.Fatal(err)
	}
	out, err := sess.Execute("delete users where username = 'mickey'")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "(1 rows affected)") {
		t.Errorf("unexpected delete output %q", out)
	}
}

func TestSessionTablesAndColumns(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)

	out, err := sess.Execute("tables")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "users") {
		t.Errorf("expected users table listed, got %q", out)
	}

	out, err = sess.Execute("columns users")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "username") {
		t.Errorf("expected username column listed, got %q", out)
	}
}

func TestSessionShowPrintsSQL(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)

	out, err := sess.Execute("show select users username where age > 3")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `SELECT "t1"."username"`) {
		t.Errorf("expected rendered SQL, got:\n%s", out)
	}
	if !strings.Contains(out, "params: [3]") {
		t.Errorf("expected params line, got:\n%s", out)
	}
}

func TestSessionDotOutput(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)

	out, err := sess.Execute("dot select users username")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "digraph AST {") {
		t.Errorf("expected DOT output, got:\n%s", out)
	}
}

func TestSessionUnknownColumnFailsEarly(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)

	// Declared columns from introspection make typos fail at build
	// time, before any SQL reaches the database.
	if _, err := sess.Execute("select users flavor"); err == nil {
		t.Fatal("expected an error for an unknown column")
	}
	if _, err := sess.Execute("select users username"); err != nil {
		t.Fatalf("session should survive the failure: %v", err)
	}
}

func TestSessionSoftDeletePlugin(t *testing.T) {
	t.Parallel()
	sess := newTestSession(t)

	if _, err := sess.Execute(`sql ALTER TABLE "users" ADD COLUMN "deleted_at" TIMESTAMP`); err != nil {
		t.Fatal(err)
	}
	if _, err := sess.Execute("plugin softdelete"); err != nil {
		t.Fatal(err)
	}

	out, err := sess.Execute("show select users username")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"deleted_at" IS NULL`) {
		t.Errorf("expected softdelete condition, got:\n%s", out)
	}
}
