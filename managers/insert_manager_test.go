package managers

import (
	"testing"

	"github.com/bawdo/sqlbee/internal/testutil"
	"github.com/bawdo/sqlbee/nodes"
)

// visitorForTest returns a stub visitor for builder-state tests that
// only need ToSQL plumbing, not real SQL.
func visitorForTest() nodes.Visitor { return testutil.StubVisitor{} }

func TestInsertColumnsAndValues(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewInsertManager(users).
		Columns(users.Col("name"), users.Col("age")).
		Values("huey", 3).
		Values("mickey", 5)

	if len(m.Statement.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(m.Statement.Columns))
	}
	if len(m.Statement.Values) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(m.Statement.Values))
	}
	if lit, ok := m.Statement.Values[0][0].(*nodes.LiteralNode); !ok || lit.Value != "huey" {
		t.Error("expected raw values wrapped as literals")
	}
}

func TestRowSortsColumnsByName(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewInsertManager(users).Row(nodes.Row{
		users.Col("username"):  "charlie",
		users.Col("admin"):     true,
		users.Col("superuser"): false,
	})

	var names []string
	for _, c := range m.Statement.Columns {
		names = append(names, c.(nodes.Column).ColumnName())
	}
	want := []string{"admin", "superuser", "username"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected column order %v, got %v", want, names)
		}
	}
}

func TestRowSortsByDeclarationIndexFirst(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	first := users.Col("zeta")
	first.SortIdx = 1
	second := users.Col("alpha")
	second.SortIdx = 2

	m := NewInsertManager(users).Row(nodes.Row{second: "a", first: "z"})

	if m.Statement.Columns[0].(nodes.Column).ColumnName() != "zeta" {
		t.Error("expected declaration index to beat name ordering")
	}
}

func TestRowsUnionFillsMissingWithNull(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewInsertManager(users).Rows(
		nodes.Row{users.Col("a"): 1, users.Col("b"): 2},
		nodes.Row{users.Col("b"): 3},
	)

	if len(m.Statement.Columns) != 2 {
		t.Fatalf("expected union of 2 columns, got %d", len(m.Statement.Columns))
	}
	lit, ok := m.Statement.Values[1][0].(*nodes.LiteralNode)
	if !ok || lit.Value != nil {
		t.Error("expected missing column to render as NULL literal")
	}
}

func TestFromSelectUnwrapsManager(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	archive := nodes.NewTable("archive")
	sel := NewSelectManager(users).Select(users.Col("id"))

	m := NewInsertManager(archive).FromSelect(sel, archive.Col("id"))

	if m.Statement.Select != nodes.Node(sel.Core) {
		t.Error("expected the unwrapped select core")
	}
	if len(m.Statement.Columns) != 1 {
		t.Error("expected explicit column list")
	}
}

func TestInsertToSQLUsesStubVisitor(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewInsertManager(users).Row(nodes.Row{users.Col("a"): 1})

	sqlStr, params, err := m.ToSQL(visitorForTest())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sqlStr, "insert")
	if params != nil {
		t.Errorf("stub visitor collects no params, got %v", params)
	}
}
