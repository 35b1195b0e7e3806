package plugins

import (
	"testing"

	"github.com/bawdo/sqlbee/nodes"
)

func TestCollectTablesFromTable(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{Froms: []nodes.Node{users}}

	refs := CollectTables(core)
	if len(refs) != 1 {
		t.Fatalf("expected 1 ref, got %d", len(refs))
	}
	if refs[0].Name != "users" {
		t.Errorf("expected name 'users', got %q", refs[0].Name)
	}
	if refs[0].Relation != nodes.Node(users) {
		t.Error("expected relation to be the table")
	}
}

func TestCollectTablesFromAlias(t *testing.T) {
	t.Parallel()
	u := nodes.NewTable("users").Alias("u")
	core := &nodes.SelectCore{Froms: []nodes.Node{u}}

	refs := CollectTables(core)
	if len(refs) != 1 {
		t.Fatalf("expected 1 ref, got %d", len(refs))
	}
	if refs[0].Name != "users" {
		t.Errorf("expected underlying name 'users', got %q", refs[0].Name)
	}
	if refs[0].Relation != nodes.Node(u) {
		t.Error("expected relation to be the alias")
	}
}

func TestCollectTablesIncludesJoins(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	tweets := nodes.NewTable("tweets")
	core := &nodes.SelectCore{
		Froms: []nodes.Node{users},
		Joins: []*nodes.JoinNode{{Right: tweets, Type: nodes.InnerJoin}},
	}

	refs := CollectTables(core)
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d", len(refs))
	}
	if refs[1].Name != "tweets" {
		t.Errorf("expected joined table, got %q", refs[1].Name)
	}
}

func TestCollectTablesSkipsSubqueries(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{
		Froms: []nodes.Node{users, &nodes.SelectCore{}},
	}

	refs := CollectTables(core)
	if len(refs) != 1 {
		t.Fatalf("expected subquery to be skipped, got %d refs", len(refs))
	}
}
