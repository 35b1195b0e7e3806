package visitors

import (
	"strings"
	"testing"

	"github.com/bawdo/sqlbee/managers"
	"github.com/bawdo/sqlbee/nodes"
)

func TestDotVisitorRendersGraph(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	query := managers.NewSelectManager(users).
		Select(users.Col("id"), users.Col("name")).
		Where(users.Col("active").Eq(true)).
		Order(users.Col("name").Desc())

	dv := NewDotVisitor()
	root := query.Core.Accept(dv)
	out := dv.ToDot()

	if root == "" {
		t.Fatal("expected a root node id")
	}
	for _, want := range []string{
		"digraph AST {",
		"SELECT",
		"Table\\nusers",
		"Column\\nusers.active",
		"DESC",
		"->",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output missing %q:\n%s", want, out)
		}
	}
}

func TestDotVisitorEdgesLabeled(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	query := managers.NewSelectManager(users).Select(users.Col("id"))

	dv := NewDotVisitor()
	query.Core.Accept(dv)
	out := dv.ToDot()

	if !strings.Contains(out, `label="PROJ[0]"`) {
		t.Errorf("expected labeled projection edge:\n%s", out)
	}
	if !strings.Contains(out, `label="FROM[0]"`) {
		t.Errorf("expected labeled FROM edge:\n%s", out)
	}
}

func TestDotVisitorProvenanceClusters(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	query := managers.NewSelectManager(users).
		Select(users.Col("id")).
		Where(users.Col("active").Eq(true)).
		Where(users.Col("deleted_at").IsNull())

	prov := NewPluginProvenance()
	prov.AddWhere("softdelete", "#AA3366", 1)

	dv := NewDotVisitor()
	dv.SetProvenance(prov)
	query.Core.Accept(dv)
	out := dv.ToDot()

	if !strings.Contains(out, "subgraph cluster_0_softdelete") {
		t.Errorf("expected a softdelete cluster:\n%s", out)
	}
}
