package managers

import (
	"errors"
	"testing"

	"github.com/bawdo/sqlbee/nodes"
	"github.com/bawdo/sqlbee/plugins"
)

// --- NewSelectManager ---

func TestNewSelectManagerSetsFrom(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users)

	if len(m.Core.Froms) != 1 || m.Core.Froms[0] != nodes.Node(users) {
		t.Error("expected Froms to hold the users table")
	}
	if len(m.Core.Projections) != 0 {
		t.Error("expected empty projections")
	}
	if len(m.Core.Wheres) != 0 {
		t.Error("expected empty wheres")
	}
	if len(m.Core.Joins) != 0 {
		t.Error("expected empty joins")
	}
}

func TestNewSelectManagerNilFrom(t *testing.T) {
	t.Parallel()
	m := NewSelectManager(nil)
	if len(m.Core.Froms) != 0 {
		t.Error("expected empty Froms")
	}
}

// --- Select ---

func TestSelectReplacesProjections(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users)

	m.Select(users.Col("id"))
	m.Select(users.Col("name"), users.Col("email"))

	if len(m.Core.Projections) != 2 {
		t.Fatalf("expected 2 projections after replacement, got %d", len(m.Core.Projections))
	}
}

// --- Where ---

func TestWhereAppendsConditions(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users)

	m.Where(users.Col("active").Eq(true))
	m.Where(users.Col("age").Gt(18))

	if len(m.Core.Wheres) != 2 {
		t.Fatalf("expected 2 wheres, got %d", len(m.Core.Wheres))
	}
}

// --- From ---

func TestFromReplacesSourceList(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	tweets := nodes.NewTable("tweets")
	m := NewSelectManager(users)

	m.From(users, tweets)

	if len(m.Core.Froms) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(m.Core.Froms))
	}
}

func TestFromUnwrapsBuilders(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	inner := NewSelectManager(users)
	m := NewSelectManager(nil).From(inner)

	if m.Core.Froms[0] != nodes.Node(inner.Core) {
		t.Error("expected the inner SelectCore, not the manager")
	}
}

// --- Join ---

func TestJoinRequiresOnThroughContext(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	tweets := nodes.NewTable("tweets")
	m := NewSelectManager(users)

	ret := m.Join(tweets).On(tweets.Col("user_id").Eq(users.Col("id")))

	if ret != m {
		t.Error("expected On to return the manager")
	}
	if len(m.Core.Joins) != 1 {
		t.Fatalf("expected 1 join, got %d", len(m.Core.Joins))
	}
	j := m.Core.Joins[0]
	if j.Type != nodes.InnerJoin || j.On == nil {
		t.Errorf("unexpected join: %+v", j)
	}
}

func TestOuterJoinType(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	tweets := nodes.NewTable("tweets")
	m := NewSelectManager(users)

	m.OuterJoin(tweets).On(tweets.Col("user_id").Eq(users.Col("id")))

	if m.Core.Joins[0].Type != nodes.LeftOuterJoin {
		t.Error("expected left outer join")
	}
}

func TestCrossJoinHasNoOn(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	tweets := nodes.NewTable("tweets")
	m := NewSelectManager(users)

	m.CrossJoin(tweets)

	j := m.Core.Joins[0]
	if j.Type != nodes.CrossJoin || j.On != nil {
		t.Errorf("unexpected cross join: %+v", j)
	}
}

// --- CTEs and compounds ---

func TestWithAddsCTE(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users)
	inner := NewSelectManager(users).Select(users.Col("id"))

	m.With("recent", inner)

	if len(m.Core.CTEs) != 1 || m.Core.CTEs[0].Name != "recent" {
		t.Fatalf("unexpected CTEs: %+v", m.Core.CTEs)
	}
	if m.Core.CTEs[0].Query != nodes.Node(inner.Core) {
		t.Error("expected CTE query to be the unwrapped core")
	}
}

func TestWithRecursiveFlag(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users)
	m.WithRecursive("tree", NewSelectManager(users))

	if !m.Core.CTEs[0].Recursive {
		t.Error("expected recursive CTE")
	}
}

func TestToCTEWrapsCore(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users).Select(users.Col("id"))

	cte := m.ToCTE("ids")
	if cte.Name != "ids" || cte.Query != nodes.Node(m.Core) {
		t.Errorf("unexpected CTE: %+v", cte)
	}
}

func TestUnionBuildsLeftAssociativeTree(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	a := NewSelectManager(users).Select(users.Col("a"))
	b := NewSelectManager(users).Select(users.Col("b"))
	c := NewSelectManager(users).Select(users.Col("c"))

	compound := a.Union(b).Union(c)

	if compound.Node.Type != nodes.Union {
		t.Error("expected UNION")
	}
	inner, ok := compound.Node.Left.(*nodes.SetOperationNode)
	if !ok {
		t.Fatal("expected nested set operation on the left")
	}
	if inner.Left != nodes.Node(a.Core) || inner.Right != nodes.Node(b.Core) {
		t.Error("expected (a UNION b) as the left component")
	}
	if compound.Node.Right != nodes.Node(c.Core) {
		t.Error("expected c as the right component")
	}
}

// --- ToSQL plumbing ---

type failingTransformer struct {
	plugins.BaseTransformer
}

var errTransform = errors.New("transform failed")

func (failingTransformer) TransformSelect(c *nodes.SelectCore) (*nodes.SelectCore, error) {
	return nil, errTransform
}

func TestToSQLPropagatesTransformerError(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users).Use(failingTransformer{})

	_, _, err := m.ToSQL(visitorForTest())
	if !errors.Is(err, errTransform) {
		t.Fatalf("expected transformer error, got %v", err)
	}
}

type appendWhereTransformer struct {
	plugins.BaseTransformer
}

func (appendWhereTransformer) TransformSelect(c *nodes.SelectCore) (*nodes.SelectCore, error) {
	users := nodes.NewTable("users")
	c.Wheres = append(c.Wheres, users.Col("deleted_at").IsNull())
	return c, nil
}

func TestTransformersOperateOnClone(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users).Select(users.Col("id")).Use(appendWhereTransformer{})

	if _, _, err := m.ToSQL(visitorForTest()); err != nil {
		t.Fatal(err)
	}
	if len(m.Core.Wheres) != 0 {
		t.Error("transformer must not mutate the original core")
	}
}

func TestCloneCoreIsShallowButIndependent(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users).Select(users.Col("id")).Where(users.Col("a").Eq(1))

	clone := m.CloneCore()
	clone.Wheres = append(clone.Wheres, users.Col("b").Eq(2))

	if len(m.Core.Wheres) != 1 {
		t.Error("appending to the clone must not grow the original")
	}
}
