// Package managers provides high-level fluent APIs for building SQL ASTs.
package managers

import (
	"strconv"

	"github.com/bawdo/sqlbee/nodes"
	"github.com/bawdo/sqlbee/plugins"
)

// SelectManager provides a fluent API for building SELECT queries.
// It wraps a SelectCore and applies transformer plugins before SQL generation.
type SelectManager struct {
	treeManager
	Core *nodes.SelectCore
}

// NewSelectManager creates a new SelectManager with the given source as
// FROM. If from is nil, the FROM clause is inferred at render time from
// the first column projection, or omitted.
func NewSelectManager(from nodes.Node) *SelectManager {
	core := &nodes.SelectCore{}
	if from != nil {
		core.Froms = []nodes.Node{nodes.Unwrap(from)}
	}
	return &SelectManager{Core: core}
}

// Select sets the projection list, replacing any existing projections.
// Pass column attributes, stars, literals, or any Node.
func (m *SelectManager) Select(projections ...nodes.Node) *SelectManager {
	m.Core.Projections = projections
	return m
}

// Distinct enables or disables the DISTINCT modifier on the SELECT clause.
func (m *SelectManager) Distinct(on ...bool) *SelectManager {
	m.Core.Distinct = len(on) == 0 || on[0]
	return m
}

// Where appends one or more conditions to the WHERE clause.
// Conditions accumulated over multiple calls are AND-combined at render
// time, identically to a single combined condition.
func (m *SelectManager) Where(conditions ...nodes.Node) *SelectManager {
	m.Core.Wheres = append(m.Core.Wheres, conditions...)
	return m
}

// From replaces the FROM source list.
func (m *SelectManager) From(sources ...nodes.Node) *SelectManager {
	froms := make([]nodes.Node, len(sources))
	for i, s := range sources {
		froms[i] = nodes.Unwrap(s)
	}
	m.Core.Froms = froms
	return m
}

// Join adds a join to the query and returns a JoinContext for specifying
// the ON condition. The default join type is InnerJoin.
func (m *SelectManager) Join(table nodes.Node, joinTypes ...nodes.JoinType) *JoinContext {
	jt := nodes.InnerJoin
	if len(joinTypes) > 0 {
		jt = joinTypes[0]
	}
	join := &nodes.JoinNode{Right: nodes.Unwrap(table), Type: jt}
	m.Core.Joins = append(m.Core.Joins, join)
	return &JoinContext{manager: m, join: join}
}

// OuterJoin is a convenience for Join with LeftOuterJoin type.
func (m *SelectManager) OuterJoin(table nodes.Node) *JoinContext {
	return m.Join(table, nodes.LeftOuterJoin)
}

// CrossJoin adds a cross join (no ON clause).
func (m *SelectManager) CrossJoin(table nodes.Node) *SelectManager {
	join := &nodes.JoinNode{Right: nodes.Unwrap(table), Type: nodes.CrossJoin}
	m.Core.Joins = append(m.Core.Joins, join)
	return m
}

// Group appends one or more expressions to the GROUP BY clause.
func (m *SelectManager) Group(columns ...nodes.Node) *SelectManager {
	m.Core.Groups = append(m.Core.Groups, columns...)
	return m
}

// Having appends one or more conditions to the HAVING clause.
// Multiple calls to Having are AND-combined at render time.
func (m *SelectManager) Having(conditions ...nodes.Node) *SelectManager {
	m.Core.Havings = append(m.Core.Havings, conditions...)
	return m
}

// Order appends to the ORDER BY clause. Pass plain expressions or
// OrderingNode values (e.g., table.Col("name").Asc()).
func (m *SelectManager) Order(orderings ...nodes.Node) *SelectManager {
	m.Core.Orders = append(m.Core.Orders, orderings...)
	return m
}

// Limit sets the LIMIT value. The count renders as a raw integer, never
// as a bind parameter; Limit(0) emits LIMIT 0.
func (m *SelectManager) Limit(n int) *SelectManager {
	m.Core.Limit = nodes.SQL(strconv.Itoa(n))
	return m
}

// Offset sets the OFFSET value, rendered as a raw integer.
func (m *SelectManager) Offset(n int) *SelectManager {
	m.Core.Offset = nodes.SQL(strconv.Itoa(n))
	return m
}

// With adds a Common Table Expression (WITH clause) and returns the
// manager for chaining.
func (m *SelectManager) With(name string, query nodes.Node) *SelectManager {
	m.Core.CTEs = append(m.Core.CTEs, nodes.NewCTE(name, query, false))
	return m
}

// WithRecursive adds a recursive Common Table Expression.
func (m *SelectManager) WithRecursive(name string, query nodes.Node) *SelectManager {
	m.Core.CTEs = append(m.Core.CTEs, nodes.NewCTE(name, query, true))
	return m
}

// WithCTE attaches pre-built CTE nodes to the query's WITH clause.
func (m *SelectManager) WithCTE(ctes ...*nodes.CTENode) *SelectManager {
	m.Core.CTEs = append(m.Core.CTEs, ctes...)
	return m
}

// ToCTE wraps this query as a named Common Table Expression. The
// returned node is both a FROM source and a column namespace.
func (m *SelectManager) ToCTE(name string) *nodes.CTENode {
	return nodes.NewCTE(name, m.Core, false)
}

// ToRecursiveCTE wraps this query as a recursive CTE.
func (m *SelectManager) ToRecursiveCTE(name string) *nodes.CTENode {
	return nodes.NewCTE(name, m.Core, true)
}

// Union creates a UNION set operation between this query and another.
func (m *SelectManager) Union(other nodes.Node) *CompoundManager {
	return newCompound(m.Core, other, nodes.Union)
}

// UnionAll creates a UNION ALL set operation between this query and another.
func (m *SelectManager) UnionAll(other nodes.Node) *CompoundManager {
	return newCompound(m.Core, other, nodes.UnionAll)
}

// Intersect creates an INTERSECT set operation between this query and another.
func (m *SelectManager) Intersect(other nodes.Node) *CompoundManager {
	return newCompound(m.Core, other, nodes.Intersect)
}

// Except creates an EXCEPT set operation between this query and another.
func (m *SelectManager) Except(other nodes.Node) *CompoundManager {
	return newCompound(m.Core, other, nodes.Except)
}

// Exists wraps this query in an EXISTS predicate.
func (m *SelectManager) Exists() *nodes.ExistsNode {
	return nodes.Exists(m.Core)
}

// Use registers a transformer plugin to be applied before SQL generation.
func (m *SelectManager) Use(t plugins.Transformer) *SelectManager {
	m.addTransformer(t)
	return m
}

// toSQLCore applies all registered transformers to a copy of the SelectCore,
// then generates SQL using the given visitor.
func (m *SelectManager) toSQLCore(v nodes.Visitor) (string, error) {
	core := m.CloneCore()
	if len(core.Froms) == 0 {
		core.Froms = inferFroms(core.Projections)
	}
	for _, t := range m.transformers {
		var err error
		core, err = t.TransformSelect(core)
		if err != nil {
			return "", err
		}
	}
	return core.Accept(v), nil
}

// inferFroms derives the FROM list from the first column projection when
// no source was given explicitly.
func inferFroms(projections []nodes.Node) []nodes.Node {
	for _, p := range projections {
		if q, ok := p.(nodes.Qualified); ok && q.Source() != nil {
			return []nodes.Node{q.Source()}
		}
	}
	return nil
}

// ToSQL applies all registered transformers and generates SQL with parameters.
// Returns SQL string, parameter values (if parameterised), and any error.
// Parameters are collected automatically when the visitor has parameterisation enabled.
func (m *SelectManager) ToSQL(v nodes.Visitor) (string, []any, error) {
	return toSQLParams(v, m.toSQLCore)
}

// Accept implements the Node interface so that a SelectManager can be
// used as a subquery. It delegates to the underlying SelectCore.
func (m *SelectManager) Accept(v nodes.Visitor) string {
	return m.Core.Accept(v)
}

// QueryAST exposes the underlying SelectCore for use in expression
// positions (IN, comparisons, FROM).
func (m *SelectManager) QueryAST() nodes.Node {
	return m.Core
}

// As wraps the query's SelectCore in a TableAlias, enabling it to be
// used as a named subquery in FROM or JOIN clauses.
func (m *SelectManager) As(name string) *nodes.TableAlias {
	return &nodes.TableAlias{Relation: m.Core, AliasName: name}
}

// CloneCore returns a shallow copy of the SelectCore so transformers
// don't modify the original.
func (m *SelectManager) CloneCore() *nodes.SelectCore {
	projections := make([]nodes.Node, len(m.Core.Projections))
	copy(projections, m.Core.Projections)

	froms := make([]nodes.Node, len(m.Core.Froms))
	copy(froms, m.Core.Froms)

	joins := make([]*nodes.JoinNode, len(m.Core.Joins))
	copy(joins, m.Core.Joins)

	wheres := make([]nodes.Node, len(m.Core.Wheres))
	copy(wheres, m.Core.Wheres)

	groups := make([]nodes.Node, len(m.Core.Groups))
	copy(groups, m.Core.Groups)

	havings := make([]nodes.Node, len(m.Core.Havings))
	copy(havings, m.Core.Havings)

	orders := make([]nodes.Node, len(m.Core.Orders))
	copy(orders, m.Core.Orders)

	ctes := make([]*nodes.CTENode, len(m.Core.CTEs))
	copy(ctes, m.Core.CTEs)

	return &nodes.SelectCore{
		CTEs:        ctes,
		Distinct:    m.Core.Distinct,
		Projections: projections,
		Froms:       froms,
		Joins:       joins,
		Wheres:      wheres,
		Groups:      groups,
		Havings:     havings,
		Orders:      orders,
		Limit:       m.Core.Limit,
		Offset:      m.Core.Offset,
	}
}

// CompoundManager combines SELECT queries with set operations. Trees are
// left-associative; chaining Union calls extends the tree to the right.
type CompoundManager struct {
	treeManager
	Node *nodes.SetOperationNode
}

func newCompound(left, right nodes.Node, t nodes.SetOpType) *CompoundManager {
	return &CompoundManager{Node: nodes.NewSetOperation(left, right, t)}
}

// Union extends the compound with a further UNION component.
func (m *CompoundManager) Union(other nodes.Node) *CompoundManager {
	return newCompound(m.Node, other, nodes.Union)
}

// UnionAll extends the compound with a further UNION ALL component.
func (m *CompoundManager) UnionAll(other nodes.Node) *CompoundManager {
	return newCompound(m.Node, other, nodes.UnionAll)
}

// Intersect extends the compound with an INTERSECT component.
func (m *CompoundManager) Intersect(other nodes.Node) *CompoundManager {
	return newCompound(m.Node, other, nodes.Intersect)
}

// Except extends the compound with an EXCEPT component.
func (m *CompoundManager) Except(other nodes.Node) *CompoundManager {
	return newCompound(m.Node, other, nodes.Except)
}

// ToCTE wraps the compound as a named Common Table Expression.
func (m *CompoundManager) ToCTE(name string) *nodes.CTENode {
	return nodes.NewCTE(name, m.Node, false)
}

// ToRecursiveCTE wraps the compound as a recursive CTE, the usual shape
// of the WITH RECURSIVE seed/step pair.
func (m *CompoundManager) ToRecursiveCTE(name string) *nodes.CTENode {
	return nodes.NewCTE(name, m.Node, true)
}

// ToSQL generates SQL with parameters for the compound query.
func (m *CompoundManager) ToSQL(v nodes.Visitor) (string, []any, error) {
	return toSQLParams(v, func(v nodes.Visitor) (string, error) {
		return m.Node.Accept(v), nil
	})
}

// Accept implements the Node interface so a compound can nest further.
func (m *CompoundManager) Accept(v nodes.Visitor) string {
	return m.Node.Accept(v)
}

// QueryAST exposes the underlying SetOperationNode.
func (m *CompoundManager) QueryAST() nodes.Node {
	return m.Node
}
