package managers

import (
	"strconv"

	"github.com/bawdo/sqlbee/nodes"
	"github.com/bawdo/sqlbee/plugins"
)

// DeleteManager provides a fluent API for building DELETE statements.
type DeleteManager struct {
	treeManager
	Statement *nodes.DeleteStatement
}

// NewDeleteManager creates a new DeleteManager targeting the given table.
func NewDeleteManager(from nodes.Node) *DeleteManager {
	return &DeleteManager{
		Statement: &nodes.DeleteStatement{From: from},
	}
}

// Where appends conditions to the WHERE clause; they are AND-combined
// at render time.
func (m *DeleteManager) Where(conditions ...nodes.Node) *DeleteManager {
	m.Statement.Wheres = append(m.Statement.Wheres, conditions...)
	return m
}

// Order appends to the ORDER BY clause.
func (m *DeleteManager) Order(orderings ...nodes.Node) *DeleteManager {
	m.Statement.Orders = append(m.Statement.Orders, orderings...)
	return m
}

// Limit sets the LIMIT value, rendered as a raw integer.
func (m *DeleteManager) Limit(n int) *DeleteManager {
	m.Statement.Limit = nodes.SQL(strconv.Itoa(n))
	return m
}

// Returning sets the RETURNING clause columns.
func (m *DeleteManager) Returning(cols ...nodes.Node) *DeleteManager {
	m.Statement.Returning = cols
	return m
}

// Use registers a transformer plugin.
func (m *DeleteManager) Use(t plugins.Transformer) *DeleteManager {
	m.addTransformer(t)
	return m
}

// toSQLStatement applies transformers and generates SQL.
func (m *DeleteManager) toSQLStatement(v nodes.Visitor) (string, error) {
	stmt := m.cloneStatement()
	for _, t := range m.transformers {
		var err error
		stmt, err = t.TransformDelete(stmt)
		if err != nil {
			return "", err
		}
	}
	return stmt.Accept(v), nil
}

// ToSQL applies transformers and generates SQL with parameters.
func (m *DeleteManager) ToSQL(v nodes.Visitor) (string, []any, error) {
	return toSQLParams(v, m.toSQLStatement)
}

func (m *DeleteManager) cloneStatement() *nodes.DeleteStatement {
	wheres := make([]nodes.Node, len(m.Statement.Wheres))
	copy(wheres, m.Statement.Wheres)

	orders := make([]nodes.Node, len(m.Statement.Orders))
	copy(orders, m.Statement.Orders)

	returning := make([]nodes.Node, len(m.Statement.Returning))
	copy(returning, m.Statement.Returning)

	return &nodes.DeleteStatement{
		From:      m.Statement.From,
		Wheres:    wheres,
		Orders:    orders,
		Limit:     m.Statement.Limit,
		Returning: returning,
	}
}
