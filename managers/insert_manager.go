package managers

import (
	"github.com/bawdo/sqlbee/nodes"
	"github.com/bawdo/sqlbee/plugins"
)

// InsertManager provides a fluent API for building INSERT statements.
type InsertManager struct {
	treeManager
	Statement *nodes.InsertStatement
}

// NewInsertManager creates a new InsertManager targeting the given table.
func NewInsertManager(into nodes.Node) *InsertManager {
	return &InsertManager{
		Statement: &nodes.InsertStatement{Into: into},
	}
}

// Columns sets the column list for the INSERT statement.
func (m *InsertManager) Columns(cols ...nodes.Node) *InsertManager {
	m.Statement.Columns = cols
	return m
}

// Values appends a row of values to the INSERT statement.
// Each call to Values adds one row. Pass raw Go values; they are
// wrapped with nodes.Literal automatically.
func (m *InsertManager) Values(vals ...any) *InsertManager {
	row := make([]nodes.Node, len(vals))
	for i, v := range vals {
		row[i] = nodes.Literal(v)
	}
	m.Statement.Values = append(m.Statement.Values, row)
	return m
}

// Row sets a single mapping-valued payload. The column list is the
// row's keys ordered by SortKey (declaration index, then column name);
// values align with that order.
func (m *InsertManager) Row(vals nodes.Row) *InsertManager {
	return m.Rows(vals)
}

// Rows sets a multi-row mapping payload. The column list is the sorted
// union of all row keys; rows that omit a column render NULL for it.
func (m *InsertManager) Rows(rows ...nodes.Row) *InsertManager {
	cols := sortedColumns(rows)

	m.Statement.Columns = make([]nodes.Node, len(cols))
	for i, c := range cols {
		m.Statement.Columns[i] = c
	}

	m.Statement.Values = nil
	for _, row := range rows {
		vals := make([]nodes.Node, len(cols))
		for i, c := range cols {
			v, _ := rowValue(row, c.ColumnName())
			vals[i] = nodes.Literal(v)
		}
		m.Statement.Values = append(m.Statement.Values, vals)
	}
	return m
}

// FromSelect sets a SELECT query as the source of rows for the given
// columns. The SELECT renders without enclosing parentheses.
func (m *InsertManager) FromSelect(sel nodes.Node, cols ...nodes.Node) *InsertManager {
	m.Statement.Select = nodes.Unwrap(sel)
	if len(cols) > 0 {
		m.Statement.Columns = cols
	}
	return m
}

// Returning sets the RETURNING clause columns.
func (m *InsertManager) Returning(cols ...nodes.Node) *InsertManager {
	m.Statement.Returning = cols
	return m
}

// Use registers a transformer plugin.
func (m *InsertManager) Use(t plugins.Transformer) *InsertManager {
	m.addTransformer(t)
	return m
}

// toSQLStatement applies transformers and generates SQL.
func (m *InsertManager) toSQLStatement(v nodes.Visitor) (string, error) {
	stmt := m.cloneStatement()
	for _, t := range m.transformers {
		var err error
		stmt, err = t.TransformInsert(stmt)
		if err != nil {
			return "", err
		}
	}
	return stmt.Accept(v), nil
}

// ToSQL applies transformers and generates SQL with parameters.
func (m *InsertManager) ToSQL(v nodes.Visitor) (string, []any, error) {
	return toSQLParams(v, m.toSQLStatement)
}

func (m *InsertManager) cloneStatement() *nodes.InsertStatement {
	columns := make([]nodes.Node, len(m.Statement.Columns))
	copy(columns, m.Statement.Columns)

	values := make([][]nodes.Node, len(m.Statement.Values))
	for i, row := range m.Statement.Values {
		r := make([]nodes.Node, len(row))
		copy(r, row)
		values[i] = r
	}

	returning := make([]nodes.Node, len(m.Statement.Returning))
	copy(returning, m.Statement.Returning)

	return &nodes.InsertStatement{
		Into:      m.Statement.Into,
		Columns:   columns,
		Values:    values,
		Select:    m.Statement.Select,
		Returning: returning,
	}
}
