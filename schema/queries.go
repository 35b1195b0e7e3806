package schema

import (
	"database/sql"
	"fmt"

	"github.com/bawdo/sqlbee/managers"
	"github.com/bawdo/sqlbee/nodes"
)

// Values is a mapping-valued statement payload keyed by model fields.
type Values map[*Field]any

// toRow adapts a Values payload into the managers' Row form, running
// each value through its field's adapter (foreign keys reduce model
// instances to their primary-key value).
func toRow(vals Values) nodes.Row {
	row := make(nodes.Row, len(vals))
	for f, v := range vals {
		if fk, ok := asForeignKey(f); ok {
			// Make sure the column name is final before it is emitted.
			fk.ensureResolved()
		}
		row[f] = f.AdaptValue(v)
	}
	return row
}

// ModelSelect is a SELECT builder bound to a model. It wraps the
// generic SelectManager and adds foreign-key join inference.
type ModelSelect struct {
	mgr   *managers.SelectManager
	model *Model
	last  *Model // join context: the most recently joined model
}

// Select starts a SELECT over the model. With no arguments, all
// declared fields are projected in declaration order.
func (m *Model) Select(projections ...nodes.Node) *ModelSelect {
	if len(projections) == 0 {
		projections = make([]nodes.Node, len(m.fields))
		for i, f := range m.fields {
			projections[i] = f
		}
	}
	mgr := managers.NewSelectManager(m.table).Select(projections...)
	return &ModelSelect{mgr: mgr, model: m, last: m}
}

// Join joins another model. With no explicit condition, the ON clause
// is inferred from the foreign key between the join context and the
// target, in either direction.
func (q *ModelSelect) Join(target *Model, on ...nodes.Node) *ModelSelect {
	return q.join(target, nodes.InnerJoin, on)
}

// OuterJoin left-outer-joins another model, with the same inference.
func (q *ModelSelect) OuterJoin(target *Model, on ...nodes.Node) *ModelSelect {
	return q.join(target, nodes.LeftOuterJoin, on)
}

func (q *ModelSelect) join(target *Model, jt nodes.JoinType, on []nodes.Node) *ModelSelect {
	var cond nodes.Node
	if len(on) > 0 {
		cond = on[0]
	} else {
		cond = inferJoin(q.last, target)
	}
	q.mgr.Join(target.table, jt).On(cond)
	q.last = target
	return q
}

// inferJoin finds the foreign key linking two models and builds the
// equality condition over it, with the foreign-key column on the left.
func inferJoin(a, b *Model) nodes.Node {
	for _, fk := range a.fks {
		if fk.tryResolve() && fk.refModel == b {
			return fk.Eq(b.pk)
		}
	}
	for _, fk := range b.fks {
		if fk.tryResolve() && fk.refModel == a {
			return fk.Eq(a.pk)
		}
	}
	panic(fmt.Sprintf("sqlbee: no foreign key between %q and %q", a.name, b.name))
}

// Where appends conditions, AND-combined at render time.
func (q *ModelSelect) Where(conditions ...nodes.Node) *ModelSelect {
	q.mgr.Where(conditions...)
	return q
}

// Group appends GROUP BY expressions.
func (q *ModelSelect) Group(columns ...nodes.Node) *ModelSelect {
	q.mgr.Group(columns...)
	return q
}

// Having appends HAVING conditions.
func (q *ModelSelect) Having(conditions ...nodes.Node) *ModelSelect {
	q.mgr.Having(conditions...)
	return q
}

// Order appends ORDER BY expressions.
func (q *ModelSelect) Order(orderings ...nodes.Node) *ModelSelect {
	q.mgr.Order(orderings...)
	return q
}

// Limit sets the LIMIT value.
func (q *ModelSelect) Limit(n int) *ModelSelect {
	q.mgr.Limit(n)
	return q
}

// Offset sets the OFFSET value.
func (q *ModelSelect) Offset(n int) *ModelSelect {
	q.mgr.Offset(n)
	return q
}

// Distinct enables the DISTINCT modifier.
func (q *ModelSelect) Distinct() *ModelSelect {
	q.mgr.Distinct()
	return q
}

// WithCTE attaches CTE nodes to the query's WITH clause.
func (q *ModelSelect) WithCTE(ctes ...*nodes.CTENode) *ModelSelect {
	q.mgr.WithCTE(ctes...)
	return q
}

// Manager exposes the underlying SelectManager for operations without a
// model-level wrapper.
func (q *ModelSelect) Manager() *managers.SelectManager { return q.mgr }

// ToSQL renders the query with the given visitor.
func (q *ModelSelect) ToSQL(v nodes.Visitor) (string, []any, error) {
	return q.mgr.ToSQL(v)
}

// Accept lets a model query nest as a subquery.
func (q *ModelSelect) Accept(v nodes.Visitor) string { return q.mgr.Accept(v) }

// QueryAST exposes the underlying SelectCore.
func (q *ModelSelect) QueryAST() nodes.Node { return q.mgr.QueryAST() }

// Query renders and executes the SELECT on the bound database.
func (q *ModelSelect) Query() (*sql.Rows, error) {
	db := q.model.db
	if db == nil {
		return nil, fmt.Errorf("sqlbee: model %q has no bound database", q.model.name)
	}
	sqlStr, params, err := q.ToSQL(db.Visitor())
	if err != nil {
		return nil, err
	}
	return db.QuerySQL(sqlStr, params)
}

// ModelInsert is an INSERT builder bound to a model.
type ModelInsert struct {
	mgr   *managers.InsertManager
	model *Model
}

// Insert builds a single-row INSERT from a field/value mapping.
// Columns emit in field declaration order.
func (m *Model) Insert(row Values) *ModelInsert {
	mgr := managers.NewInsertManager(m.table).Row(toRow(row))
	return &ModelInsert{mgr: mgr, model: m}
}

// InsertMany builds a multi-row INSERT. The column list is the sorted
// union of all row keys; omitted columns render NULL.
func (m *Model) InsertMany(rows ...Values) *ModelInsert {
	nrows := make([]nodes.Row, len(rows))
	for i, r := range rows {
		nrows[i] = toRow(r)
	}
	mgr := managers.NewInsertManager(m.table).Rows(nrows...)
	return &ModelInsert{mgr: mgr, model: m}
}

// InsertFrom builds INSERT INTO ... SELECT over the given columns.
func (m *Model) InsertFrom(sel nodes.Node, cols ...nodes.Node) *ModelInsert {
	mgr := managers.NewInsertManager(m.table).FromSelect(sel, cols...)
	return &ModelInsert{mgr: mgr, model: m}
}

// Manager exposes the underlying InsertManager.
func (q *ModelInsert) Manager() *managers.InsertManager { return q.mgr }

// ToSQL renders the statement with the given visitor.
func (q *ModelInsert) ToSQL(v nodes.Visitor) (string, []any, error) {
	return q.mgr.ToSQL(v)
}

// Execute renders and executes the INSERT on the bound database.
func (q *ModelInsert) Execute() (sql.Result, error) {
	return executeOn(q.model, q.mgr.ToSQL)
}

// ModelUpdate is an UPDATE builder bound to a model.
type ModelUpdate struct {
	mgr   *managers.UpdateManager
	model *Model
}

// Update builds an UPDATE from a field/value mapping. Assignments emit
// in field declaration order; values may be expressions over the same
// column (counter = counter + 1).
func (m *Model) Update(row Values) *ModelUpdate {
	mgr := managers.NewUpdateManager(m.table).SetMap(toRow(row))
	return &ModelUpdate{mgr: mgr, model: m}
}

// Where appends conditions, AND-combined at render time.
func (q *ModelUpdate) Where(conditions ...nodes.Node) *ModelUpdate {
	q.mgr.Where(conditions...)
	return q
}

// Manager exposes the underlying UpdateManager.
func (q *ModelUpdate) Manager() *managers.UpdateManager { return q.mgr }

// ToSQL renders the statement with the given visitor.
func (q *ModelUpdate) ToSQL(v nodes.Visitor) (string, []any, error) {
	return q.mgr.ToSQL(v)
}

// Execute renders and executes the UPDATE on the bound database.
func (q *ModelUpdate) Execute() (sql.Result, error) {
	return executeOn(q.model, q.mgr.ToSQL)
}

// ModelDelete is a DELETE builder bound to a model.
type ModelDelete struct {
	mgr   *managers.DeleteManager
	model *Model
}

// Delete builds a DELETE over the model's table.
func (m *Model) Delete() *ModelDelete {
	return &ModelDelete{mgr: managers.NewDeleteManager(m.table), model: m}
}

// Where appends conditions, AND-combined at render time.
func (q *ModelDelete) Where(conditions ...nodes.Node) *ModelDelete {
	q.mgr.Where(conditions...)
	return q
}

// Order appends ORDER BY expressions.
func (q *ModelDelete) Order(orderings ...nodes.Node) *ModelDelete {
	q.mgr.Order(orderings...)
	return q
}

// Limit sets the LIMIT value.
func (q *ModelDelete) Limit(n int) *ModelDelete {
	q.mgr.Limit(n)
	return q
}

// Manager exposes the underlying DeleteManager.
func (q *ModelDelete) Manager() *managers.DeleteManager { return q.mgr }

// ToSQL renders the statement with the given visitor.
func (q *ModelDelete) ToSQL(v nodes.Visitor) (string, []any, error) {
	return q.mgr.ToSQL(v)
}

// Execute renders and executes the DELETE on the bound database.
func (q *ModelDelete) Execute() (sql.Result, error) {
	return executeOn(q.model, q.mgr.ToSQL)
}

func executeOn(m *Model, toSQL func(nodes.Visitor) (string, []any, error)) (sql.Result, error) {
	if m.db == nil {
		return nil, fmt.Errorf("sqlbee: model %q has no bound database", m.name)
	}
	sqlStr, params, err := toSQL(m.db.Visitor())
	if err != nil {
		return nil, err
	}
	return m.db.ExecuteSQL(sqlStr, params)
}

// Create inserts one row and returns an instance carrying the given
// values plus the generated primary key (via the driver's last-insert
// id; drivers without that facility surface their own error).
func (m *Model) Create(row Values) (*Instance, error) {
	res, err := m.Insert(row).Execute()
	if err != nil {
		return nil, err
	}

	values := make(map[string]any, len(row)+1)
	for f, v := range row {
		values[f.fieldName] = v
	}
	if _, given := values[m.pk.fieldName]; !given {
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("sqlbee: create %q: %w", m.name, err)
		}
		values[m.pk.fieldName] = id
	}
	return &Instance{model: m, values: values}, nil
}
