package managers

import (
	"sort"

	"github.com/bawdo/sqlbee/nodes"
	"github.com/bawdo/sqlbee/plugins"
)

// treeManager is the shared base for all manager types. It holds the
// transformer pipeline common to Select, Insert, Update, and Delete managers.
type treeManager struct {
	transformers []plugins.Transformer
}

// addTransformer appends a transformer plugin to the pipeline.
func (tm *treeManager) addTransformer(t plugins.Transformer) {
	tm.transformers = append(tm.transformers, t)
}

// Transformers returns the registered transformer pipeline.
func (tm *treeManager) Transformers() []plugins.Transformer {
	return tm.transformers
}

// toSQLParams resets a parameterizer (if present), calls the provided
// generate function, and returns SQL + params. Render-time panics
// carrying a *nodes.RenderError are recovered and returned as errors.
func toSQLParams(v nodes.Visitor, generate func(nodes.Visitor) (string, error)) (sqlStr string, params []any, err error) {
	p, _ := v.(nodes.Parameterizer)
	if p != nil {
		p.Reset()
	}

	defer func() {
		if r := recover(); r != nil {
			re, ok := r.(*nodes.RenderError)
			if !ok {
				panic(r)
			}
			sqlStr, params, err = "", nil, re
		}
	}()

	sqlStr, err = generate(v)
	if err != nil {
		return "", nil, err
	}

	if p != nil {
		return sqlStr, p.Params(), nil
	}
	return sqlStr, nil, nil
}

// sortedColumns returns the unique columns of the given rows, ordered by
// SortKey (declaration index, then column name). Uniqueness is by
// column name, keeping the first node encountered for each.
func sortedColumns(rows []nodes.Row) []nodes.Column {
	seen := make(map[string]nodes.Column)
	var cols []nodes.Column
	for _, row := range rows {
		for c := range row {
			if _, ok := seen[c.ColumnName()]; !ok {
				seen[c.ColumnName()] = c
				cols = append(cols, c)
			}
		}
	}
	sort.Slice(cols, func(i, j int) bool {
		ii, in := cols[i].SortKey()
		ji, jn := cols[j].SortKey()
		if ii != ji {
			return ii < ji
		}
		return in < jn
	})
	return cols
}

// rowValue looks up the value for the named column in a row, matching by
// column name so that distinct node instances referencing the same
// column interoperate.
func rowValue(row nodes.Row, name string) (any, bool) {
	for c, v := range row {
		if c.ColumnName() == name {
			return v, true
		}
	}
	return nil, false
}
