package nodes

import "fmt"

// Table represents a SQL table reference. A table may optionally declare
// its column set; when declared, Col rejects names outside that set.
type Table struct {
	Name    string
	Columns []string // optional declared column set
}

// NewTable creates a new table reference. Columns are optional; when
// given, column access is validated against them.
func NewTable(name string, columns ...string) *Table {
	return &Table{Name: name, Columns: columns}
}

func (t *Table) Accept(v Visitor) string { return v.VisitTable(t) }

// Col creates an Attribute (column reference) bound to this table.
// If the table declared its columns, an unknown name panics.
func (t *Table) Col(name string) *Attribute {
	t.checkColumn(name)
	return NewAttribute(t, name)
}

func (t *Table) checkColumn(name string) {
	if len(t.Columns) == 0 {
		return
	}
	for _, c := range t.Columns {
		if c == name {
			return
		}
	}
	panic(fmt.Sprintf("sqlbee: table %q has no declared column %q", t.Name, name))
}

// Alias creates an aliased reference to this table. The alias is
// preferred over an auto-generated one during rendering.
func (t *Table) Alias(name string) *TableAlias {
	return &TableAlias{Relation: t, AliasName: name}
}

// Star creates a qualified star (table.*) for this table.
func (t *Table) Star() *StarNode {
	return &StarNode{Relation: t}
}

// TableAlias represents an aliased reference to a table or subquery.
type TableAlias struct {
	Relation  Node // *Table, *SelectCore, or any Node
	AliasName string
}

func (ta *TableAlias) Accept(v Visitor) string { return v.VisitTableAlias(ta) }

// Col creates an Attribute (column reference) bound to this table alias.
// Declared columns of the underlying table still apply.
func (ta *TableAlias) Col(name string) *Attribute {
	if tbl, ok := ta.Relation.(*Table); ok {
		tbl.checkColumn(name)
	}
	return NewAttribute(ta, name)
}

// RelationName returns the name a relation node is known by outside of
// any alias scope: the table name, the user alias, or the CTE name.
func RelationName(n Node) string {
	switch r := n.(type) {
	case *Table:
		return r.Name
	case *TableAlias:
		return r.AliasName
	case *CTENode:
		return r.Name
	default:
		return ""
	}
}

// TableSourceName returns the underlying table name from a relation node.
// For a TableAlias it looks through to the underlying Table if one exists,
// falling back to the alias name.
func TableSourceName(n Node) string {
	switch r := n.(type) {
	case *Table:
		return r.Name
	case *TableAlias:
		if tbl, ok := r.Relation.(*Table); ok {
			return tbl.Name
		}
		return r.AliasName
	case *CTENode:
		return r.Name
	default:
		return ""
	}
}
