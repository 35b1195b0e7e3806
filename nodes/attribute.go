package nodes

// Attribute represents a column reference bound to a table, table alias,
// or CTE. SortIdx orders mapping-valued payload columns: it is zero for
// plain table columns (which then sort by name) and carries the
// declaration index for schema-layer fields.
type Attribute struct {
	Predications
	Arithmetics
	Combinable
	Name     string
	Relation Node // *Table, *TableAlias, or *CTENode
	SortIdx  int
}

// NewAttribute creates an Attribute with Predications, Arithmetics and
// Combinable properly initialized to reference the new Attribute as self.
func NewAttribute(relation Node, name string) *Attribute {
	a := &Attribute{Name: name, Relation: relation}
	a.Predications.self = a
	a.Arithmetics.self = a
	a.Combinable.self = a
	return a
}

func (a *Attribute) Accept(v Visitor) string { return v.VisitAttribute(a) }

// ColumnName returns the column name used in INSERT/UPDATE column lists.
func (a *Attribute) ColumnName() string { return a.Name }

// Source returns the relation this column belongs to.
func (a *Attribute) Source() Node { return a.Relation }

// SortKey orders mapping payload columns: declaration index first, then
// column name.
func (a *Attribute) SortKey() (int, string) { return a.SortIdx, a.Name }
