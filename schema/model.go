package schema

import (
	"fmt"
	"sync"

	"github.com/bawdo/sqlbee/database"
	"github.com/bawdo/sqlbee/nodes"
)

// registry maps table names to defined models, enabling foreign keys
// declared with a table-name string to resolve lazily. Models are
// defined at program start and read-only afterwards.
var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Model)
)

func lookupModel(name string) (*Model, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	m, ok := registry[name]
	return m, ok
}

// CompositeIndex declares a multi-column index over declared field names.
type CompositeIndex struct {
	Fields []string
	Unique bool
}

// Model is the metadata for one declared table: its ordered fields,
// primary key, indexes, and (optionally) a bound database. Models are
// created once by Define and live for the program's duration.
type Model struct {
	name    string
	table   *nodes.Table
	fields  []*Field
	byName  map[string]*Field
	fks     []*ForeignKeyField
	pk      *Field
	indexes []CompositeIndex
	db      database.Database
}

// Define declares a model over the named table. Unless a field carries
// WithPrimaryKey, an implicit "id" INTEGER primary key is prepended.
// Field order is preserved and drives both DDL emission and the column
// order of mapping-valued payloads.
func Define(name string, defs ...FieldDef) *Model {
	m := &Model{
		name:   name,
		table:  nodes.NewTable(name),
		byName: make(map[string]*Field),
	}

	var fields []*Field
	for _, d := range defs {
		fields = append(fields, d.base())
	}

	hasPK := false
	for _, f := range fields {
		if f.primary {
			hasPK = true
			break
		}
	}
	if !hasPK {
		id := NewIntegerField("id", WithPrimaryKey())
		fields = append([]*Field{id}, fields...)
	}

	for i, f := range fields {
		if f.model != nil {
			panic(fmt.Sprintf("sqlbee: field %q is already bound to model %q", f.fieldName, f.model.name))
		}
		f.model = m
		f.Attribute.Relation = m.table
		f.Attribute.SortIdx = i + 1
		if _, dup := m.byName[f.fieldName]; dup {
			panic(fmt.Sprintf("sqlbee: duplicate field %q on model %q", f.fieldName, name))
		}
		m.byName[f.fieldName] = f
		if f.primary {
			m.pk = f
		}
	}
	m.fields = fields

	registerModel(name, m)

	for _, d := range defs {
		if fk, ok := d.(*ForeignKeyField); ok {
			m.fks = append(m.fks, fk)
			// Resolve eagerly when the target is already known; name
			// targets defined later resolve on first use.
			fk.tryResolve()
		}
	}

	return m
}

func registerModel(name string, m *Model) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("sqlbee: model %q is already defined", name))
	}
	registry[name] = m
}

// WithIndexes declares composite indexes over declared field names and
// returns the model for chaining.
func (m *Model) WithIndexes(indexes ...CompositeIndex) *Model {
	for _, idx := range indexes {
		for _, fname := range idx.Fields {
			if _, ok := m.byName[fname]; !ok {
				panic(fmt.Sprintf("sqlbee: composite index references unknown field %q on model %q", fname, m.name))
			}
		}
	}
	m.indexes = append(m.indexes, indexes...)
	return m
}

// Bind attaches a database to the model, enabling the executing
// variants (Create, CreateTable, Execute).
func (m *Model) Bind(db database.Database) *Model {
	m.db = db
	return m
}

// Database returns the bound database, or nil.
func (m *Model) Database() database.Database { return m.db }

// Name returns the table name.
func (m *Model) Name() string { return m.name }

// Table returns the table node backing the model. Field column
// references resolve against this node during rendering.
func (m *Model) Table() *nodes.Table { return m.table }

// F returns the named field. Unknown names panic: referencing a field
// that was never declared is a programming error.
func (m *Model) F(name string) *Field {
	f, ok := m.byName[name]
	if !ok {
		panic(fmt.Sprintf("sqlbee: model %q has no field %q", m.name, name))
	}
	return f
}

// Fields returns the model's fields in declaration order.
func (m *Model) Fields() []*Field {
	out := make([]*Field, len(m.fields))
	copy(out, m.fields)
	return out
}

// PK returns the primary key field.
func (m *Model) PK() *Field { return m.pk }

// ForeignKeys returns the model's foreign key fields.
func (m *Model) ForeignKeys() []*ForeignKeyField {
	out := make([]*ForeignKeyField, len(m.fks))
	copy(out, m.fks)
	return out
}

// Alias returns an aliased reference to the model's table, for
// self-joins and correlated queries.
func (m *Model) Alias(name string) *nodes.TableAlias {
	return m.table.Alias(name)
}

// Instance creates a loose row for this model. Instances act as
// foreign-key values and as expression operands, in both cases standing
// for their primary-key value.
func (m *Model) Instance(values map[string]any) *Instance {
	vals := make(map[string]any, len(values))
	for k, v := range values {
		if _, ok := m.byName[k]; !ok {
			panic(fmt.Sprintf("sqlbee: model %q has no field %q", m.name, k))
		}
		vals[k] = v
	}
	return &Instance{model: m, values: vals}
}

// Instance is one row of a model, held loosely as field-name/value
// pairs. It is not an identity-mapped persistent object; it exists to
// carry values in and out of statements.
type Instance struct {
	model  *Model
	values map[string]any
}

// Model returns the instance's model.
func (i *Instance) Model() *Model { return i.model }

// Get returns the value stored for the named field.
func (i *Instance) Get(field string) any {
	return i.values[i.model.F(field).fieldName]
}

// Set stores a value for the named field.
func (i *Instance) Set(field string, v any) {
	i.values[i.model.F(field).fieldName] = v
}

// PK returns the instance's primary-key value, or nil if unset.
func (i *Instance) PK() any {
	return i.values[i.model.pk.fieldName]
}

// Accept renders the instance as its primary-key value, so instances
// can appear directly in expressions (author = <instance>).
func (i *Instance) Accept(v nodes.Visitor) string {
	return nodes.Literal(i.model.pk.AdaptValue(i.PK())).Accept(v)
}
