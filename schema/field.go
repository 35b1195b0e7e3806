// Package schema maps declarative table definitions onto the expression
// algebra and the DDL emitted for table creation. A model is defined
// once, at program start; its fields then act as column references in
// queries and carry enough type information to emit CREATE TABLE.
package schema

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bawdo/sqlbee/nodes"
)

// Field is a typed column descriptor. It embeds the column node bound
// to its model's table, so a field participates directly in expressions:
//
//	Person.F("last").Eq("Leifer")
type Field struct {
	*nodes.Attribute

	fieldName   string // declared name (index names use this)
	ddlType     string
	null        bool
	index       bool
	unique      bool
	primary     bool
	hasDefault  bool
	defaultVal  any
	check       string
	colOverride bool
	adapt       func(any) any
	model       *Model
}

// FieldDef is satisfied by every field constructor result, including
// foreign keys.
type FieldDef interface {
	base() *Field
}

func (f *Field) base() *Field { return f }

// FieldName returns the declared field name (not necessarily the column
// name; a foreign key stores its value in "<name>_id").
func (f *Field) FieldName() string { return f.fieldName }

// DDLType returns the column's DDL type token.
func (f *Field) DDLType() string { return f.ddlType }

// IsPrimaryKey reports whether the field is the model's primary key.
func (f *Field) IsPrimaryKey() bool { return f.primary }

// Model returns the model this field belongs to.
func (f *Field) Model() *Model { return f.model }

// AdaptValue coerces a Go value into its bind representation for this
// field. Model instances assigned to foreign keys reduce to their
// primary-key value; decimal and uuid values reduce to strings.
func (f *Field) AdaptValue(v any) any {
	if f.adapt == nil {
		return v
	}
	return f.adapt(v)
}

func newField(name, ddlType string, opts []FieldOption) *Field {
	f := &Field{fieldName: name, ddlType: ddlType}
	f.Attribute = nodes.NewAttribute(nil, name)
	for _, o := range opts {
		o(f)
	}
	return f
}

// FieldOption configures a field at construction time.
type FieldOption func(*Field)

// WithNull allows NULL values (columns are NOT NULL by default).
func WithNull() FieldOption {
	return func(f *Field) { f.null = true }
}

// WithIndex creates a non-unique index over the field.
func WithIndex() FieldOption {
	return func(f *Field) { f.index = true }
}

// WithUnique creates a unique index over the field.
func WithUnique() FieldOption {
	return func(f *Field) { f.unique = true }
}

// WithPrimaryKey marks the field as the model's primary key, replacing
// the implicit integer id.
func WithPrimaryKey() FieldOption {
	return func(f *Field) { f.primary = true }
}

// WithDefault sets the column's DDL default value.
func WithDefault(v any) FieldOption {
	return func(f *Field) {
		f.hasDefault = true
		f.defaultVal = v
	}
}

// WithColumnName overrides the column name derived from the field name.
func WithColumnName(name string) FieldOption {
	return func(f *Field) {
		f.Attribute.Name = name
		f.colOverride = true
	}
}

// WithCheck attaches a CHECK constraint expression to the column.
func WithCheck(expr string) FieldOption {
	return func(f *Field) { f.check = expr }
}

// WithMaxLength sets the VARCHAR length of a char field.
func WithMaxLength(n int) FieldOption {
	return func(f *Field) { f.ddlType = fmt.Sprintf("VARCHAR(%d)", n) }
}

// WithDecimalSize sets the precision and scale of a decimal field.
func WithDecimalSize(maxDigits, places int) FieldOption {
	return func(f *Field) { f.ddlType = fmt.Sprintf("DECIMAL(%d, %d)", maxDigits, places) }
}

// NewIntegerField declares an INTEGER column.
func NewIntegerField(name string, opts ...FieldOption) *Field {
	return newField(name, "INTEGER", opts)
}

// NewBigIntegerField declares a BIGINT column.
func NewBigIntegerField(name string, opts ...FieldOption) *Field {
	return newField(name, "BIGINT", opts)
}

// NewCharField declares a VARCHAR(255) column; use WithMaxLength to
// change the length.
func NewCharField(name string, opts ...FieldOption) *Field {
	return newField(name, "VARCHAR(255)", opts)
}

// NewTextField declares a TEXT column.
func NewTextField(name string, opts ...FieldOption) *Field {
	return newField(name, "TEXT", opts)
}

// NewDateField declares a DATE column.
func NewDateField(name string, opts ...FieldOption) *Field {
	return newField(name, "DATE", opts)
}

// NewDateTimeField declares a DATETIME column.
func NewDateTimeField(name string, opts ...FieldOption) *Field {
	return newField(name, "DATETIME", opts)
}

// NewTimestampField declares a TIMESTAMP column.
func NewTimestampField(name string, opts ...FieldOption) *Field {
	return newField(name, "TIMESTAMP", opts)
}

// NewBooleanField declares a boolean column, stored as INTEGER.
func NewBooleanField(name string, opts ...FieldOption) *Field {
	return newField(name, "INTEGER", opts)
}

// NewFloatField declares a REAL column.
func NewFloatField(name string, opts ...FieldOption) *Field {
	return newField(name, "REAL", opts)
}

// NewDecimalField declares a DECIMAL(10, 5) column; use WithDecimalSize
// to change precision and scale. decimal.Decimal values bind as strings
// so drivers without native decimal support round-trip losslessly.
func NewDecimalField(name string, opts ...FieldOption) *Field {
	f := newField(name, "DECIMAL(10, 5)", opts)
	f.adapt = func(v any) any {
		if d, ok := v.(decimal.Decimal); ok {
			return d.String()
		}
		return v
	}
	return f
}

// NewUUIDField declares a TEXT column binding uuid.UUID values as
// their canonical string form.
func NewUUIDField(name string, opts ...FieldOption) *Field {
	f := newField(name, "TEXT", opts)
	f.adapt = func(v any) any {
		if u, ok := v.(uuid.UUID); ok {
			return u.String()
		}
		return v
	}
	return f
}

// selfRef is the sentinel type behind Self.
type selfRef struct{}

// Self marks a foreign key as referencing its own model.
var Self selfRef

// ForeignKeyField is a field holding a reference to another model's
// primary key. The target may be a *Model, Self, or a table-name string
// for models defined later; resolution is deferred until the target is
// needed (DDL emission, join inference, value adaptation).
type ForeignKeyField struct {
	Field

	target   any
	backref  string
	onDelete string

	refModel *Model
	refField *Field
}

// NewForeignKeyField declares a foreign key. The column name is
// "<name>_id", or "<name>_<pk>" when the target's primary key is not
// named id; the DDL type follows the target primary key.
func NewForeignKeyField(name string, target any, opts ...FieldOption) *ForeignKeyField {
	fk := &ForeignKeyField{target: target}
	fk.Field = *newField(name, "", opts)
	fk.Field.adapt = func(v any) any {
		if inst, ok := v.(*Instance); ok {
			return inst.PK()
		}
		return v
	}
	return fk
}

// WithBackref records a backref name on the field. The name is stored
// only; no accessor is added to the target model.
func (fk *ForeignKeyField) WithBackref(name string) *ForeignKeyField {
	fk.backref = name
	return fk
}

// WithOnDelete sets the ON DELETE action emitted with the constraint
// (e.g. "CASCADE", "SET NULL").
func (fk *ForeignKeyField) WithOnDelete(action string) *ForeignKeyField {
	fk.onDelete = action
	return fk
}

// RefModel returns the resolved target model.
func (fk *ForeignKeyField) RefModel() *Model {
	fk.ensureResolved()
	return fk.refModel
}

// RefField returns the resolved target primary key.
func (fk *ForeignKeyField) RefField() *Field {
	fk.ensureResolved()
	return fk.refField
}

// tryResolve resolves the target if it is available, returning whether
// resolution has happened.
func (fk *ForeignKeyField) tryResolve() bool {
	if fk.refModel != nil {
		return true
	}
	switch t := fk.target.(type) {
	case selfRef:
		fk.bindTarget(fk.model)
	case *Model:
		fk.bindTarget(t)
	case string:
		m, ok := lookupModel(t)
		if !ok {
			return false
		}
		fk.bindTarget(m)
	default:
		panic(fmt.Sprintf("sqlbee: invalid foreign key target %T for field %q", t, fk.fieldName))
	}
	return true
}

func (fk *ForeignKeyField) ensureResolved() {
	if !fk.tryResolve() {
		panic(fmt.Sprintf("sqlbee: foreign key %q target %v is not defined", fk.fieldName, fk.target))
	}
}

func (fk *ForeignKeyField) bindTarget(m *Model) {
	if m == nil {
		panic(fmt.Sprintf("sqlbee: foreign key %q resolved to no model", fk.fieldName))
	}
	fk.refModel = m
	fk.refField = m.pk
	if !fk.colOverride {
		if fk.refField.fieldName == "id" {
			fk.Attribute.Name = fk.fieldName + "_id"
		} else {
			fk.Attribute.Name = fk.fieldName + "_" + fk.refField.fieldName
		}
	}
	fk.ddlType = fk.refField.ddlType
}
