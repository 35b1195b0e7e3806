package schema

import (
	"fmt"
	"strings"

	"github.com/bawdo/sqlbee/internal/quoting"
)

// SchemaManager emits and executes DDL for one model. DDL always uses
// double-quoted identifiers; dialect variation is confined to query
// rendering.
type SchemaManager struct {
	model *Model
}

// Schema returns the DDL manager for the model.
func (m *Model) Schema() *SchemaManager {
	return &SchemaManager{model: m}
}

// ddlFields returns fields in DDL emission order: primary key first,
// then the rest in declaration order.
func (s *SchemaManager) ddlFields() []*Field {
	m := s.model
	out := make([]*Field, 0, len(m.fields))
	if m.pk != nil {
		out = append(out, m.pk)
	}
	for _, f := range m.fields {
		if f != m.pk {
			out = append(out, f)
		}
	}
	return out
}

// CreateTableSQL returns the CREATE TABLE statement for the model.
func (s *SchemaManager) CreateTableSQL(ifNotExists bool) string {
	m := s.model
	var parts []string

	for _, f := range m.fields {
		if fk, ok := asForeignKey(f); ok {
			fk.ensureResolved()
		}
	}

	for _, f := range s.ddlFields() {
		parts = append(parts, columnDefinition(f))
	}
	for _, f := range s.ddlFields() {
		if fk, ok := asForeignKey(f); ok {
			parts = append(parts, foreignKeyClause(fk))
		}
	}

	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	if ifNotExists {
		sb.WriteString("IF NOT EXISTS ")
	}
	sb.WriteString(quoting.DoubleQuote(m.name))
	sb.WriteString(" (")
	sb.WriteString(strings.Join(parts, ", "))
	sb.WriteString(")")
	return sb.String()
}

func asForeignKey(f *Field) (*ForeignKeyField, bool) {
	for _, fk := range f.model.fks {
		if &fk.Field == f {
			return fk, true
		}
	}
	return nil, false
}

func columnDefinition(f *Field) string {
	var sb strings.Builder
	sb.WriteString(quoting.DoubleQuote(f.ColumnName()))
	sb.WriteString(" ")
	sb.WriteString(f.ddlType)
	if !f.null {
		sb.WriteString(" NOT NULL")
	}
	if f.hasDefault {
		sb.WriteString(" DEFAULT ")
		sb.WriteString(ddlLiteral(f.defaultVal))
	}
	if f.primary {
		sb.WriteString(" PRIMARY KEY")
	}
	if f.check != "" {
		sb.WriteString(" CHECK (")
		sb.WriteString(f.check)
		sb.WriteString(")")
	}
	return sb.String()
}

func foreignKeyClause(fk *ForeignKeyField) string {
	var sb strings.Builder
	sb.WriteString("FOREIGN KEY (")
	sb.WriteString(quoting.DoubleQuote(fk.ColumnName()))
	sb.WriteString(") REFERENCES ")
	sb.WriteString(quoting.DoubleQuote(fk.refModel.name))
	sb.WriteString(" (")
	sb.WriteString(quoting.DoubleQuote(fk.refField.ColumnName()))
	sb.WriteString(")")
	if fk.onDelete != "" {
		sb.WriteString(" ON DELETE ")
		sb.WriteString(fk.onDelete)
	}
	return sb.String()
}

func ddlLiteral(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + quoting.EscapeString(val) + "'"
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprintf("%v", val)
	}
}

// CreateIndexSQLs returns the CREATE INDEX statements for the model:
// one per indexed field (foreign keys index automatically), then one
// per composite index. Index names join the table name with the
// declared field names.
func (s *SchemaManager) CreateIndexSQLs(ifNotExists bool) []string {
	m := s.model
	var out []string

	for _, f := range m.fields {
		fk, isFK := asForeignKey(f)
		if isFK {
			fk.ensureResolved()
		}
		if !f.index && !f.unique && !isFK {
			continue
		}
		out = append(out, indexSQL(m.name, f.unique, ifNotExists,
			[]string{f.fieldName}, []string{f.ColumnName()}))
	}

	for _, idx := range m.indexes {
		cols := make([]string, len(idx.Fields))
		for i, fname := range idx.Fields {
			cols[i] = m.F(fname).ColumnName()
		}
		out = append(out, indexSQL(m.name, idx.Unique, ifNotExists, idx.Fields, cols))
	}

	return out
}

func indexSQL(table string, unique, ifNotExists bool, fieldNames, colNames []string) string {
	var sb strings.Builder
	sb.WriteString("CREATE ")
	if unique {
		sb.WriteString("UNIQUE ")
	}
	sb.WriteString("INDEX ")
	if ifNotExists {
		sb.WriteString("IF NOT EXISTS ")
	}
	sb.WriteString(quoting.DoubleQuote(table + "_" + strings.Join(fieldNames, "_")))
	sb.WriteString(" ON ")
	sb.WriteString(quoting.DoubleQuote(table))
	sb.WriteString(" (")
	for i, c := range colNames {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(quoting.DoubleQuote(c))
	}
	sb.WriteString(")")
	return sb.String()
}

// DropTableSQL returns the DROP TABLE statement for the model.
func (s *SchemaManager) DropTableSQL(ifExists bool) string {
	if ifExists {
		return "DROP TABLE IF EXISTS " + quoting.DoubleQuote(s.model.name)
	}
	return "DROP TABLE " + quoting.DoubleQuote(s.model.name)
}

// CreateTable creates the table and its indexes on the bound database.
func (s *SchemaManager) CreateTable() error {
	db := s.model.db
	if db == nil {
		return fmt.Errorf("sqlbee: model %q has no bound database", s.model.name)
	}
	if _, err := db.ExecuteSQL(s.CreateTableSQL(true), nil); err != nil {
		return fmt.Errorf("create table %q: %w", s.model.name, err)
	}
	for _, stmt := range s.CreateIndexSQLs(true) {
		if _, err := db.ExecuteSQL(stmt, nil); err != nil {
			return fmt.Errorf("create index for %q: %w", s.model.name, err)
		}
	}
	return nil
}

// DropTable drops the table on the bound database.
func (s *SchemaManager) DropTable() error {
	db := s.model.db
	if db == nil {
		return fmt.Errorf("sqlbee: model %q has no bound database", s.model.name)
	}
	if _, err := db.ExecuteSQL(s.DropTableSQL(true), nil); err != nil {
		return fmt.Errorf("drop table %q: %w", s.model.name, err)
	}
	return nil
}
