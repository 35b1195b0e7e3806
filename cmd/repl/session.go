package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/bawdo/sqlbee/managers"
	"github.com/bawdo/sqlbee/nodes"
	"github.com/bawdo/sqlbee/plugins/softdelete"
	"github.com/bawdo/sqlbee/visitors"
)

// Session owns the connection and translates command lines into
// builder calls.
type Session struct {
	conn       *dbConn
	softDelete *softdelete.SoftDelete
}

// NewSession connects to the database and prepares a session.
func NewSession(engine, dsn string) (*Session, error) {
	conn, err := connect(engine, dsn)
	if err != nil {
		return nil, err
	}
	return &Session{conn: conn}, nil
}

// Close releases the session's connection.
func (s *Session) Close() {
	_ = s.conn.close()
}

const helpText = `Commands:
  tables                              list tables
  columns <table>                     list columns of a table
  select <t> [cols] [join <t2> on a.x = b.y] [where ...] [group ...]
           [order col [desc]] [limit N] [offset N]
  insert <t> col = val, ...           insert one row
  update <t> set col = val, ... [where ...]
  delete <t> [where ...] [limit N]
  show <select ...>                   print the generated SQL and params
  dot <select ...>                    print the query AST as Graphviz DOT
  sql <raw statement>                 run raw SQL
  plugin softdelete [column]          filter soft-deleted rows from selects
  plugin off                          disable plugins
  exit
Conditions: col op value with op in = != > >= < <= like;
values are numbers, 'strings', true, false, or null.
`

// Execute runs one command line and returns its printable output.
// Construction panics (unknown columns, malformed expressions) are
// recovered into errors so a typo never kills the shell.
func (s *Session) Execute(line string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("%v", r)
		}
	}()
	return s.execute(line)
}

func (s *Session) execute(line string) (string, error) {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "help":
		return helpText, nil
	case "tables":
		tables := s.conn.schemaTables()
		if len(tables) == 0 {
			return "(no tables)\n", nil
		}
		return strings.Join(tables, "\n") + "\n", nil
	case "columns":
		if rest == "" {
			return "", fmt.Errorf("usage: columns <table>")
		}
		cols := s.conn.schemaColumns(rest)
		if len(cols) == 0 {
			return "", fmt.Errorf("no columns found for %q", rest)
		}
		return strings.Join(cols, "\n") + "\n", nil
	case "select":
		return s.runSelect(rest)
	case "insert":
		return s.runWrite(parseInsert, rest)
	case "update":
		return s.runWrite(parseUpdate, rest)
	case "delete":
		return s.runWrite(parseDelete, rest)
	case "show":
		return s.runShow(rest)
	case "dot":
		return s.runDot(rest)
	case "sql":
		return s.runRaw(rest)
	case "plugin":
		return s.runPlugin(rest)
	default:
		return "", fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
}

// table builds a table node for a name, declaring its columns when
// introspection knows them so typos fail at build time.
func (s *Session) table(name string) *nodes.Table {
	return nodes.NewTable(name, s.conn.schemaColumns(name)...)
}

// resolveCol turns a parsed column reference into an attribute, using
// the command's base table for unqualified names.
func resolveCol(tables map[string]*nodes.Table, base *nodes.Table, ref colref) (*nodes.Attribute, error) {
	t := base
	if ref.table != "" {
		var ok bool
		if t, ok = tables[ref.table]; !ok {
			return nil, fmt.Errorf("table %q is not part of this query", ref.table)
		}
	}
	return t.Col(ref.name), nil
}

func buildCondition(tables map[string]*nodes.Table, base *nodes.Table, c condition) (nodes.Node, error) {
	attr, err := resolveCol(tables, base, c.col)
	if err != nil {
		return nil, err
	}
	switch c.op {
	case "=":
		return attr.Eq(c.val), nil
	case "!=":
		return attr.NotEq(c.val), nil
	case ">":
		return attr.Gt(c.val), nil
	case ">=":
		return attr.GtEq(c.val), nil
	case "<":
		return attr.Lt(c.val), nil
	case "<=":
		return attr.LtEq(c.val), nil
	case "like":
		return attr.Like(c.val), nil
	default:
		return nil, fmt.Errorf("unsupported operator %q", c.op)
	}
}

// buildSelect translates a parsed select command into a SelectManager.
func (s *Session) buildSelect(cmd *selectCmd) (*managers.SelectManager, error) {
	base := s.table(cmd.table)
	tables := map[string]*nodes.Table{cmd.table: base}

	m := managers.NewSelectManager(base)

	for _, j := range cmd.joins {
		jt := s.table(j.table)
		tables[j.table] = jt
		left, err := resolveCol(tables, base, j.left)
		if err != nil {
			return nil, err
		}
		right, err := resolveCol(tables, base, j.right)
		if err != nil {
			return nil, err
		}
		m.Join(jt).On(left.Eq(right))
	}

	var projections []nodes.Node
	for _, c := range cmd.cols {
		attr, err := resolveCol(tables, base, c)
		if err != nil {
			return nil, err
		}
		projections = append(projections, attr)
	}
	m.Select(projections...)

	for _, c := range cmd.wheres {
		cond, err := buildCondition(tables, base, c)
		if err != nil {
			return nil, err
		}
		m.Where(cond)
	}
	for _, g := range cmd.groups {
		attr, err := resolveCol(tables, base, g)
		if err != nil {
			return nil, err
		}
		m.Group(attr)
	}
	for _, o := range cmd.orders {
		attr, err := resolveCol(tables, base, o.col)
		if err != nil {
			return nil, err
		}
		if o.desc {
			m.Order(attr.Desc())
		} else {
			m.Order(attr)
		}
	}
	if cmd.limit != nil {
		m.Limit(*cmd.limit)
	}
	if cmd.offset != nil {
		m.Offset(*cmd.offset)
	}
	if s.softDelete != nil {
		m.Use(s.softDelete)
	}
	return m, nil
}

func (s *Session) runSelect(rest string) (string, error) {
	cmd, err := parseSelect(rest)
	if err != nil {
		return "", err
	}
	m, err := s.buildSelect(cmd)
	if err != nil {
		return "", err
	}
	sqlStr, params, err := m.ToSQL(s.conn.db.Visitor())
	if err != nil {
		return "", err
	}
	return s.conn.execQuery(sqlStr, params)
}

type writeParser func(string) (*writeCmd, error)

func (s *Session) runWrite(parse writeParser, rest string) (string, error) {
	cmd, err := parse(rest)
	if err != nil {
		return "", err
	}

	base := s.table(cmd.table)
	tables := map[string]*nodes.Table{cmd.table: base}

	var toSQL func(nodes.Visitor) (string, []any, error)
	switch cmd.kind {
	case "insert":
		row := make(nodes.Row, len(cmd.sets))
		for _, a := range cmd.sets {
			row[base.Col(a.col)] = a.val
		}
		toSQL = managers.NewInsertManager(base).Row(row).ToSQL
	case "update":
		m := managers.NewUpdateManager(base)
		for _, a := range cmd.sets {
			m.Set(base.Col(a.col), a.val)
		}
		for _, c := range cmd.wheres {
			cond, err := buildCondition(tables, base, c)
			if err != nil {
				return "", err
			}
			m.Where(cond)
		}
		toSQL = m.ToSQL
	case "delete":
		m := managers.NewDeleteManager(base)
		for _, c := range cmd.wheres {
			cond, err := buildCondition(tables, base, c)
			if err != nil {
				return "", err
			}
			m.Where(cond)
		}
		if cmd.limit != nil {
			m.Limit(*cmd.limit)
		}
		toSQL = m.ToSQL
	}

	sqlStr, params, err := toSQL(s.conn.db.Visitor())
	if err != nil {
		return "", err
	}
	res, err := s.conn.db.ExecuteSQL(sqlStr, params)
	if err != nil {
		return "", err
	}
	s.conn.reloadTables()
	if n, err := res.RowsAffected(); err == nil {
		return fmt.Sprintf("(%d rows affected)\n", n), nil
	}
	return "ok\n", nil
}

// runShow prints the SQL a select command would run, without running it.
func (s *Session) runShow(rest string) (string, error) {
	verb, body, _ := strings.Cut(rest, " ")
	if !strings.EqualFold(verb, "select") {
		return "", fmt.Errorf("usage: show select ...")
	}
	cmd, err := parseSelect(strings.TrimSpace(body))
	if err != nil {
		return "", err
	}
	m, err := s.buildSelect(cmd)
	if err != nil {
		return "", err
	}
	sqlStr, params, err := m.ToSQL(s.conn.db.Visitor())
	if err != nil {
		return "", err
	}
	out := visitors.Format(sqlStr) + "\n"
	if len(params) > 0 {
		out += color.YellowString("params: %v", params) + "\n"
	}
	return out, nil
}

// runDot prints a select command's AST as Graphviz DOT.
func (s *Session) runDot(rest string) (string, error) {
	verb, body, _ := strings.Cut(rest, " ")
	if !strings.EqualFold(verb, "select") {
		return "", fmt.Errorf("usage: dot select ...")
	}
	cmd, err := parseSelect(strings.TrimSpace(body))
	if err != nil {
		return "", err
	}
	m, err := s.buildSelect(cmd)
	if err != nil {
		return "", err
	}
	dv := visitors.NewDotVisitor()
	m.Core.Accept(dv)
	return dv.ToDot(), nil
}

func (s *Session) runRaw(rest string) (string, error) {
	if rest == "" {
		return "", fmt.Errorf("usage: sql <statement>")
	}
	verb := strings.ToLower(strings.Fields(rest)[0])
	if verb == "select" || verb == "with" || verb == "pragma" {
		return s.conn.execQuery(rest, nil)
	}
	res, err := s.conn.db.ExecuteSQL(rest, nil)
	if err != nil {
		return "", err
	}
	s.conn.reloadTables()
	if n, err := res.RowsAffected(); err == nil {
		return fmt.Sprintf("(%d rows affected)\n", n), nil
	}
	return "ok\n", nil
}

func (s *Session) runPlugin(rest string) (string, error) {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		if s.softDelete == nil {
			return "(no plugins active)\n", nil
		}
		return "softdelete: " + s.softDelete.Column + "\n", nil
	}
	switch fields[0] {
	case "off":
		s.softDelete = nil
		return "plugins disabled\n", nil
	case "softdelete":
		column := "deleted_at"
		if len(fields) > 1 {
			column = fields[1]
		}
		s.softDelete = softdelete.New(softdelete.WithColumn(column))
		return fmt.Sprintf("selects now filter on %q IS NULL\n", column), nil
	default:
		return "", fmt.Errorf("unknown plugin %q", fields[0])
	}
}

// commandNames lists the completable top-level commands.
func commandNames() []string {
	names := []string{
		"help", "tables", "columns", "select", "insert", "update",
		"delete", "show", "dot", "sql", "plugin", "exit",
	}
	sort.Strings(names)
	return names
}
