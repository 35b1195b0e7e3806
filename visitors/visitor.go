// Package visitors provides SQL dialect generators that walk the AST.
package visitors

import (
	"fmt"
	"strings"

	"github.com/bawdo/sqlbee/internal/quoting"
	"github.com/bawdo/sqlbee/nodes"
)

// Operator SQL strings for InfixOp values.
var infixOpSQL = [...]string{
	nodes.OpPlus:     "+",
	nodes.OpMinus:    "-",
	nodes.OpMultiply: "*",
	nodes.OpDivide:   "/",
	nodes.OpMod:      "%",
	nodes.OpConcat:   "||",
}

// Operator SQL strings for ComparisonOp values.
var comparisonOpSQL = [...]string{
	nodes.OpEq:      "=",
	nodes.OpNotEq:   "!=",
	nodes.OpGt:      ">",
	nodes.OpGtEq:    ">=",
	nodes.OpLt:      "<",
	nodes.OpLtEq:    "<=",
	nodes.OpLike:    "LIKE",
	nodes.OpNotLike: "NOT LIKE",
	nodes.OpIs:      "IS",
}

// SQL keywords for JoinType values.
var joinTypeSQL = [...]string{
	nodes.InnerJoin:      "INNER JOIN",
	nodes.LeftOuterJoin:  "LEFT OUTER JOIN",
	nodes.RightOuterJoin: "RIGHT OUTER JOIN",
	nodes.FullOuterJoin:  "FULL OUTER JOIN",
	nodes.CrossJoin:      "CROSS JOIN",
}

// SQL keywords for SetOpType values.
var setOpTypeSQL = [...]string{
	nodes.Union:     "UNION",
	nodes.UnionAll:  "UNION ALL",
	nodes.Intersect: "INTERSECT",
	nodes.Except:    "EXCEPT",
}

// Option configures a visitor at construction time.
type Option func(*baseVisitor)

// WithParams enables parameterized query mode. When enabled, literal values
// are replaced with bind placeholders and collected for separate retrieval.
//
// Note: Parameterized mode is enabled by default. This option is kept
// for symmetry with WithoutParams.
func WithParams() Option {
	return func(b *baseVisitor) {
		b.parameterize = true
	}
}

// WithoutParams disables parameterized query mode.
//
// ⚠️ WARNING: Disables SQL injection protection. Only use for debugging or when
// you're certain all values are trusted. Production code should NEVER use this option.
//
// When disabled, literal values are interpolated directly into the SQL string
// with basic escaping only.
func WithoutParams() Option {
	return func(b *baseVisitor) {
		b.parameterize = false
	}
}

// aliasFrame is one alias namespace: an identity map from source node to
// its alias, and the counter feeding auto-generated names. The root
// frame allocates t1, t2, ...; pushed frames allocate a1, a2, ...
type aliasFrame struct {
	names   map[nodes.Node]string
	counter int
	prefix  string
}

// baseVisitor implements the shared SQL generation logic used by all dialects.
// Dialect-specific visitors embed *baseVisitor and set the outer field to
// themselves, enabling correct virtual dispatch through the Visitor interface.
type baseVisitor struct {
	// outer is the concrete dialect visitor. All recursive Accept calls
	// go through outer so that dialect overrides are respected.
	outer nodes.Visitor

	// quoteIdent quotes a SQL identifier (table name, column name).
	quoteIdent func(string) string

	// parameterize enables bind-parameter mode.
	parameterize bool

	// params accumulates bind parameter values during SQL generation.
	params []any

	// paramIndex tracks the next parameter number (1-based).
	paramIndex int

	// placeholder returns the bind placeholder for a given parameter index.
	// PostgreSQL uses $1, $2; MySQL/SQLite use ?.
	placeholder func(int) string

	// frames is the alias namespace stack. Empty until the first SELECT
	// scope is entered; a root frame is created lazily.
	frames []*aliasFrame

	// qualify controls whether column references are qualified with
	// their source alias. INSERT/UPDATE/DELETE clear it for their own
	// clauses; SELECT rendering always re-enables it.
	qualify bool
}

// applyOptions applies functional options to the baseVisitor.
func (b *baseVisitor) applyOptions(opts []Option) {
	for _, o := range opts {
		o(b)
	}
}

// Params returns the collected bind parameters from the last SQL generation.
func (b *baseVisitor) Params() []any {
	return b.params
}

// Reset clears per-render state (parameters and alias frames) for reuse.
func (b *baseVisitor) Reset() {
	b.params = nil
	b.paramIndex = 0
	b.frames = nil
	b.qualify = true
}

// --- Alias allocation ---

func (b *baseVisitor) currentFrame() *aliasFrame {
	if len(b.frames) == 0 {
		b.frames = append(b.frames, &aliasFrame{names: make(map[nodes.Node]string), prefix: "t"})
	}
	return b.frames[len(b.frames)-1]
}

func (b *baseVisitor) pushFrame() {
	b.currentFrame() // force the root frame so pop never underflows
	b.frames = append(b.frames, &aliasFrame{names: make(map[nodes.Node]string), prefix: "a"})
}

func (b *baseVisitor) popFrame() {
	b.frames = b.frames[:len(b.frames)-1]
}

// registerSource assigns an alias to a FROM/JOIN source in the current
// frame. User aliases and CTE names register verbatim; tables draw from
// the frame counter with the frame prefix; subquery sources always draw
// with the "a" prefix.
func (b *baseVisitor) registerSource(src nodes.Node) string {
	f := b.currentFrame()
	if name, ok := f.names[src]; ok {
		return name
	}
	var name string
	switch s := src.(type) {
	case *nodes.TableAlias:
		name = s.AliasName
	case *nodes.CTENode:
		name = s.Name
	case *nodes.Table:
		f.counter++
		name = fmt.Sprintf("%s%d", f.prefix, f.counter)
	default:
		f.counter++
		name = fmt.Sprintf("a%d", f.counter)
	}
	f.names[src] = name
	return name
}

// sourceName resolves the qualifier for a column reference: the alias
// registered in the current frame, falling back to the source's declared
// name when the source was never registered.
func (b *baseVisitor) sourceName(rel nodes.Node) (string, bool) {
	if len(b.frames) > 0 {
		if name, ok := b.frames[len(b.frames)-1].names[rel]; ok {
			return name, true
		}
	}
	if name := nodes.RelationName(rel); name != "" {
		return name, true
	}
	return "", false
}

// renderExpr renders a node in expression position, parenthesizing
// subqueries and compound selects.
func (b *baseVisitor) renderExpr(n nodes.Node) string {
	s := n.Accept(b.outer)
	switch n.(type) {
	case *nodes.SelectCore, *nodes.SetOperationNode:
		return "(" + s + ")"
	}
	return s
}

// --- Value nodes ---

func (b *baseVisitor) VisitTable(n *nodes.Table) string {
	return b.quoteIdent(n.Name)
}

func (b *baseVisitor) VisitTableAlias(n *nodes.TableAlias) string {
	if tbl, ok := n.Relation.(*nodes.Table); ok {
		return b.quoteIdent(tbl.Name) + " AS " + b.quoteIdent(n.AliasName)
	}
	return "(" + n.Relation.Accept(b.outer) + ") AS " + b.quoteIdent(n.AliasName)
}

func (b *baseVisitor) VisitAttribute(n *nodes.Attribute) string {
	if !b.qualify {
		return b.quoteIdent(n.Name)
	}
	name, ok := b.sourceName(n.Relation)
	if !ok {
		panic(&nodes.RenderError{Message: fmt.Sprintf("sqlbee: column %q has no resolvable source", n.Name)})
	}
	return b.quoteIdent(name) + "." + b.quoteIdent(n.Name)
}

func (b *baseVisitor) VisitLiteral(n *nodes.LiteralNode) string {
	return b.literalToSQL(n.Value)
}

func (b *baseVisitor) literalToSQL(val any) string {
	// nil always renders as NULL keyword, never parameterized.
	if val == nil {
		return "NULL"
	}

	// In parameterize mode, emit a placeholder and collect the value.
	if b.parameterize {
		b.paramIndex++
		b.params = append(b.params, val)
		return b.placeholder(b.paramIndex)
	}

	switch v := val.(type) {
	case string:
		return "'" + quoting.EscapeString(v) + "'"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32, float64:
		return fmt.Sprintf("%g", v)
	case fmt.Stringer:
		return "'" + quoting.EscapeString(v.String()) + "'"
	default:
		panic(fmt.Sprintf("sqlbee: unsupported literal type %T", v))
	}
}

func (b *baseVisitor) VisitStar(n *nodes.StarNode) string {
	if n.Relation == nil {
		return "*"
	}
	name, ok := b.sourceName(n.Relation)
	if !ok {
		panic(&nodes.RenderError{Message: "sqlbee: star projection has no resolvable source"})
	}
	return b.quoteIdent(name) + ".*"
}

func (b *baseVisitor) VisitSqlLiteral(n *nodes.SqlLiteral) string {
	if b.parameterize && len(n.Binds) > 0 {
		b.params = append(b.params, n.Binds...)
		b.paramIndex += len(n.Binds)
	}
	return n.Raw
}

func (b *baseVisitor) VisitEntity(n *nodes.EntityNode) string {
	return b.quoteIdent(n.Name)
}

func (b *baseVisitor) VisitBindParam(n *nodes.BindParamNode) string {
	// Always parameterize if in param mode, otherwise render as literal.
	if b.parameterize {
		b.paramIndex++
		b.params = append(b.params, n.Value)
		return b.placeholder(b.paramIndex)
	}
	return b.literalToSQL(n.Value)
}

// --- Expression nodes ---

func isNullLiteral(n nodes.Node) bool {
	lit, ok := n.(*nodes.LiteralNode)
	return ok && lit.Value == nil
}

func (b *baseVisitor) VisitComparison(n *nodes.ComparisonNode) string {
	left := b.renderExpr(n.Left)
	if isNullLiteral(n.Right) {
		switch n.Op {
		case nodes.OpEq, nodes.OpIs:
			return "(" + left + " IS NULL)"
		case nodes.OpNotEq:
			return "(" + left + " IS NOT NULL)"
		}
	}
	right := b.renderExpr(n.Right)
	return "(" + left + " " + comparisonOpSQL[n.Op] + " " + right + ")"
}

func (b *baseVisitor) VisitUnary(n *nodes.UnaryNode) string {
	expr := b.renderExpr(n.Expr)
	if n.Op == nodes.OpIsNotNull {
		return "(" + expr + " IS NOT NULL)"
	}
	return "(" + expr + " IS NULL)"
}

func (b *baseVisitor) VisitAnd(n *nodes.AndNode) string {
	return "(" + b.renderExpr(n.Left) + " AND " + b.renderExpr(n.Right) + ")"
}

func (b *baseVisitor) VisitOr(n *nodes.OrNode) string {
	return "(" + b.renderExpr(n.Left) + " OR " + b.renderExpr(n.Right) + ")"
}

func (b *baseVisitor) VisitNot(n *nodes.NotNode) string {
	return "NOT (" + n.Expr.Accept(b.outer) + ")"
}

func (b *baseVisitor) VisitIn(n *nodes.InNode) string {
	expr := b.renderExpr(n.Expr)
	keyword := "IN"
	if n.Negate {
		keyword = "NOT IN"
	}
	if n.Query != nil {
		return "(" + expr + " " + keyword + " (" + n.Query.Accept(b.outer) + "))"
	}
	vals := make([]string, len(n.Vals))
	for i, v := range n.Vals {
		vals[i] = b.renderExpr(v)
	}
	return "(" + expr + " " + keyword + " (" + strings.Join(vals, ", ") + "))"
}

func (b *baseVisitor) VisitBetween(n *nodes.BetweenNode) string {
	expr := b.renderExpr(n.Expr)
	low := b.renderExpr(n.Low)
	high := b.renderExpr(n.High)
	keyword := "BETWEEN"
	if n.Negate {
		keyword = "NOT BETWEEN"
	}
	return "(" + expr + " " + keyword + " " + low + " AND " + high + ")"
}

func (b *baseVisitor) VisitGrouping(n *nodes.GroupingNode) string {
	return "(" + n.Expr.Accept(b.outer) + ")"
}

func (b *baseVisitor) VisitInfix(n *nodes.InfixNode) string {
	return "(" + b.renderExpr(n.Left) + " " + infixOpSQL[n.Op] + " " + b.renderExpr(n.Right) + ")"
}

func (b *baseVisitor) VisitOrdering(n *nodes.OrderingNode) string {
	expr := b.renderExpr(n.Expr)
	if n.Direction == nodes.Desc {
		expr += " DESC"
	} else {
		expr += " ASC"
	}
	switch n.Nulls {
	case nodes.NullsFirst:
		expr += " NULLS FIRST"
	case nodes.NullsLast:
		expr += " NULLS LAST"
	}
	return expr
}

// Aggregate function SQL names.
var aggregateFuncSQL = [...]string{
	nodes.AggCount: "COUNT",
	nodes.AggSum:   "SUM",
	nodes.AggAvg:   "AVG",
	nodes.AggMin:   "MIN",
	nodes.AggMax:   "MAX",
}

func (b *baseVisitor) VisitAggregate(n *nodes.AggregateNode) string {
	var sb strings.Builder
	sb.WriteString(aggregateFuncSQL[n.Func])
	sb.WriteString("(")
	if n.Distinct {
		sb.WriteString("DISTINCT ")
	}
	if n.Expr == nil {
		sb.WriteString("*")
	} else {
		sb.WriteString(b.renderExpr(n.Expr))
	}
	sb.WriteString(")")
	if n.Filter != nil {
		sb.WriteString(" FILTER (WHERE ")
		sb.WriteString(n.Filter.Accept(b.outer))
		sb.WriteString(")")
	}
	return sb.String()
}

// Extract field SQL names.
var extractFieldSQL = [...]string{
	nodes.ExtractYear:   "YEAR",
	nodes.ExtractMonth:  "MONTH",
	nodes.ExtractDay:    "DAY",
	nodes.ExtractHour:   "HOUR",
	nodes.ExtractMinute: "MINUTE",
	nodes.ExtractSecond: "SECOND",
	nodes.ExtractEpoch:  "EPOCH",
}

func (b *baseVisitor) VisitExtract(n *nodes.ExtractNode) string {
	return "EXTRACT(" + extractFieldSQL[n.Field] + " FROM " + n.Expr.Accept(b.outer) + ")"
}

func (b *baseVisitor) VisitExists(n *nodes.ExistsNode) string {
	var sb strings.Builder
	if n.Negated {
		sb.WriteString("NOT ")
	}
	sb.WriteString("EXISTS (")
	sb.WriteString(n.Subquery.Accept(b.outer))
	sb.WriteString(")")
	return sb.String()
}

func (b *baseVisitor) VisitNamedFunction(n *nodes.NamedFunctionNode) string {
	var sb strings.Builder
	validateSQLFunctionName(n.Name)
	// Special case: CAST(expr AS type)
	if n.Name == "CAST" && len(n.Args) == 2 {
		sb.WriteString("CAST(")
		sb.WriteString(b.renderExpr(n.Args[0]))
		sb.WriteString(" AS ")
		sb.WriteString(n.Args[1].Accept(b.outer))
		sb.WriteString(")")
		return sb.String()
	}
	sb.WriteString(n.Name)
	sb.WriteString("(")
	if n.Distinct {
		sb.WriteString("DISTINCT ")
	}
	for i, arg := range n.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(b.renderExpr(arg))
	}
	sb.WriteString(")")
	return sb.String()
}

func (b *baseVisitor) VisitCase(n *nodes.CaseNode) string {
	var sb strings.Builder
	sb.WriteString("CASE")
	if n.Operand != nil {
		sb.WriteString(" ")
		sb.WriteString(n.Operand.Accept(b.outer))
	}
	for _, w := range n.Whens {
		sb.WriteString(" WHEN ")
		sb.WriteString(w.Condition.Accept(b.outer))
		sb.WriteString(" THEN ")
		sb.WriteString(b.renderExpr(w.Result))
	}
	if n.ElseVal != nil {
		sb.WriteString(" ELSE ")
		sb.WriteString(b.renderExpr(n.ElseVal))
	}
	sb.WriteString(" END")
	return sb.String()
}

// isFunctionExpr reports whether the aliased expression is a function
// call, whose alias renders unquoted when it is a bare identifier.
func isFunctionExpr(n nodes.Node) bool {
	switch n.(type) {
	case *nodes.AggregateNode, *nodes.NamedFunctionNode, *nodes.ExtractNode:
		return true
	}
	return false
}

// isBareIdentifier reports whether s matches [A-Za-z_][A-Za-z0-9_]*.
func isBareIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (b *baseVisitor) VisitAlias(n *nodes.AliasNode) string {
	expr := b.renderExpr(n.Expr)
	if isFunctionExpr(n.Expr) && isBareIdentifier(n.Name) {
		return expr + " AS " + n.Name
	}
	return expr + " AS " + b.quoteIdent(n.Name)
}

func (b *baseVisitor) VisitCasted(n *nodes.CastedNode) string {
	valSQL := b.literalToSQL(n.Value)
	if n.TypeName != "" {
		validateSQLTypeName(n.TypeName)
		return "CAST(" + valSQL + " AS " + n.TypeName + ")"
	}
	return valSQL
}

// validateSQLTypeName panics if the type name contains characters outside
// the set of letters, digits, spaces, parentheses, and commas.
// This prevents SQL injection through crafted type names.
func validateSQLTypeName(name string) {
	for _, c := range name {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') &&
			(c < '0' || c > '9') && c != ' ' && c != '(' &&
			c != ')' && c != ',' && c != '_' {
			panic(fmt.Sprintf("sqlbee: invalid SQL type name character %q in %q", string(c), name))
		}
	}
}

// validateSQLFunctionName panics if the function name contains characters
// outside the set of letters, digits, and underscores.
// This prevents SQL injection through crafted function names.
func validateSQLFunctionName(name string) {
	for _, c := range name {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') &&
			(c < '0' || c > '9') && c != '_' {
			panic(fmt.Sprintf("sqlbee: invalid SQL function name character %q in %q", string(c), name))
		}
	}
}

// --- Sources and clauses ---

// renderSource renders one FROM/JOIN list entry with its alias.
func (b *baseVisitor) renderSource(src nodes.Node) string {
	switch s := src.(type) {
	case *nodes.Table:
		return b.quoteIdent(s.Name) + " AS " + b.quoteIdent(b.registerSource(s))
	case *nodes.TableAlias:
		if tbl, ok := s.Relation.(*nodes.Table); ok {
			return b.quoteIdent(tbl.Name) + " AS " + b.quoteIdent(s.AliasName)
		}
		b.pushFrame()
		inner := s.Relation.Accept(b.outer)
		b.popFrame()
		return "(" + inner + ") AS " + b.quoteIdent(s.AliasName)
	case *nodes.CTENode:
		return b.quoteIdent(s.Name)
	default:
		alias := b.registerSource(src)
		b.pushFrame()
		inner := src.Accept(b.outer)
		b.popFrame()
		return "(" + inner + ") AS " + b.quoteIdent(alias)
	}
}

func (b *baseVisitor) VisitJoin(n *nodes.JoinNode) string {
	var sb strings.Builder
	sb.WriteString(joinTypeSQL[n.Type])
	sb.WriteString(" ")
	sb.WriteString(b.renderSource(n.Right))
	if n.On != nil {
		sb.WriteString(" ON ")
		sb.WriteString(n.On.Accept(b.outer))
	}
	return sb.String()
}

func (b *baseVisitor) VisitSelectCore(n *nodes.SelectCore) string {
	prevQualify := b.qualify
	b.qualify = true
	defer func() { b.qualify = prevQualify }()

	var sb strings.Builder

	b.writeCTEs(&sb, n.CTEs)

	// Assign aliases to all sources up front, in FROM-then-JOIN order,
	// so projections rendered before the FROM clause resolve correctly.
	for _, f := range n.Froms {
		b.registerSource(f)
	}
	for _, j := range n.Joins {
		b.registerSource(j.Right)
	}

	sb.WriteString("SELECT ")
	if n.Distinct {
		sb.WriteString("DISTINCT ")
	}
	b.writeProjections(&sb, n.Projections)
	b.writeFroms(&sb, n.Froms)
	for _, j := range n.Joins {
		sb.WriteString(" ")
		sb.WriteString(j.Accept(b.outer))
	}
	b.writeConditions(&sb, " WHERE ", n.Wheres)
	b.writeClause(&sb, " GROUP BY ", n.Groups, ", ")
	b.writeConditions(&sb, " HAVING ", n.Havings)
	b.writeClause(&sb, " ORDER BY ", n.Orders, ", ")
	b.writeNodeClause(&sb, " LIMIT ", n.Limit)
	b.writeNodeClause(&sb, " OFFSET ", n.Offset)

	return sb.String()
}

// writeClause writes "keyword item1 sep item2 sep ..." if items is non-empty.
func (b *baseVisitor) writeClause(sb *strings.Builder, keyword string, items []nodes.Node, sep string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(keyword)
	for i, item := range items {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(b.renderExpr(item))
	}
}

// writeConditions folds the conditions into a single AND chain, so that
// successive Where calls render identically to one combined condition.
func (b *baseVisitor) writeConditions(sb *strings.Builder, keyword string, conds []nodes.Node) {
	if len(conds) == 0 {
		return
	}
	sb.WriteString(keyword)
	sb.WriteString(nodes.ChainAnd(conds...).Accept(b.outer))
}

// writeNodeClause writes "keyword node" if node is non-nil.
func (b *baseVisitor) writeNodeClause(sb *strings.Builder, keyword string, n nodes.Node) {
	if n != nil {
		sb.WriteString(keyword)
		sb.WriteString(n.Accept(b.outer))
	}
}

func (b *baseVisitor) writeCTEs(sb *strings.Builder, ctes []*nodes.CTENode) {
	if len(ctes) == 0 {
		return
	}
	hasRecursive := false
	for _, cte := range ctes {
		if cte.Recursive {
			hasRecursive = true
			break
		}
	}
	if hasRecursive {
		sb.WriteString("WITH RECURSIVE ")
	} else {
		sb.WriteString("WITH ")
	}
	for i, cte := range ctes {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(cte.Accept(b.outer))
	}
	sb.WriteString(" ")
}

func (b *baseVisitor) VisitCTE(n *nodes.CTENode) string {
	var sb strings.Builder
	sb.WriteString(b.quoteIdent(n.Name))
	if len(n.Columns) > 0 {
		sb.WriteString(" (")
		for i, c := range n.Columns {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(b.quoteIdent(c))
		}
		sb.WriteString(")")
	}
	sb.WriteString(" AS (")
	b.pushFrame()
	sb.WriteString(n.Query.Accept(b.outer))
	b.popFrame()
	sb.WriteString(")")
	return sb.String()
}

func (b *baseVisitor) writeProjections(sb *strings.Builder, projections []nodes.Node) {
	if len(projections) == 0 {
		sb.WriteString("*")
		return
	}
	for i, p := range projections {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(b.renderExpr(p))
	}
}

func (b *baseVisitor) writeFroms(sb *strings.Builder, froms []nodes.Node) {
	if len(froms) == 0 {
		return
	}
	sb.WriteString(" FROM ")
	for i, f := range froms {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(b.renderSource(f))
	}
}

func (b *baseVisitor) VisitSetOperation(n *nodes.SetOperationNode) string {
	var sb strings.Builder
	sb.WriteString(n.Left.Accept(b.outer))
	sb.WriteString(" ")
	sb.WriteString(setOpTypeSQL[n.Type])
	sb.WriteString(" ")
	b.pushFrame()
	sb.WriteString(n.Right.Accept(b.outer))
	b.popFrame()
	return sb.String()
}

// --- Statements ---

func (b *baseVisitor) VisitInsertStatement(n *nodes.InsertStatement) string {
	prevQualify := b.qualify
	b.qualify = false
	defer func() { b.qualify = prevQualify }()

	var sb strings.Builder

	sb.WriteString("INSERT INTO ")
	sb.WriteString(n.Into.Accept(b.outer))

	if len(n.Columns) > 0 {
		sb.WriteString(" (")
		for i, c := range n.Columns {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(c.Accept(b.outer))
		}
		sb.WriteString(")")
	}

	if n.Select != nil {
		// INSERT ... SELECT: the SELECT is emitted without parentheses.
		sb.WriteString(" ")
		sb.WriteString(n.Select.Accept(b.outer))
	} else if len(n.Values) > 0 {
		sb.WriteString(" VALUES ")
		for i, row := range n.Values {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("(")
			for j, v := range row {
				if j > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(b.renderExpr(v))
			}
			sb.WriteString(")")
		}
	}

	b.writeClause(&sb, " RETURNING ", n.Returning, ", ")

	return sb.String()
}

func (b *baseVisitor) VisitUpdateStatement(n *nodes.UpdateStatement) string {
	prevQualify := b.qualify
	b.qualify = false
	defer func() { b.qualify = prevQualify }()

	var sb strings.Builder

	sb.WriteString("UPDATE ")
	sb.WriteString(n.Table.Accept(b.outer))

	if len(n.Assignments) > 0 {
		sb.WriteString(" SET ")
		for i, a := range n.Assignments {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.Accept(b.outer))
		}
	}

	b.writeConditions(&sb, " WHERE ", n.Wheres)
	b.writeClause(&sb, " RETURNING ", n.Returning, ", ")

	return sb.String()
}

func (b *baseVisitor) VisitDeleteStatement(n *nodes.DeleteStatement) string {
	prevQualify := b.qualify
	b.qualify = false
	defer func() { b.qualify = prevQualify }()

	var sb strings.Builder

	sb.WriteString("DELETE FROM ")
	sb.WriteString(n.From.Accept(b.outer))

	b.writeConditions(&sb, " WHERE ", n.Wheres)
	b.writeClause(&sb, " ORDER BY ", n.Orders, ", ")
	b.writeNodeClause(&sb, " LIMIT ", n.Limit)
	b.writeClause(&sb, " RETURNING ", n.Returning, ", ")

	return sb.String()
}

func (b *baseVisitor) VisitAssignment(n *nodes.AssignmentNode) string {
	return n.Left.Accept(b.outer) + " = " + b.renderExpr(n.Right)
}
