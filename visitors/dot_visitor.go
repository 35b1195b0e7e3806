package visitors

import (
	"fmt"
	"strings"

	"github.com/bawdo/sqlbee/nodes"
)

// Color constants for DOT node categories.
const (
	colorTable      = "#6CA6CD" // blue — tables, aliases, CTEs
	colorAttribute  = "#B0D4E8" // light blue — attributes, stars
	colorComparison = "#FFB347" // orange — comparisons, predicates
	colorLogical    = "#FFEB80" // yellow — AND, OR, NOT, Grouping
	colorLiteral    = "#D3D3D3" // grey — literals, values
	colorJoin       = "#77DD77" // green — joins
	colorOrdering   = "#CDA0E0" // purple — ordering
	colorStatement  = "#FF6961" // red — statements, assignments
	colorArithmetic = "#98FB98" // mint green — arithmetic
	colorFunction   = "#87CEEB" // sky blue — aggregates, functions
)

// dotNode represents a single node in the DOT graph.
type dotNode struct {
	id    string
	label string
	color string
}

// dotEdge represents a directed edge between two nodes in the DOT graph.
type dotEdge struct {
	from  string
	to    string
	label string
}

// pluginCluster groups nodes added by a plugin into a DOT subgraph cluster.
type pluginCluster struct {
	name    string
	color   string
	nodeIDs []string
}

// PluginProvenance tracks which clause indices belong to which plugins.
type PluginProvenance struct {
	entries []provenanceEntry
}

type provenanceEntry struct {
	plugin string
	color  string
	index  int
	clause string // "where" or "join"
}

// NewPluginProvenance creates a new PluginProvenance tracker.
func NewPluginProvenance() *PluginProvenance {
	return &PluginProvenance{}
}

// AddWhere marks a WHERE clause index as belonging to a plugin.
func (pp *PluginProvenance) AddWhere(plugin, color string, index int) {
	pp.entries = append(pp.entries, provenanceEntry{plugin: plugin, color: color, index: index, clause: "where"})
}

// AddJoin marks a JOIN clause index as belonging to a plugin.
func (pp *PluginProvenance) AddJoin(plugin, color string, index int) {
	pp.entries = append(pp.entries, provenanceEntry{plugin: plugin, color: color, index: index, clause: "join"})
}

func (pp *PluginProvenance) pluginFor(clause string, index int) (string, string, bool) {
	for _, e := range pp.entries {
		if e.clause == clause && e.index == index {
			return e.plugin, e.color, true
		}
	}
	return "", "", false
}

// DotVisitor walks the AST and produces Graphviz DOT output.
// It implements nodes.Visitor; Accept return values are node IDs rather
// than SQL.
type DotVisitor struct {
	nextID     int
	nodes      []dotNode
	edges      []dotEdge
	clusters   []pluginCluster
	parentID   string
	edgeLabel  string
	provenance *PluginProvenance
}

var _ nodes.Visitor = (*DotVisitor)(nil)

// NewDotVisitor creates a new DotVisitor ready to walk an AST.
func NewDotVisitor() *DotVisitor {
	return &DotVisitor{}
}

// SetProvenance configures plugin provenance tracking for clause attribution.
func (dv *DotVisitor) SetProvenance(p *PluginProvenance) {
	dv.provenance = p
}

// addNode creates a new DOT node with the given label and color, returning its ID.
func (dv *DotVisitor) addNode(label, color string) string {
	id := fmt.Sprintf("n%d", dv.nextID)
	dv.nextID++
	dv.nodes = append(dv.nodes, dotNode{id: id, label: label, color: color})
	return id
}

// addEdge records a directed edge from one node to another.
func (dv *DotVisitor) addEdge(from, to, label string) {
	dv.edges = append(dv.edges, dotEdge{from: from, to: to, label: label})
}

// visitChild saves and restores the parent context, sets the edge label,
// and calls child.Accept to recursively visit the child node.
func (dv *DotVisitor) visitChild(parentID, label string, child nodes.Node) string {
	savedParent := dv.parentID
	savedLabel := dv.edgeLabel
	dv.parentID = parentID
	dv.edgeLabel = label
	result := child.Accept(dv)
	dv.parentID = savedParent
	dv.edgeLabel = savedLabel
	return result
}

// connectToParent adds an edge from the current parentID to nodeID if a parent exists.
func (dv *DotVisitor) connectToParent(nodeID string) {
	if dv.parentID != "" {
		dv.addEdge(dv.parentID, nodeID, dv.edgeLabel)
	}
}

// AddPluginCluster registers a plugin cluster for grouped rendering in the DOT output.
func (dv *DotVisitor) AddPluginCluster(name, color string, nodeIDs []string) {
	if len(nodeIDs) > 0 {
		dv.clusters = append(dv.clusters, pluginCluster{name: name, color: color, nodeIDs: nodeIDs})
	}
}

// NodeCount returns the number of nodes accumulated so far.
func (dv *DotVisitor) NodeCount() int {
	return len(dv.nodes)
}

// NodeIDsSince returns the IDs of nodes added since (and including) the given index.
func (dv *DotVisitor) NodeIDsSince(start int) []string {
	if start >= len(dv.nodes) {
		return nil
	}
	ids := make([]string, len(dv.nodes)-start)
	for i := start; i < len(dv.nodes); i++ {
		ids[i-start] = dv.nodes[i].id
	}
	return ids
}

type clusterAcc struct {
	color string
	ids   []string
}

// visitWheresWithProvenance visits WHERE clauses and collects
// provenance-tracked node IDs into plugin clusters.
func (dv *DotVisitor) visitWheresWithProvenance(parentID string, wheres []nodes.Node, clusters map[string]*clusterAcc) {
	for i, w := range wheres {
		snapshot := dv.NodeCount()
		dv.visitChild(parentID, fmt.Sprintf("WHERE[%d]", i), w)
		if dv.provenance == nil {
			continue
		}
		if plugin, color, ok := dv.provenance.pluginFor("where", i); ok {
			c, exists := clusters[plugin]
			if !exists {
				c = &clusterAcc{color: color}
				clusters[plugin] = c
			}
			c.ids = append(c.ids, dv.NodeIDsSince(snapshot)...)
		}
	}
}

// flushPluginClusters registers all accumulated plugin clusters.
func (dv *DotVisitor) flushPluginClusters(clusters map[string]*clusterAcc) {
	for name, c := range clusters {
		dv.AddPluginCluster(name, c.color, c.ids)
	}
}

// escapeLabel escapes quotes in DOT labels.
func escapeLabel(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// ToDot generates the complete DOT graph text.
func (dv *DotVisitor) ToDot() string {
	var sb strings.Builder

	sb.WriteString("digraph AST {\n")
	sb.WriteString("  rankdir=TB;\n")
	sb.WriteString("  node [shape=box, style=filled, fontname=\"Helvetica\"];\n")
	sb.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n")

	// Collect IDs that belong to clusters so we can exclude them from the main body.
	clustered := make(map[string]bool)
	for _, c := range dv.clusters {
		for _, id := range c.nodeIDs {
			clustered[id] = true
		}
	}

	for _, n := range dv.nodes {
		if !clustered[n.id] {
			sb.WriteString(fmt.Sprintf("  %s [label=\"%s\", fillcolor=\"%s\"];\n",
				n.id, escapeLabel(n.label), n.color))
		}
	}

	for i, c := range dv.clusters {
		sb.WriteString(fmt.Sprintf("  subgraph cluster_%d_%s {\n", i, c.name))
		sb.WriteString(fmt.Sprintf("    label=\"%s\";\n", c.name))
		sb.WriteString("    style=dashed;\n")
		sb.WriteString(fmt.Sprintf("    color=\"%s\";\n", c.color))
		sb.WriteString("    fontname=\"Helvetica\";\n")
		for _, id := range c.nodeIDs {
			for _, n := range dv.nodes {
				if n.id == id {
					sb.WriteString(fmt.Sprintf("    %s [label=\"%s\", fillcolor=\"%s\"];\n",
						n.id, escapeLabel(n.label), n.color))
					break
				}
			}
		}
		sb.WriteString("  }\n")
	}

	for _, e := range dv.edges {
		if e.label != "" {
			sb.WriteString(fmt.Sprintf("  %s -> %s [label=\"%s\"];\n", e.from, e.to, e.label))
		} else {
			sb.WriteString(fmt.Sprintf("  %s -> %s;\n", e.from, e.to))
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

// --- Visitor implementation ---

func (dv *DotVisitor) VisitTable(n *nodes.Table) string {
	id := dv.addNode("Table\\n"+n.Name, colorTable)
	dv.connectToParent(id)
	return id
}

func (dv *DotVisitor) VisitTableAlias(n *nodes.TableAlias) string {
	id := dv.addNode("Alias\\n"+n.AliasName, colorTable)
	dv.connectToParent(id)
	dv.visitChild(id, "REL", n.Relation)
	return id
}

func (dv *DotVisitor) VisitAttribute(n *nodes.Attribute) string {
	label := "Column\\n" + n.Name
	if rel := nodes.TableSourceName(n.Relation); rel != "" {
		label = "Column\\n" + rel + "." + n.Name
	}
	id := dv.addNode(label, colorAttribute)
	dv.connectToParent(id)
	return id
}

func (dv *DotVisitor) VisitLiteral(n *nodes.LiteralNode) string {
	id := dv.addNode(fmt.Sprintf("Literal\\n%v", n.Value), colorLiteral)
	dv.connectToParent(id)
	return id
}

func (dv *DotVisitor) VisitStar(n *nodes.StarNode) string {
	label := "*"
	if rel := nodes.TableSourceName(n.Relation); rel != "" {
		label = rel + ".*"
	}
	id := dv.addNode(label, colorAttribute)
	dv.connectToParent(id)
	return id
}

func (dv *DotVisitor) VisitSqlLiteral(n *nodes.SqlLiteral) string {
	id := dv.addNode("SQL\\n"+n.Raw, colorLiteral)
	dv.connectToParent(id)
	return id
}

func (dv *DotVisitor) VisitEntity(n *nodes.EntityNode) string {
	id := dv.addNode("Entity\\n"+n.Name, colorAttribute)
	dv.connectToParent(id)
	return id
}

func (dv *DotVisitor) VisitBindParam(n *nodes.BindParamNode) string {
	id := dv.addNode(fmt.Sprintf("BindParam\\n%v", n.Value), colorLiteral)
	dv.connectToParent(id)
	return id
}

// Comparison operator display names for DOT labels.
var comparisonOpName = [...]string{
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

func (dv *DotVisitor) VisitComparison(n *nodes.ComparisonNode) string {
	id := dv.addNode(comparisonOpName[n.Op], colorComparison)
	dv.connectToParent(id)
	dv.visitChild(id, "L", n.Left)
	dv.visitChild(id, "R", n.Right)
	return id
}

func (dv *DotVisitor) VisitUnary(n *nodes.UnaryNode) string {
	label := "IS NULL"
	if n.Op == nodes.OpIsNotNull {
		label = "IS NOT NULL"
	}
	id := dv.addNode(label, colorComparison)
	dv.connectToParent(id)
	dv.visitChild(id, "", n.Expr)
	return id
}

func (dv *DotVisitor) VisitAnd(n *nodes.AndNode) string {
	id := dv.addNode("AND", colorLogical)
	dv.connectToParent(id)
	dv.visitChild(id, "L", n.Left)
	dv.visitChild(id, "R", n.Right)
	return id
}

func (dv *DotVisitor) VisitOr(n *nodes.OrNode) string {
	id := dv.addNode("OR", colorLogical)
	dv.connectToParent(id)
	dv.visitChild(id, "L", n.Left)
	dv.visitChild(id, "R", n.Right)
	return id
}

func (dv *DotVisitor) VisitNot(n *nodes.NotNode) string {
	id := dv.addNode("NOT", colorLogical)
	dv.connectToParent(id)
	dv.visitChild(id, "", n.Expr)
	return id
}

func (dv *DotVisitor) VisitIn(n *nodes.InNode) string {
	label := "IN"
	if n.Negate {
		label = "NOT IN"
	}
	id := dv.addNode(label, colorComparison)
	dv.connectToParent(id)
	dv.visitChild(id, "EXPR", n.Expr)
	if n.Query != nil {
		dv.visitChild(id, "QUERY", n.Query)
	}
	for i, v := range n.Vals {
		dv.visitChild(id, fmt.Sprintf("VAL[%d]", i), v)
	}
	return id
}

func (dv *DotVisitor) VisitBetween(n *nodes.BetweenNode) string {
	label := "BETWEEN"
	if n.Negate {
		label = "NOT BETWEEN"
	}
	id := dv.addNode(label, colorComparison)
	dv.connectToParent(id)
	dv.visitChild(id, "EXPR", n.Expr)
	dv.visitChild(id, "LOW", n.Low)
	dv.visitChild(id, "HIGH", n.High)
	return id
}

func (dv *DotVisitor) VisitGrouping(n *nodes.GroupingNode) string {
	id := dv.addNode("( )", colorLogical)
	dv.connectToParent(id)
	dv.visitChild(id, "", n.Expr)
	return id
}

func (dv *DotVisitor) VisitJoin(n *nodes.JoinNode) string {
	id := dv.addNode(n.Type.String(), colorJoin)
	dv.connectToParent(id)
	dv.visitChild(id, "TARGET", n.Right)
	if n.On != nil {
		dv.visitChild(id, "ON", n.On)
	}
	return id
}

func (dv *DotVisitor) VisitOrdering(n *nodes.OrderingNode) string {
	label := "ASC"
	if n.Direction == nodes.Desc {
		label = "DESC"
	}
	id := dv.addNode(label, colorOrdering)
	dv.connectToParent(id)
	dv.visitChild(id, "", n.Expr)
	return id
}

func (dv *DotVisitor) VisitSelectCore(n *nodes.SelectCore) string {
	label := "SELECT"
	if n.Distinct {
		label += "\\nDISTINCT"
	}
	id := dv.addNode(label, colorStatement)
	dv.connectToParent(id)

	for i, cte := range n.CTEs {
		dv.visitChild(id, fmt.Sprintf("WITH[%d]", i), cte)
	}
	for i, p := range n.Projections {
		dv.visitChild(id, fmt.Sprintf("PROJ[%d]", i), p)
	}
	for i, f := range n.Froms {
		dv.visitChild(id, fmt.Sprintf("FROM[%d]", i), f)
	}
	for i, j := range n.Joins {
		dv.visitChild(id, fmt.Sprintf("JOIN[%d]", i), j)
	}

	clusters := make(map[string]*clusterAcc)
	dv.visitWheresWithProvenance(id, n.Wheres, clusters)
	dv.flushPluginClusters(clusters)

	for i, g := range n.Groups {
		dv.visitChild(id, fmt.Sprintf("GROUP[%d]", i), g)
	}
	for i, h := range n.Havings {
		dv.visitChild(id, fmt.Sprintf("HAVING[%d]", i), h)
	}
	for i, o := range n.Orders {
		dv.visitChild(id, fmt.Sprintf("ORDER[%d]", i), o)
	}
	if n.Limit != nil {
		dv.visitChild(id, "LIMIT", n.Limit)
	}
	if n.Offset != nil {
		dv.visitChild(id, "OFFSET", n.Offset)
	}
	return id
}

func (dv *DotVisitor) VisitSetOperation(n *nodes.SetOperationNode) string {
	id := dv.addNode(n.Type.String(), colorStatement)
	dv.connectToParent(id)
	dv.visitChild(id, "L", n.Left)
	dv.visitChild(id, "R", n.Right)
	return id
}

func (dv *DotVisitor) VisitCTE(n *nodes.CTENode) string {
	label := "CTE\\n" + n.Name
	if n.Recursive {
		label += "\\nRECURSIVE"
	}
	id := dv.addNode(label, colorTable)
	dv.connectToParent(id)
	dv.visitChild(id, "QUERY", n.Query)
	return id
}

func (dv *DotVisitor) VisitInsertStatement(n *nodes.InsertStatement) string {
	id := dv.addNode("INSERT", colorStatement)
	dv.connectToParent(id)
	dv.visitChild(id, "INTO", n.Into)
	for i, c := range n.Columns {
		dv.visitChild(id, fmt.Sprintf("COL[%d]", i), c)
	}
	for i, row := range n.Values {
		for j, v := range row {
			dv.visitChild(id, fmt.Sprintf("VAL[%d][%d]", i, j), v)
		}
	}
	if n.Select != nil {
		dv.visitChild(id, "SELECT", n.Select)
	}
	for i, r := range n.Returning {
		dv.visitChild(id, fmt.Sprintf("RETURNING[%d]", i), r)
	}
	return id
}

func (dv *DotVisitor) VisitUpdateStatement(n *nodes.UpdateStatement) string {
	id := dv.addNode("UPDATE", colorStatement)
	dv.connectToParent(id)
	dv.visitChild(id, "TABLE", n.Table)
	for i, a := range n.Assignments {
		dv.visitChild(id, fmt.Sprintf("SET[%d]", i), a)
	}

	clusters := make(map[string]*clusterAcc)
	dv.visitWheresWithProvenance(id, n.Wheres, clusters)
	dv.flushPluginClusters(clusters)

	for i, r := range n.Returning {
		dv.visitChild(id, fmt.Sprintf("RETURNING[%d]", i), r)
	}
	return id
}

func (dv *DotVisitor) VisitDeleteStatement(n *nodes.DeleteStatement) string {
	id := dv.addNode("DELETE", colorStatement)
	dv.connectToParent(id)
	dv.visitChild(id, "FROM", n.From)

	clusters := make(map[string]*clusterAcc)
	dv.visitWheresWithProvenance(id, n.Wheres, clusters)
	dv.flushPluginClusters(clusters)

	for i, o := range n.Orders {
		dv.visitChild(id, fmt.Sprintf("ORDER[%d]", i), o)
	}
	if n.Limit != nil {
		dv.visitChild(id, "LIMIT", n.Limit)
	}
	for i, r := range n.Returning {
		dv.visitChild(id, fmt.Sprintf("RETURNING[%d]", i), r)
	}
	return id
}

func (dv *DotVisitor) VisitAssignment(n *nodes.AssignmentNode) string {
	id := dv.addNode("=", colorStatement)
	dv.connectToParent(id)
	dv.visitChild(id, "COL", n.Left)
	dv.visitChild(id, "VAL", n.Right)
	return id
}

// Infix operator display names for DOT labels.
var infixOpName = [...]string{
	nodes.OpPlus:     "+",
	nodes.OpMinus:    "-",
	nodes.OpMultiply: "*",
	nodes.OpDivide:   "/",
	nodes.OpMod:      "%",
	nodes.OpConcat:   "||",
}

func (dv *DotVisitor) VisitInfix(n *nodes.InfixNode) string {
	id := dv.addNode(infixOpName[n.Op], colorArithmetic)
	dv.connectToParent(id)
	dv.visitChild(id, "L", n.Left)
	dv.visitChild(id, "R", n.Right)
	return id
}

func (dv *DotVisitor) VisitAggregate(n *nodes.AggregateNode) string {
	label := aggregateFuncSQL[n.Func]
	if n.Distinct {
		label += "\\nDISTINCT"
	}
	id := dv.addNode(label, colorFunction)
	dv.connectToParent(id)
	if n.Expr != nil {
		dv.visitChild(id, "ARG", n.Expr)
	}
	if n.Filter != nil {
		dv.visitChild(id, "FILTER", n.Filter)
	}
	return id
}

func (dv *DotVisitor) VisitExtract(n *nodes.ExtractNode) string {
	id := dv.addNode("EXTRACT\\n"+extractFieldSQL[n.Field], colorFunction)
	dv.connectToParent(id)
	dv.visitChild(id, "", n.Expr)
	return id
}

func (dv *DotVisitor) VisitExists(n *nodes.ExistsNode) string {
	label := "EXISTS"
	if n.Negated {
		label = "NOT EXISTS"
	}
	id := dv.addNode(label, colorComparison)
	dv.connectToParent(id)
	dv.visitChild(id, "", n.Subquery)
	return id
}

func (dv *DotVisitor) VisitNamedFunction(n *nodes.NamedFunctionNode) string {
	label := n.Name
	if n.Distinct {
		label += "\\nDISTINCT"
	}
	id := dv.addNode(label, colorFunction)
	dv.connectToParent(id)
	for i, arg := range n.Args {
		dv.visitChild(id, fmt.Sprintf("ARG[%d]", i), arg)
	}
	return id
}

func (dv *DotVisitor) VisitCase(n *nodes.CaseNode) string {
	id := dv.addNode("CASE", colorLogical)
	dv.connectToParent(id)
	if n.Operand != nil {
		dv.visitChild(id, "OPERAND", n.Operand)
	}
	for i, w := range n.Whens {
		dv.visitChild(id, fmt.Sprintf("WHEN[%d]", i), w.Condition)
		dv.visitChild(id, fmt.Sprintf("THEN[%d]", i), w.Result)
	}
	if n.ElseVal != nil {
		dv.visitChild(id, "ELSE", n.ElseVal)
	}
	return id
}

func (dv *DotVisitor) VisitAlias(n *nodes.AliasNode) string {
	id := dv.addNode("Alias\\n"+n.Name, colorAttribute)
	dv.connectToParent(id)
	dv.visitChild(id, "EXPR", n.Expr)
	return id
}

func (dv *DotVisitor) VisitCasted(n *nodes.CastedNode) string {
	id := dv.addNode(fmt.Sprintf("Casted\\n%v (%s)", n.Value, n.TypeName), colorLiteral)
	dv.connectToParent(id)
	return id
}
