package nodes

// GroupingNode wraps an expression in parentheses for precedence control.
type GroupingNode struct {
	Combinable
	Expr Node
}

func (n *GroupingNode) Accept(v Visitor) string { return v.VisitGrouping(n) }

// Grouping wraps expr in a GroupingNode.
func Grouping(expr Node) *GroupingNode {
	g := &GroupingNode{Expr: expr}
	g.self = g
	return g
}
