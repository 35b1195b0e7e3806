package nodes

// Predications provides comparison methods to types that embed it.
// The self field must be set to the embedding node so that comparisons
// reference the correct left-hand side.
type Predications struct {
	self Node
}

func (p Predications) compare(op ComparisonOp, val any) *ComparisonNode {
	return NewComparisonNode(p.self, Literal(val), op)
}

// Eq creates an equality comparison: self = val. A nil val renders as
// IS NULL.
func (p Predications) Eq(val any) *ComparisonNode { return p.compare(OpEq, val) }

// NotEq creates an inequality comparison: self != val. A nil val renders
// as IS NOT NULL.
func (p Predications) NotEq(val any) *ComparisonNode { return p.compare(OpNotEq, val) }

// Gt creates a greater-than comparison: self > val.
func (p Predications) Gt(val any) *ComparisonNode { return p.compare(OpGt, val) }

// GtEq creates a greater-than-or-equal comparison: self >= val.
func (p Predications) GtEq(val any) *ComparisonNode { return p.compare(OpGtEq, val) }

// Lt creates a less-than comparison: self < val.
func (p Predications) Lt(val any) *ComparisonNode { return p.compare(OpLt, val) }

// LtEq creates a less-than-or-equal comparison: self <= val.
func (p Predications) LtEq(val any) *ComparisonNode { return p.compare(OpLtEq, val) }

// Like creates a LIKE comparison: self LIKE val.
func (p Predications) Like(val any) *ComparisonNode { return p.compare(OpLike, val) }

// NotLike creates a NOT LIKE comparison: self NOT LIKE val.
func (p Predications) NotLike(val any) *ComparisonNode { return p.compare(OpNotLike, val) }

// Is creates an IS comparison: self IS val.
func (p Predications) Is(val any) *ComparisonNode { return p.compare(OpIs, val) }

// In creates an IN predicate over a literal value list: self IN (vals...).
func (p Predications) In(vals ...any) *InNode {
	wrapped := make([]Node, len(vals))
	for i, v := range vals {
		wrapped[i] = Literal(v)
	}
	n := &InNode{Expr: p.self, Vals: wrapped}
	n.self = n
	return n
}

// NotIn creates a NOT IN predicate: self NOT IN (vals...).
func (p Predications) NotIn(vals ...any) *InNode {
	n := p.In(vals...)
	n.Negate = true
	return n
}

// InQuery creates an IN predicate over a subquery: self IN (SELECT ...).
func (p Predications) InQuery(query Node) *InNode {
	n := &InNode{Expr: p.self, Query: Unwrap(query)}
	n.self = n
	return n
}

// NotInQuery creates a NOT IN predicate over a subquery.
func (p Predications) NotInQuery(query Node) *InNode {
	n := p.InQuery(query)
	n.Negate = true
	return n
}

// Between creates a BETWEEN predicate: self BETWEEN low AND high.
func (p Predications) Between(low, high any) *BetweenNode {
	n := &BetweenNode{Expr: p.self, Low: Literal(low), High: Literal(high)}
	n.self = n
	return n
}

// NotBetween creates a NOT BETWEEN predicate.
func (p Predications) NotBetween(low, high any) *BetweenNode {
	n := p.Between(low, high)
	n.Negate = true
	return n
}

// IsNull creates an IS NULL predicate.
func (p Predications) IsNull() *UnaryNode {
	n := &UnaryNode{Expr: p.self, Op: OpIsNull}
	n.self = n
	return n
}

// IsNotNull creates an IS NOT NULL predicate.
func (p Predications) IsNotNull() *UnaryNode {
	n := &UnaryNode{Expr: p.self, Op: OpIsNotNull}
	n.self = n
	return n
}

// As creates an AliasNode wrapping self with the given alias name.
func (p Predications) As(name string) *AliasNode {
	return NewAliasNode(p.self, name)
}

// Asc creates an ascending ordering node.
func (p Predications) Asc() *OrderingNode {
	n := &OrderingNode{Expr: p.self, Direction: Asc}
	n.self = n
	return n
}

// Desc creates a descending ordering node.
func (p Predications) Desc() *OrderingNode {
	n := &OrderingNode{Expr: p.self, Direction: Desc}
	n.self = n
	return n
}

// ChainAnd combines the given conditions into a left-associative AND
// chain. Returns nil for an empty list and the sole node for a
// single-element list.
func ChainAnd(nds ...Node) Node {
	if len(nds) == 0 {
		return nil
	}
	result := nds[0]
	for i := 1; i < len(nds); i++ {
		result = NewAndNode(result, nds[i])
	}
	return result
}
