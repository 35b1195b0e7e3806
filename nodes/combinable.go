package nodes

// Combinable provides logical chaining methods to types that embed it.
// The self field must be set to the embedding node.
type Combinable struct {
	self Node
}

// And creates an AndNode combining self with other.
func (c Combinable) And(other Node) *AndNode {
	return NewAndNode(c.self, other)
}

// Or creates an OrNode combining self with other.
func (c Combinable) Or(other Node) *OrNode {
	n := &OrNode{Left: c.self, Right: other}
	n.self = n
	return n
}

// Not creates a NotNode negating self.
func (c Combinable) Not() *NotNode {
	n := &NotNode{Expr: c.self}
	n.self = n
	return n
}
