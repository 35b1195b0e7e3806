package nodes

// NamedFunctionNode represents a named SQL function call like COALESCE,
// LOWER, CAST, etc. The function name renders exactly as given.
type NamedFunctionNode struct {
	Predications
	Arithmetics
	Combinable
	Name     string
	Args     []Node
	Distinct bool
}

func (n *NamedFunctionNode) Accept(v Visitor) string { return v.VisitNamedFunction(n) }

// Fn creates a function call node. Arguments that are not already nodes
// are wrapped as literals.
func Fn(name string, args ...any) *NamedFunctionNode {
	wrapped := make([]Node, len(args))
	for i, a := range args {
		wrapped[i] = Literal(a)
	}
	n := &NamedFunctionNode{Name: name, Args: wrapped}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

// Coalesce creates a COALESCE(args...) function call.
func Coalesce(args ...Node) *NamedFunctionNode {
	anyArgs := make([]any, len(args))
	for i, a := range args {
		anyArgs[i] = a
	}
	return Fn("COALESCE", anyArgs...)
}

// Lower creates a LOWER(expr) function call.
func Lower(expr Node) *NamedFunctionNode { return Fn("LOWER", expr) }

// Upper creates an UPPER(expr) function call.
func Upper(expr Node) *NamedFunctionNode { return Fn("UPPER", expr) }

// Cast creates a CAST(expr AS typeName) expression.
// The type name is stored as a SqlLiteral so it renders verbatim.
func Cast(expr Node, typeName string) *NamedFunctionNode {
	return Fn("CAST", expr, SQL(typeName))
}
