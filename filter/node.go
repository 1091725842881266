package filter

// Operator names a field comparison.
type Operator string

// Equality family.
const (
	Eq    Operator = "Eq"
	NotEq Operator = "NotEq"
	In    Operator = "In"
	NotIn Operator = "NotIn"
)

// Ordering family: numeric and timestamp fields only.
const (
	Gt  Operator = "Gt"
	Gte Operator = "Gte"
	Lt  Operator = "Lt"
	Lte Operator = "Lte"
)

// Array family: exact element membership on array fields.
const (
	Contains       Operator = "Contains"
	ContainsAny    Operator = "ContainsAny"
	NotContains    Operator = "NotContains"
	NotContainsAny Operator = "NotContainsAny"
)

// ContainsAllTokens matches when every case-folded token of the value
// appears somewhere across the field's text content, in any order, across
// any element. Requires a full-text-searchable field.
const ContainsAllTokens Operator = "ContainsAllTokens"

// Pattern family.
const (
	Glob  Operator = "Glob"
	IGlob Operator = "IGlob"
	Regex Operator = "Regex"
)

// Combinator joins the children of a composite node.
type Combinator string

const (
	CombinatorAnd Combinator = "And"
	CombinatorOr  Combinator = "Or"
)

// Node is a boolean predicate over document fields: either a single field
// comparison (Field is set) or an And/Or composite over ordered children.
type Node struct {
	// Field comparison.
	Field string
	Op    Operator
	Value any

	// Composite.
	Combinator Combinator
	Children   []*Node
}

// IsComposite reports whether the node is an And/Or combination.
func (n *Node) IsComposite() bool {
	return n.Field == ""
}

// Field builds a field comparison node.
func Field(field string, op Operator, value any) *Node {
	return &Node{Field: field, Op: op, Value: value}
}

// And builds a conjunction over children.
func And(children ...*Node) *Node {
	return &Node{Combinator: CombinatorAnd, Children: children}
}

// Or builds a disjunction over children.
func Or(children ...*Node) *Node {
	return &Node{Combinator: CombinatorOr, Children: children}
}
