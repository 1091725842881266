package rank

import "fmt"

// ExprType discriminates expression nodes.
type ExprType int

const (
	// TypeBM25 is lexical relevance of a query against a full-text field.
	TypeBM25 ExprType = iota + 1
	// TypeAttr reads a numeric attribute off the candidate document.
	TypeAttr
	// TypeConst is a numeric literal.
	TypeConst
	// TypeSum adds its children.
	TypeSum
	// TypeMult multiplies its children.
	TypeMult
	// TypeDiv divides the first child by the second. Division by zero
	// yields 0, keeping scores well-defined.
	TypeDiv
	// TypeMax takes the maximum child value.
	TypeMax
	// TypeMin takes the minimum child value.
	TypeMin
	// TypeLog is a logarithm with configurable base; non-positive operands
	// are clamped to a small epsilon.
	TypeLog
	// TypeSaturate maps [0, inf) into [0, 1) via x/(x+midpoint).
	TypeSaturate
)

// String returns the wire name of the node type.
func (t ExprType) String() string {
	switch t {
	case TypeBM25:
		return "BM25"
	case TypeAttr:
		return "Attr"
	case TypeConst:
		return "Const"
	case TypeSum:
		return "Sum"
	case TypeMult:
		return "Mult"
	case TypeDiv:
		return "Div"
	case TypeMax:
		return "Max"
	case TypeMin:
		return "Min"
	case TypeLog:
		return "Log"
	case TypeSaturate:
		return "Saturate"
	default:
		return fmt.Sprintf("ExprType(%d)", int(t))
	}
}

// AttrSimilarity is the reserved attribute carrying the backend's vector
// similarity score. Backends that intrinsically rank by approximate
// nearest neighbor inject their similarity under this name before
// compilation, so the combiner never special-cases it.
const AttrSimilarity = "ann_score"

// Expr is a scoring formula node. Exactly one case applies per Type;
// children keep their declared order (Sum/Max/Min are arithmetically
// order-independent but order-stable for debugging).
type Expr struct {
	Type ExprType

	// BM25
	Field string
	Query string

	// Attr
	Name string

	// Const
	Value float64

	// Log
	Base float64

	// Saturate
	Midpoint float64

	// Children: n-ary for Sum/Mult/Max/Min, exactly two for Div
	// (numerator, denominator), exactly one for Log and Saturate.
	Exprs []*Expr
}

// BM25 builds a lexical relevance node over a full-text field.
func BM25(field, query string) *Expr {
	return &Expr{Type: TypeBM25, Field: field, Query: query}
}

// Attr builds an attribute lookup node. Absent attributes evaluate to 0.
func Attr(name string) *Expr {
	return &Expr{Type: TypeAttr, Name: name}
}

// Const builds a numeric literal node.
func Const(value float64) *Expr {
	return &Expr{Type: TypeConst, Value: value}
}

// Sum builds an addition node over children.
func Sum(children ...*Expr) *Expr {
	return &Expr{Type: TypeSum, Exprs: children}
}

// Mult builds a product node over children.
func Mult(children ...*Expr) *Expr {
	return &Expr{Type: TypeMult, Exprs: children}
}

// Div builds a division node. Division by zero evaluates to 0.
func Div(numerator, denominator *Expr) *Expr {
	return &Expr{Type: TypeDiv, Exprs: []*Expr{numerator, denominator}}
}

// Max builds a maximum node over children.
func Max(children ...*Expr) *Expr {
	return &Expr{Type: TypeMax, Exprs: children}
}

// Min builds a minimum node over children.
func Min(children ...*Expr) *Expr {
	return &Expr{Type: TypeMin, Exprs: children}
}

// Log builds a logarithm node.
func Log(base float64, operand *Expr) *Expr {
	return &Expr{Type: TypeLog, Base: base, Exprs: []*Expr{operand}}
}

// Saturate builds a monotone squashing node: 0 at 0, 0.5 at the midpoint,
// asymptotically approaching 1.
func Saturate(operand *Expr, midpoint float64) *Expr {
	return &Expr{Type: TypeSaturate, Midpoint: midpoint, Exprs: []*Expr{operand}}
}
