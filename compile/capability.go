package compile

import "github.com/poiesic/relevance/rank"

// Capabilities is the set of expression node types one backend evaluates
// natively for one entity kind. It is injectable configuration, not code:
// a new backend is described by a new capability value.
type Capabilities struct {
	// Types holds the natively supported node types.
	Types map[rank.ExprType]bool

	// ConstOperandMult restricts native Mult nodes to products carrying at
	// least one Const child, the shape weighted-sum rankers accept.
	ConstOperandMult bool
}

// Supports reports whether the node type is natively evaluable.
func (c Capabilities) Supports(t rank.ExprType) bool {
	return c.Types[t]
}

// FullText describes a lexical store: weighted sums of BM25 terms with Max
// merging, where Mult must keep a constant operand.
func FullText() Capabilities {
	return Capabilities{
		Types: map[rank.ExprType]bool{
			rank.TypeBM25:  true,
			rank.TypeConst: true,
			rank.TypeAttr:  true,
			rank.TypeSum:   true,
			rank.TypeMult:  true,
			rank.TypeMax:   true,
		},
		ConstOperandMult: true,
	}
}

// Vector describes a similarity store: the full arithmetic set over
// attributes (the similarity itself arrives as a reserved attribute), but
// no lexical scoring.
func Vector() Capabilities {
	return Capabilities{
		Types: map[rank.ExprType]bool{
			rank.TypeConst:    true,
			rank.TypeAttr:     true,
			rank.TypeSum:      true,
			rank.TypeMult:     true,
			rank.TypeDiv:      true,
			rank.TypeMax:      true,
			rank.TypeMin:      true,
			rank.TypeLog:      true,
			rank.TypeSaturate: true,
		},
	}
}

// None describes a backend with no native scoring: every expression is
// evaluated client-side.
func None() Capabilities {
	return Capabilities{}
}
