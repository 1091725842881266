package compile

import (
	"fmt"

	"github.com/poiesic/relevance/rank"
)

// PushdownMiss records one subtree that stayed client-side, for diagnostics
// and logging. It is informational and never blocks execution.
type PushdownMiss struct {
	// Path addresses the residual subtree's root from the expression root.
	Path string
	// Type is the node type at that root.
	Type rank.ExprType
	// Reason says why the subtree was not natively expressible.
	Reason string
}

// CompiledQuery is the outcome of splitting an expression between a
// backend's native scorer and the client evaluator. Evaluating Native
// natively, Residual locally, and combining with Combine is semantically
// equal to evaluating the original tree in one pass.
type CompiledQuery struct {
	// Native is the pushdown portion; nil when the backend evaluates
	// nothing (native score contributes 0).
	Native *rank.Expr

	// Residual is the client-side portion; nil when fully native.
	Residual *rank.Expr

	// Misses lists the subtrees behind Residual.
	Misses []PushdownMiss
}

// FullyNative reports whether no client-side evaluation is needed.
func (q *CompiledQuery) FullyNative() bool {
	return q.Residual == nil
}

// Combine merges the two partial scores under the rule fixed by the split:
// addition when the tree was split at a Sum, the residual alone when
// nothing was pushed down, the native score alone when everything was.
func (q *CompiledQuery) Combine(native, residual float64) float64 {
	switch {
	case q.Native == nil:
		return residual
	case q.Residual == nil:
		return native
	default:
		return native + residual
	}
}

// Expression splits an expression against a capability set. A node is
// pushdown-eligible only if its own type is supported and every child is
// eligible; no partial credit is granted for a parent whose child must be
// computed client-side. The only split point is a root Sum, whose eligible
// children stay native while the rest become the residual — addition is
// the one combinator whose partial results recombine exactly. Child order
// is preserved throughout.
func Expression(e *rank.Expr, caps Capabilities) *CompiledQuery {
	if e == nil {
		return &CompiledQuery{}
	}

	if eligible(e, caps) {
		return &CompiledQuery{Native: e}
	}

	if e.Type == rank.TypeSum && caps.Supports(rank.TypeSum) {
		var native, residual []*rank.Expr
		var misses []PushdownMiss
		for i, child := range e.Exprs {
			if eligible(child, caps) {
				native = append(native, child)
				continue
			}
			residual = append(residual, child)
			misses = append(misses, miss(child, caps, fmt.Sprintf("$.Sum[%d]", i)))
		}
		if len(native) > 0 {
			return &CompiledQuery{
				Native:   wrapSum(native),
				Residual: wrapSum(residual),
				Misses:   misses,
			}
		}
	}

	// The whole tree stays client-side and the native portion scores 0.
	return &CompiledQuery{
		Residual: e,
		Misses:   []PushdownMiss{miss(e, caps, "$")},
	}
}

// wrapSum preserves declared order, unwrapping the degenerate
// single-child sum.
func wrapSum(children []*rank.Expr) *rank.Expr {
	if len(children) == 1 {
		return children[0]
	}
	return rank.Sum(children...)
}

func eligible(e *rank.Expr, caps Capabilities) bool {
	if e == nil {
		return false
	}
	if !caps.Supports(e.Type) {
		return false
	}
	if e.Type == rank.TypeMult && caps.ConstOperandMult && !hasConstOperand(e) {
		return false
	}
	for _, child := range e.Exprs {
		if !eligible(child, caps) {
			return false
		}
	}
	return true
}

func hasConstOperand(e *rank.Expr) bool {
	for _, child := range e.Exprs {
		if child != nil && child.Type == rank.TypeConst {
			return true
		}
	}
	return false
}

// miss locates the first ineligible node under root, walking declared
// order, and renders the reason.
func miss(root *rank.Expr, caps Capabilities, at string) PushdownMiss {
	path, node := firstIneligible(root, caps, at)
	reason := fmt.Sprintf("%s not in native capability set", node.Type)
	if node.Type == rank.TypeMult && caps.Supports(rank.TypeMult) {
		reason = "Mult requires a constant operand"
	}
	return PushdownMiss{Path: path, Type: node.Type, Reason: reason}
}

func firstIneligible(e *rank.Expr, caps Capabilities, at string) (string, *rank.Expr) {
	at = at + "." + e.Type.String()
	if !caps.Supports(e.Type) {
		return at, e
	}
	if e.Type == rank.TypeMult && caps.ConstOperandMult && !hasConstOperand(e) {
		return at, e
	}
	for i, child := range e.Exprs {
		if child != nil && !eligible(child, caps) {
			return firstIneligible(child, caps, fmt.Sprintf("%s[%d]", at, i))
		}
	}
	return at, e
}
