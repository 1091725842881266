package rank

import "github.com/poiesic/relevance/core"

// Default ranking formulas per entity kind. The tables below are the only
// kind-specific knowledge the provider holds; adding an entity kind is a
// table edit.

// fieldWeight is one weighted BM25 term of a text-query formula.
type fieldWeight struct {
	Field  string
	Weight float64
}

// attrTerm is one attribute-derived term. A non-zero LogCap turns the raw
// attribute into Log(value+1)/Log(cap+1) clamped to [0,1]; LogCap 0 uses
// the attribute value directly (similarity scores are already bounded).
type attrTerm struct {
	Attr   string
	Weight float64
	LogCap float64
}

// formula is the per-kind default: BM25 terms apply when query text is
// present, attr terms always apply, and empty terms take over when there is
// no text to score.
type formula struct {
	BM25  []fieldWeight
	Attrs []attrTerm
	Empty []attrTerm
}

var defaultFormulas = map[core.EntityKind]formula{
	core.KindUser: {
		BM25: []fieldWeight{
			{Field: "emails", Weight: 3},
			{Field: "bio", Weight: 3},
			{Field: "location", Weight: 2},
			{Field: "login", Weight: 1},
			{Field: "company", Weight: 1},
		},
		Empty: []attrTerm{
			{Attr: "followers", Weight: 1, LogCap: 100000},
		},
	},
	core.KindProfile: {
		BM25: []fieldWeight{
			{Field: "title", Weight: 3},
			{Field: "headline", Weight: 3},
			{Field: "expertise", Weight: 2},
			{Field: "skills", Weight: 2},
			{Field: "education", Weight: 1},
			{Field: "school", Weight: 1},
			{Field: "degree", Weight: 1},
			{Field: "summary", Weight: 1},
			{Field: "company", Weight: 1},
		},
	},
	core.KindRepo: {
		Attrs: []attrTerm{
			{Attr: AttrSimilarity, Weight: 0.7},
			{Attr: "stargazerCount", Weight: 0.2, LogCap: 100000},
			{Attr: "closedIssueCount", Weight: 0.1, LogCap: 10000},
		},
		Empty: []attrTerm{
			{Attr: AttrSimilarity, Weight: 0.7},
			{Attr: "stargazerCount", Weight: 0.2, LogCap: 100000},
			{Attr: "closedIssueCount", Weight: 0.1, LogCap: 10000},
		},
	},
}

// DefaultExpression returns the built-in ranking formula for an entity
// kind. With query text it is the kind's weighted BM25 sum plus any
// attribute terms; without, a volume-based default (or Const 0 when the
// kind has none, yielding insertion-order-independent, ID-stable output).
func DefaultExpression(kind core.EntityKind, queryText string) *Expr {
	f, ok := defaultFormulas[kind]
	if !ok {
		return Const(0)
	}

	var terms []attrTerm
	var bm25 []fieldWeight
	if queryText == "" {
		terms = f.Empty
	} else {
		terms = f.Attrs
		bm25 = f.BM25
	}

	children := make([]*Expr, 0, len(bm25)+len(terms))
	for _, fw := range bm25 {
		children = append(children, Mult(Const(fw.Weight), BM25(fw.Field, queryText)))
	}
	for _, at := range terms {
		children = append(children, Mult(Const(at.Weight), attrExpr(at)))
	}

	switch len(children) {
	case 0:
		return Const(0)
	case 1:
		return children[0]
	default:
		return Sum(children...)
	}
}

// attrExpr renders one attribute term: either the raw attribute or its
// log-normalized form Min(1, Log10(v+1)/Log10(cap+1)).
func attrExpr(at attrTerm) *Expr {
	if at.LogCap <= 0 {
		return Attr(at.Attr)
	}
	return Min(
		Const(1),
		Div(
			Log(10, Sum(Attr(at.Attr), Const(1))),
			Log(10, Const(at.LogCap+1)),
		),
	)
}
